/*
 * Copyright (C) 2024 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package storage

import (
	"fmt"
	"time"
)

// SessionType names an implementation of the SessionDatabase.
type SessionType string

const (
	// InMemorySessionType keeps session data in process memory. Data is lost on restart and not shared between instances.
	InMemorySessionType SessionType = "memory"
	// RedisSessionType keeps session data in Redis.
	RedisSessionType SessionType = "redis"
	// MemcachedSessionType keeps session data in Memcached.
	MemcachedSessionType SessionType = "memcached"
	// SQLSessionType keeps session data in the SQL database.
	SQLSessionType SessionType = "sql"
)

// DefaultConfig returns the default configuration for the storage engine.
func DefaultConfig() Config {
	return Config{
		SQL: SQLConfig{
			SlowQueryThreshold: 500 * time.Millisecond,
		},
		Session: SessionConfig{
			Type:          InMemorySessionType,
			PruneInterval: 10 * time.Minute,
		},
	}
}

// Config specifies config for the storage engine.
type Config struct {
	SQL     SQLConfig     `koanf:"sql"`
	Session SessionConfig `koanf:"session"`
}

// SQLConfig specifies config for the SQL database holding credential procedures.
type SQLConfig struct {
	// ConnectionString is the connection string for the SQL database.
	// When empty, a SQLite database in the data directory is used.
	ConnectionString string `koanf:"connection"`
	// SlowQueryThreshold specifies the duration after which a query is logged as slow.
	SlowQueryThreshold time.Duration `koanf:"slowquerythreshold"`
}

// SessionConfig specifies config for the session database, which holds short-lived entries (codes, nonces, offers).
type SessionConfig struct {
	// Type selects the session database implementation.
	Type SessionType `koanf:"type"`
	// PruneInterval specifies how often expired entries are removed, for implementations that don't expire entries themselves.
	PruneInterval time.Duration   `koanf:"pruneinterval"`
	Redis         RedisConfig     `koanf:"redis"`
	Memcached     MemcachedConfig `koanf:"memcached"`
}

func (c Config) validate() error {
	switch c.Session.Type {
	case InMemorySessionType, SQLSessionType:
	case RedisSessionType:
		if !c.Session.Redis.isConfigured() {
			return fmt.Errorf("session type '%s' requires storage.session.redis.address", c.Session.Type)
		}
	case MemcachedSessionType:
		if len(c.Session.Memcached.Address) == 0 {
			return fmt.Errorf("session type '%s' requires storage.session.memcached.address", c.Session.Type)
		}
	default:
		return fmt.Errorf("unsupported session type: '%s'", c.Session.Type)
	}
	if c.Session.PruneInterval <= 0 {
		return fmt.Errorf("storage.session.pruneinterval must be positive")
	}
	return nil
}
