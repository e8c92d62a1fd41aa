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
	"errors"
	"fmt"
	"strings"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/storage/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Engine defines the interface for the storage engine.
type Engine interface {
	core.Engine
	core.Configurable
	core.Runnable

	// GetSQLDatabase returns the SQL database holding credential procedures and deferred issuance metadata.
	GetSQLDatabase() *gorm.DB
	// GetSessionDatabase returns the SessionDatabase for short-lived entries (codes, nonces, offers).
	GetSessionDatabase() SessionDatabase
}

// New creates a new instance of the storage engine.
func New() Engine {
	return &engine{
		config: DefaultConfig(),
	}
}

type engine struct {
	config          Config
	datadir         string
	sqlDB           *gorm.DB
	sessionDatabase SessionDatabase
}

func (e *engine) Name() string {
	return "Storage"
}

func (e *engine) Config() interface{} {
	return &e.config
}

// Configure opens the SQL database, applies the schema migrations and sets up the session database.
func (e *engine) Configure(config core.ServerConfig) error {
	if err := e.config.validate(); err != nil {
		return err
	}
	e.datadir = config.Datadir
	db, err := openSQLDatabase(e.config.SQL, e.datadir)
	if err != nil {
		return err
	}
	e.sqlDB = db
	e.sessionDatabase, err = e.createSessionDatabase()
	if err != nil {
		return fmt.Errorf("unable to configure session database: %w", err)
	}
	return nil
}

func (e *engine) createSessionDatabase() (SessionDatabase, error) {
	sessionConfig := e.config.Session
	switch sessionConfig.Type {
	case RedisSessionType:
		redis.SetLogger(redisLogWriter{logger: log.Logger()})
		client, err := newRedisClient(sessionConfig.Redis)
		if err != nil {
			return nil, err
		}
		log.Logger().Info("Session database: Redis")
		return NewRedisSessionDatabase(client, sessionConfig.Redis.Database), nil
	case MemcachedSessionType:
		client, err := newMemcachedClient(sessionConfig.Memcached)
		if err != nil {
			return nil, err
		}
		log.Logger().Infof("Session database: Memcached (servers=%s)", strings.Join(sessionConfig.Memcached.Address, ","))
		return NewMemcachedSessionDatabase(client), nil
	case SQLSessionType:
		log.Logger().Info("Session database: SQL")
		return NewSQLSessionDatabase(e.sqlDB, sessionConfig.PruneInterval), nil
	default:
		log.Logger().Warn("Session database: in-memory, entries are lost on restart and not shared between instances")
		return NewInMemorySessionDatabase(sessionConfig.PruneInterval), nil
	}
}

func (e *engine) Start() error {
	return nil
}

// Shutdown closes the session database and the SQL database.
func (e *engine) Shutdown() error {
	if e.sessionDatabase != nil {
		e.sessionDatabase.Close()
	}
	var errs []error
	if e.sqlDB != nil {
		underlying, err := e.sqlDB.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := underlying.Close(); err != nil {
			errs = append(errs, fmt.Errorf("unable to close SQL database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (e *engine) GetSQLDatabase() *gorm.DB {
	return e.sqlDB
}

func (e *engine) GetSessionDatabase() SessionDatabase {
	return e.sessionDatabase
}
