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
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/test/io"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// NewTestStorageEngine creates a storage engine backed by a SQLite database in a temporary directory,
// with an in-memory session database. It is shut down when the test completes.
func NewTestStorageEngine(t testing.TB) Engine {
	result := New().(*engine)
	serverConfig := core.TestServerConfig(core.ServerConfig{Datadir: io.TestDirectory(t)})
	require.NoError(t, result.Configure(serverConfig))
	t.Cleanup(func() {
		_ = result.Shutdown()
	})
	return result
}

// NewTestStorageEngineRedis creates a storage engine like NewTestStorageEngine, but with a Redis session database
// backed by miniredis.
func NewTestStorageEngineRedis(t testing.TB) (Engine, *miniredis.Miniredis) {
	redisServer := miniredis.RunT(t)
	result := New().(*engine)
	result.config.Session.Type = RedisSessionType
	result.config.Session.Redis = RedisConfig{Address: redisServer.Addr()}
	serverConfig := core.TestServerConfig(core.ServerConfig{Datadir: io.TestDirectory(t)})
	require.NoError(t, result.Configure(serverConfig))
	t.Cleanup(func() {
		_ = result.Shutdown()
	})
	return result, redisServer
}

// NewTestInMemorySessionDatabase creates an in-memory session database that is closed when the test completes.
func NewTestInMemorySessionDatabase(t testing.TB) *InMemorySessionDatabase {
	db := NewInMemorySessionDatabase(time.Minute)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewTestRedisSessionDatabase creates a Redis session database backed by miniredis.
func NewTestRedisSessionDatabase(t testing.TB) (SessionDatabase, *miniredis.Miniredis) {
	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	db := NewRedisSessionDatabase(client, "")
	t.Cleanup(db.Close)
	return db, redisServer
}

func getRandomAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
