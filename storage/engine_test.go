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
	"testing"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/test/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEngine_Name(t *testing.T) {
	assert.Equal(t, "Storage", New().(core.Named).Name())
}

func TestEngine_lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	sut := New().(*engine)
	sut.config.Session.Type = SQLSessionType

	require.NoError(t, sut.Configure(core.TestServerConfig(core.ServerConfig{Datadir: io.TestDirectory(t)})))
	require.NoError(t, sut.Start())

	assert.NotNil(t, sut.GetSQLDatabase())
	assert.IsType(t, &SQLSessionDatabase{}, sut.GetSessionDatabase())
	require.NoError(t, sut.Shutdown())
}

func TestEngine_Configure(t *testing.T) {
	serverConfig := func(t *testing.T) core.ServerConfig {
		return core.TestServerConfig(core.ServerConfig{Datadir: io.TestDirectory(t)})
	}
	t.Run("default is in-memory session database", func(t *testing.T) {
		sut := NewTestStorageEngine(t)

		assert.IsType(t, &InMemorySessionDatabase{}, sut.GetSessionDatabase())
	})
	t.Run("redis", func(t *testing.T) {
		sut, _ := NewTestStorageEngineRedis(t)

		assert.IsType(t, &redisSessionDatabase{}, sut.GetSessionDatabase())
	})
	t.Run("invalid session type", func(t *testing.T) {
		sut := New().(*engine)
		sut.config.Session.Type = "dynamodb"

		err := sut.Configure(serverConfig(t))

		assert.EqualError(t, err, "unsupported session type: 'dynamodb'")
	})
	t.Run("redis without address", func(t *testing.T) {
		sut := New().(*engine)
		sut.config.Session.Type = RedisSessionType

		err := sut.Configure(serverConfig(t))

		assert.EqualError(t, err, "session type 'redis' requires storage.session.redis.address")
	})
	t.Run("memcached without address", func(t *testing.T) {
		sut := New().(*engine)
		sut.config.Session.Type = MemcachedSessionType

		err := sut.Configure(serverConfig(t))

		assert.EqualError(t, err, "session type 'memcached' requires storage.session.memcached.address")
	})
	t.Run("unsupported SQL connection string", func(t *testing.T) {
		sut := New().(*engine)
		sut.config.SQL.ConnectionString = "oracle://localhost"

		err := sut.Configure(serverConfig(t))

		assert.EqualError(t, err, "unsupported SQL database connection string (scheme=oracle)")
	})
}
