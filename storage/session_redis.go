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
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ SessionDatabase = (*redisSessionDatabase)(nil)

// NewRedisSessionDatabase creates a SessionDatabase backed by the given Redis client.
// If prefix is not empty, all keys are prefixed with it, so multiple issuers can share a Redis database.
func NewRedisSessionDatabase(client redis.UniversalClient, prefix string) SessionDatabase {
	return &redisSessionDatabase{
		client: client,
		prefix: prefix,
	}
}

type redisSessionDatabase struct {
	client redis.UniversalClient
	prefix string
}

func (s redisSessionDatabase) GetStore(ttl time.Duration, keys ...string) SessionStore {
	var prefixes []string
	if s.prefix != "" {
		prefixes = append(prefixes, s.prefix)
	}
	// redis treats a TTL of 0 as "no expiry"
	if ttl < time.Millisecond {
		ttl = time.Millisecond
	}
	return redisSessionStore{
		client:   s.client,
		ttl:      ttl,
		prefixes: append(prefixes, keys...),
	}
}

func (s redisSessionDatabase) Close() {
	_ = s.client.Close()
}

type redisSessionStore struct {
	client   redis.UniversalClient
	ttl      time.Duration
	prefixes []string
}

func (s redisSessionStore) Delete(key string) error {
	return s.client.Del(context.Background(), getFullKey(s.prefixes, key)).Err()
}

func (s redisSessionStore) Exists(key string) bool {
	count, err := s.client.Exists(context.Background(), getFullKey(s.prefixes, key)).Result()
	return err == nil && count > 0
}

func (s redisSessionStore) Get(key string, target interface{}) error {
	return s.read(s.client.Get(context.Background(), getFullKey(s.prefixes, key)), target)
}

func (s redisSessionStore) Put(key string, value interface{}) error {
	data, err := marshalEntry(key, value)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), getFullKey(s.prefixes, key), data, s.ttl).Err()
}

// GetAndDelete uses GETDEL, which is atomic on the Redis server.
func (s redisSessionStore) GetAndDelete(key string, target interface{}) error {
	return s.read(s.client.GetDel(context.Background(), getFullKey(s.prefixes, key)), target)
}

func (s redisSessionStore) TTLSeconds() int {
	return ttlSeconds(s.ttl)
}

func (s redisSessionStore) read(cmd *redis.StringCmd, target interface{}) error {
	data, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, target)
}
