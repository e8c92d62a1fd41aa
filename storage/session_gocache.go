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

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
)

// takeFunc atomically retrieves and removes the value stored under the given full key.
type takeFunc func(ctx context.Context, fullKey string) ([]byte, error)

// gocacheSessionStore is a SessionStore on top of a gocache cache. Atomic retrieval (GetAndDelete) is delegated
// to the owning database, since gocache doesn't offer it.
type gocacheSessionStore struct {
	underlying *cache.Cache[[]byte]
	ttl        time.Duration
	prefixes   []string
	take       takeFunc
}

func (s gocacheSessionStore) Delete(key string) error {
	err := s.underlying.Delete(context.Background(), getFullKey(s.prefixes, key))
	if isCacheMiss(err) {
		return nil
	}
	return err
}

func (s gocacheSessionStore) Exists(key string) bool {
	_, err := s.underlying.Get(context.Background(), getFullKey(s.prefixes, key))
	return err == nil
}

func (s gocacheSessionStore) Get(key string, target interface{}) error {
	data, err := s.underlying.Get(context.Background(), getFullKey(s.prefixes, key))
	if err != nil {
		if isCacheMiss(err) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, target)
}

func (s gocacheSessionStore) Put(key string, value interface{}) error {
	data, err := marshalEntry(key, value)
	if err != nil {
		return err
	}
	return s.underlying.Set(context.Background(), getFullKey(s.prefixes, key), data, store.WithExpiration(s.ttl))
}

func (s gocacheSessionStore) GetAndDelete(key string, target interface{}) error {
	data, err := s.take(context.Background(), getFullKey(s.prefixes, key))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s gocacheSessionStore) TTLSeconds() int {
	return ttlSeconds(s.ttl)
}

// isCacheMiss returns true if the error signals an absent entry in any of the gocache backends in use.
func isCacheMiss(err error) bool {
	if err == nil {
		return false
	}
	var notFound store.NotFound
	var notFoundPtr *store.NotFound
	return errors.As(err, &notFound) || errors.As(err, &notFoundPtr) || errors.Is(err, memcache.ErrCacheMiss)
}
