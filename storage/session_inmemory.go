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
	"sync"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/store/go_cache/v4"
	gocacheclient "github.com/patrickmn/go-cache"
)

var _ SessionDatabase = (*InMemorySessionDatabase)(nil)

// InMemorySessionDatabase is an in memory database that holds session data on a KV basis.
// Expired entries are evicted by the go-cache janitor and are never returned on read.
type InMemorySessionDatabase struct {
	client     *gocacheclient.Cache
	underlying *cache.Cache[[]byte]
	// takeMux serializes GetAndDelete calls, so only one caller can take an entry.
	takeMux sync.Mutex
}

// NewInMemorySessionDatabase creates a new in memory session database.
func NewInMemorySessionDatabase(pruneInterval time.Duration) *InMemorySessionDatabase {
	client := gocacheclient.New(5*time.Minute, pruneInterval)
	return &InMemorySessionDatabase{
		client:     client,
		underlying: cache.New[[]byte](go_cache.NewGoCache(client)),
	}
}

func (s *InMemorySessionDatabase) GetStore(ttl time.Duration, keys ...string) SessionStore {
	return gocacheSessionStore{
		underlying: s.underlying,
		ttl:        ttl,
		prefixes:   keys,
		take:       s.take,
	}
}

func (s *InMemorySessionDatabase) take(ctx context.Context, fullKey string) ([]byte, error) {
	s.takeMux.Lock()
	defer s.takeMux.Unlock()
	data, err := s.underlying.Get(ctx, fullKey)
	if err != nil {
		if isCacheMiss(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.client.Delete(fullKey)
	return data, nil
}

func (s *InMemorySessionDatabase) Close() {
	s.client.Flush()
}
