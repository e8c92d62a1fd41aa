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
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"
)

// ErrNotFound is returned when an entry is not found in a session store, or when it has expired.
var ErrNotFound = errors.New("not found")

// ErrInvalidEntry is returned by Put when the key is blank or the value is nil. Nothing is written in that case.
var ErrInvalidEntry = errors.New("invalid session entry: key must not be blank and value must not be nil")

// SessionDatabase is a non-persistent database that holds session data on a KV basis.
// Keys could be pre-authorized codes, nonces, transaction codes, etc.
// All entries are stored with a TTL, so they will be removed automatically.
type SessionDatabase interface {
	// GetStore returns a SessionStore with the given keys as key prefixes.
	// The keys are used to logically partition the store, eg: "vci", "preauthcode".
	// The TTL applies to every entry in the store; it is fixed when the store is obtained.
	GetStore(ttl time.Duration, keys ...string) SessionStore
	// Close stops any background processes and closes the database.
	Close()
}

// SessionStore is a key-value store that holds session data.
// The SessionStore is an abstraction for underlying storage, it automatically adds prefixes for logical partitions.
// Implementations are safe for concurrent use.
type SessionStore interface {
	// Delete deletes the entry for the given key.
	// It does not return an error if the key does not exist.
	Delete(key string) error
	// Exists returns true if the key exists and has not expired.
	Exists(key string) bool
	// Get returns the value for the given key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(key string, target interface{}) error
	// Put stores the given value for the given key, expiring after the store's TTL.
	// Returns ErrInvalidEntry if the key is blank or the value is nil.
	Put(key string, value interface{}) error
	// GetAndDelete combines Get and Delete as a single atomic operation.
	// Of all concurrent callers for the same key, at most one receives the value, the others receive ErrNotFound.
	GetAndDelete(key string, target interface{}) error
	// TTLSeconds returns the TTL of entries in this store, in seconds.
	TTLSeconds() int
}

// marshalEntry validates a session entry and encodes the value as JSON.
func marshalEntry(key string, value interface{}) ([]byte, error) {
	if strings.TrimSpace(key) == "" || isNil(value) {
		return nil, ErrInvalidEntry
	}
	return json.Marshal(value)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func getFullKey(prefixes []string, key string) string {
	return strings.Join(append(append([]string{}, prefixes...), key), "/")
}

func ttlSeconds(ttl time.Duration) int {
	return int(ttl.Seconds())
}
