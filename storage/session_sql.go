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
	"strings"
	"sync"
	"time"

	"github.com/nuts-foundation/nuts-issuer/storage/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ SessionDatabase = (*SQLSessionDatabase)(nil)

type sessionStoreRecord struct {
	StoreName  string `gorm:"primaryKey"`
	EntryKey   string `gorm:"primaryKey"`
	// Expires is the expiry time in Unix milliseconds
	Expires    int64
	// EntryValue holds the JSON-encoded value
	EntryValue string
}

func (s sessionStoreRecord) TableName() string {
	return "session_store"
}

// SQLSessionDatabase is a SessionDatabase that stores its entries in the SQL database.
// Expired entries are never returned, and are periodically deleted.
type SQLSessionDatabase struct {
	db       *gorm.DB
	ctx      context.Context
	cancel   context.CancelFunc
	routines sync.WaitGroup
}

// NewSQLSessionDatabase creates a new SQLSessionDatabase and starts pruning expired entries at the given interval.
func NewSQLSessionDatabase(db *gorm.DB, pruneInterval time.Duration) *SQLSessionDatabase {
	result := &SQLSessionDatabase{db: db}
	result.ctx, result.cancel = context.WithCancel(context.Background())
	result.startPruning(pruneInterval)
	return result
}

func (s *SQLSessionDatabase) GetStore(ttl time.Duration, keys ...string) SessionStore {
	return sqlSessionStore{
		db:        s.db,
		ttl:       ttl,
		storeName: strings.Join(keys, "/"),
	}
}

func (s *SQLSessionDatabase) Close() {
	// Signal pruner to stop and wait for it to finish
	s.cancel()
	s.routines.Wait()
}

func (s *SQLSessionDatabase) startPruning(interval time.Duration) {
	ticker := time.NewTicker(interval)
	s.routines.Add(1)
	go func(ctx context.Context) {
		defer s.routines.Done()
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				pruned, err := s.prune(ctx)
				if err != nil {
					log.Logger().WithError(err).Warn("Failed to prune expired session entries")
				} else if pruned > 0 {
					log.Logger().Debugf("Pruned %d expired session entries", pruned)
				}
			}
		}
	}(s.ctx)
}

func (s *SQLSessionDatabase) prune(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires <= ?", time.Now().UnixMilli()).Delete(&sessionStoreRecord{})
	return result.RowsAffected, result.Error
}

type sqlSessionStore struct {
	db        *gorm.DB
	ttl       time.Duration
	storeName string
}

func (s sqlSessionStore) Delete(key string) error {
	return s.db.Where("store_name = ? AND entry_key = ?", s.storeName, key).Delete(&sessionStoreRecord{}).Error
}

func (s sqlSessionStore) Exists(key string) bool {
	var count int64
	err := s.live(s.db, key).Model(&sessionStoreRecord{}).Count(&count).Error
	return err == nil && count > 0
}

func (s sqlSessionStore) Get(key string, target interface{}) error {
	var record sessionStoreRecord
	if err := s.live(s.db, key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal([]byte(record.EntryValue), target)
}

func (s sqlSessionStore) Put(key string, value interface{}) error {
	data, err := marshalEntry(key, value)
	if err != nil {
		return err
	}
	record := sessionStoreRecord{
		StoreName:  s.storeName,
		EntryKey:   key,
		Expires:    time.Now().Add(s.ttl).UnixMilli(),
		EntryValue: string(data),
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}

// GetAndDelete reads the entry and deletes it. The caller whose DELETE affects the row is the one that receives the value;
// concurrent callers that read the same row but lose the DELETE receive ErrNotFound.
func (s sqlSessionStore) GetAndDelete(key string, target interface{}) error {
	var record sessionStoreRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.live(tx, key).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		result := s.live(tx, key).Delete(&sessionStoreRecord{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(record.EntryValue), target)
}

func (s sqlSessionStore) TTLSeconds() int {
	return ttlSeconds(s.ttl)
}

// live scopes the query to the given key, excluding expired entries.
func (s sqlSessionStore) live(db *gorm.DB, key string) *gorm.DB {
	return db.Where("store_name = ? AND entry_key = ? AND expires > ?", s.storeName, key, time.Now().UnixMilli())
}
