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

package procedure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"gorm.io/gorm"
)

// nowFunc is used to determine the time of updates, so tests can control it.
var nowFunc = time.Now

var _ Store = (*SQLStore)(nil)

// SQLStore is a Store backed by a SQL database.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore creates a new SQLStore.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, procedure *CredentialProcedure) error {
	if procedure.ID == "" {
		procedure.ID = uuid.NewString()
	}
	procedure.CredentialStatus = StatusDraft
	procedure.CredentialEncoded = nil
	procedure.ValidUntil = nil
	procedure.UpdatedAt = nowFunc().Unix()
	return s.db.WithContext(ctx).Create(procedure).Error
}

func (s *SQLStore) Get(ctx context.Context, id string) (*CredentialProcedure, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *SQLStore) GetByCredentialID(ctx context.Context, credentialID string) (*CredentialProcedure, error) {
	return s.first(ctx, "credential_id = ?", credentialID)
}

func (s *SQLStore) List(ctx context.Context, status Status) ([]CredentialProcedure, error) {
	query := s.db.WithContext(ctx).Order("updated_at desc")
	if status != "" {
		query = query.Where("credential_status = ?", status)
	}
	var result []CredentialProcedure
	return result, query.Find(&result).Error
}

func (s *SQLStore) ClaimSigning(ctx context.Context, id string, decoded string, until time.Time) error {
	now := nowFunc()
	updates := map[string]interface{}{
		"credential_status": StatusPendingSignature,
		"signing_lease":     until.Unix(),
		"updated_at":        now.Unix(),
	}
	query := s.db.WithContext(ctx).Model(&CredentialProcedure{}).Where("id = ?", id)
	if decoded != "" {
		updates["credential_decoded"] = decoded
		query = query.Where("(credential_status = ? OR (credential_status = ? AND (signing_lease IS NULL OR signing_lease <= ?)))",
			StatusDraft, StatusPendingSignature, now.Unix())
	} else {
		query = query.Where("credential_status = ? AND (signing_lease IS NULL OR signing_lease <= ?)",
			StatusPendingSignature, now.Unix())
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.CredentialStatus == StatusPendingSignature && current.SigningLease != nil && *current.SigningLease > now.Unix() {
		return ErrSigningClaimed
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.CredentialStatus, StatusPendingSignature)
}

func (s *SQLStore) ReleaseSigning(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&CredentialProcedure{}).
		Where("id = ? AND credential_status = ?", id, StatusPendingSignature).
		Updates(map[string]interface{}{
			"signing_lease": nil,
			"updated_at":    nowFunc().Unix(),
		}).Error
}

func (s *SQLStore) MarkValid(ctx context.Context, id string, encoded string, format string, validUntil time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.transition(tx, id, []Status{StatusDraft, StatusPendingSignature}, map[string]interface{}{
			"credential_status":  StatusValid,
			"credential_encoded": encoded,
			"credential_format":  format,
			"valid_until":        validUntil.Unix(),
			"signing_lease":      nil,
		})
		if err != nil {
			return err
		}
		return tx.Model(&DeferredCredentialMetadata{}).
			Where("procedure_id = ? AND vc IS NULL", id).
			Updates(map[string]interface{}{
				"vc":        encoded,
				"vc_format": format,
			}).Error
	})
}

func (s *SQLStore) DeleteDraft(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND credential_status = ?", id, StatusDraft).Delete(&CredentialProcedure{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current CredentialProcedure
			if err := tx.Select("credential_status").Where("id = ?", id).First(&current).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return fmt.Errorf("%w: %s can't be deleted", ErrInvalidTransition, current.CredentialStatus)
		}
		return tx.Where("procedure_id = ?", id).Delete(&DeferredCredentialMetadata{}).Error
	})
}

func (s *SQLStore) MarkRevoked(ctx context.Context, id string) error {
	return s.transition(s.db.WithContext(ctx), id, []Status{StatusValid}, map[string]interface{}{
		"credential_status": StatusRevoked,
	})
}

func (s *SQLStore) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&CredentialProcedure{}).
		Where("credential_status = ? AND valid_until IS NOT NULL AND valid_until < ?", StatusValid, now.Unix()).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("unable to list overdue credential procedures: %w", err)
	}
	expired := 0
	for _, id := range ids {
		// condition is re-evaluated, the procedure might have been revoked in the meantime
		result := s.db.WithContext(ctx).Model(&CredentialProcedure{}).
			Where("id = ? AND credential_status = ? AND valid_until < ?", id, StatusValid, now.Unix()).
			Updates(map[string]interface{}{
				"credential_status": StatusExpired,
				"updated_at":        nowFunc().Unix(),
			})
		if result.Error != nil {
			return expired, fmt.Errorf("unable to expire credential procedure (id=%s): %w", id, result.Error)
		}
		if result.RowsAffected > 0 {
			expired++
			log.Logger().
				WithField(core.LogFieldProcedureID, id).
				Debug("Credential procedure expired")
		}
	}
	return expired, nil
}

// transition updates the procedure if its current status is one of the given statuses.
// It returns ErrNotFound if the procedure doesn't exist, or ErrInvalidTransition if its status doesn't match.
func (s *SQLStore) transition(db *gorm.DB, id string, from []Status, updates map[string]interface{}) error {
	updates["updated_at"] = nowFunc().Unix()
	result := db.Model(&CredentialProcedure{}).
		Where("id = ? AND credential_status IN ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}
	var current CredentialProcedure
	if err := db.Select("credential_status").Where("id = ?", id).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.CredentialStatus, updates["credential_status"])
}

func (s *SQLStore) first(ctx context.Context, query string, args ...interface{}) (*CredentialProcedure, error) {
	var result CredentialProcedure
	err := s.db.WithContext(ctx).Where(query, args...).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ MetadataStore = (*SQLMetadataStore)(nil)

// SQLMetadataStore is a MetadataStore backed by a SQL database.
type SQLMetadataStore struct {
	db *gorm.DB
}

// NewSQLMetadataStore creates a new SQLMetadataStore.
func NewSQLMetadataStore(db *gorm.DB) *SQLMetadataStore {
	return &SQLMetadataStore{db: db}
}

func (s *SQLMetadataStore) Create(ctx context.Context, metadata *DeferredCredentialMetadata) error {
	if metadata.ID == "" {
		metadata.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(metadata).Error
}

func (s *SQLMetadataStore) GetByTransactionCode(ctx context.Context, transactionCode string) (*DeferredCredentialMetadata, error) {
	return s.first(ctx, "transaction_code = ?", transactionCode)
}

func (s *SQLMetadataStore) GetByAuthServerNonce(ctx context.Context, nonce string) (*DeferredCredentialMetadata, error) {
	return s.first(ctx, "auth_server_nonce = ?", nonce)
}

func (s *SQLMetadataStore) GetByTransactionID(ctx context.Context, transactionID string) (*DeferredCredentialMetadata, error) {
	return s.first(ctx, "transaction_id = ?", transactionID)
}

func (s *SQLMetadataStore) GetByProcedureID(ctx context.Context, procedureID string) (*DeferredCredentialMetadata, error) {
	return s.first(ctx, "procedure_id = ?", procedureID)
}

func (s *SQLMetadataStore) BindAuthServerNonce(ctx context.Context, transactionCode string, nonce string) error {
	return s.update(ctx, "transaction_code = ?", transactionCode, "auth_server_nonce", nonce)
}

func (s *SQLMetadataStore) AssignTransactionID(ctx context.Context, procedureID string, transactionID string) error {
	return s.update(ctx, "procedure_id = ?", procedureID, "transaction_id", transactionID)
}

func (s *SQLMetadataStore) RotateTransactionCode(ctx context.Context, oldCode string, newCode string) error {
	return s.update(ctx, "transaction_code = ?", oldCode, "transaction_code", newCode)
}

func (s *SQLMetadataStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&DeferredCredentialMetadata{}).Error
}

func (s *SQLMetadataStore) update(ctx context.Context, query string, arg interface{}, column string, value interface{}) error {
	result := s.db.WithContext(ctx).Model(&DeferredCredentialMetadata{}).Where(query, arg).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLMetadataStore) first(ctx context.Context, query string, args ...interface{}) (*DeferredCredentialMetadata, error) {
	var result DeferredCredentialMetadata
	err := s.db.WithContext(ctx).Where(query, args...).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
