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
	"time"
)

// Store is the durable store of credential procedures.
// Status transitions are enforced by the store: a procedure never regresses from a final status.
type Store interface {
	// Create stores a new procedure in DRAFT status. If no ID is set, one is generated.
	Create(ctx context.Context, procedure *CredentialProcedure) error
	// Get returns the procedure with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*CredentialProcedure, error)
	// GetByCredentialID returns the procedure of the given credential, or ErrNotFound.
	GetByCredentialID(ctx context.Context, credentialID string) (*CredentialProcedure, error)
	// List returns all procedures in the given status, or all procedures if status is empty.
	List(ctx context.Context, status Status) ([]CredentialProcedure, error)
	// ClaimSigning claims the signing of the procedure's credential until the given time, moving a DRAFT procedure to PENDING_SIGNATURE.
	// A PENDING_SIGNATURE procedure can only be claimed if it isn't claimed, or the claim lapsed.
	// If decoded is set, it replaces the unsigned credential. If it's empty, only PENDING_SIGNATURE procedures can be claimed.
	// Returns ErrSigningClaimed if another caller holds the claim, or ErrInvalidTransition if the procedure can't be signed.
	ClaimSigning(ctx context.Context, id string, decoded string, until time.Time) error
	// ReleaseSigning releases the signing claim of a PENDING_SIGNATURE procedure, e.g. after signing failed.
	ReleaseSigning(ctx context.Context, id string) error
	// MarkValid moves a DRAFT or PENDING_SIGNATURE procedure to VALID, storing the signed credential and releasing the signing claim.
	// The signed credential is also set on the procedure's deferred credential metadata, if any, in the same transaction.
	// Returns ErrInvalidTransition if the procedure is already final.
	MarkValid(ctx context.Context, id string, encoded string, format string, validUntil time.Time) error
	// DeleteDraft removes a DRAFT procedure and its deferred credential metadata, e.g. when its offer couldn't be sent.
	// Returns ErrInvalidTransition if the procedure isn't in DRAFT.
	DeleteDraft(ctx context.Context, id string) error
	// MarkRevoked moves a VALID procedure to REVOKED.
	MarkRevoked(ctx context.Context, id string) error
	// ExpireOverdue moves every VALID procedure whose validUntil is before now to EXPIRED.
	// Every procedure is updated independently. It returns the number of expired procedures.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// MetadataStore is the durable store of deferred credential metadata.
type MetadataStore interface {
	// Create stores new metadata. If no ID is set, one is generated.
	Create(ctx context.Context, metadata *DeferredCredentialMetadata) error
	// GetByTransactionCode returns the metadata with the given transaction code, or ErrNotFound.
	GetByTransactionCode(ctx context.Context, transactionCode string) (*DeferredCredentialMetadata, error)
	// GetByAuthServerNonce returns the metadata bound to the given access token nonce, or ErrNotFound.
	GetByAuthServerNonce(ctx context.Context, nonce string) (*DeferredCredentialMetadata, error)
	// GetByTransactionID returns the metadata with the given transaction ID, or ErrNotFound.
	GetByTransactionID(ctx context.Context, transactionID string) (*DeferredCredentialMetadata, error)
	// GetByProcedureID returns the metadata of the given procedure, or ErrNotFound.
	GetByProcedureID(ctx context.Context, procedureID string) (*DeferredCredentialMetadata, error)
	// BindAuthServerNonce binds the nonce of an access token to the metadata with the given transaction code.
	BindAuthServerNonce(ctx context.Context, transactionCode string, nonce string) error
	// AssignTransactionID sets the transaction ID of the procedure's metadata, used by the wallet to poll for the credential.
	AssignTransactionID(ctx context.Context, procedureID string, transactionID string) error
	// RotateTransactionCode replaces the transaction code of the metadata, invalidating the old one.
	RotateTransactionCode(ctx context.Context, oldCode string, newCode string) error
	// Delete removes the metadata (administrative cleanup).
	Delete(ctx context.Context, id string) error
}
