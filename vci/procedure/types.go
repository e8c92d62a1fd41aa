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
	"errors"
	"time"

	"gorm.io/gorm/schema"
)

// ErrNotFound is returned when a credential procedure or deferred credential metadata doesn't exist.
var ErrNotFound = errors.New("credential procedure not found")

// ErrInvalidTransition is returned when a status transition is not allowed from the procedure's current status,
// e.g. when trying to sign a credential that is already valid.
var ErrInvalidTransition = errors.New("invalid credential procedure status transition")

// ErrSigningClaimed is returned when the signing of a procedure's credential is already claimed by another caller,
// and the claim hasn't lapsed yet.
var ErrSigningClaimed = errors.New("credential procedure is already being signed")

// Status is the status of a credential procedure.
type Status string

const (
	// StatusDraft is the status of a procedure that was created, but whose credential hasn't been requested yet.
	StatusDraft Status = "DRAFT"
	// StatusPendingSignature is the status of a procedure whose credential awaits signing.
	StatusPendingSignature Status = "PENDING_SIGNATURE"
	// StatusValid is the status of a procedure whose credential was signed.
	StatusValid Status = "VALID"
	// StatusExpired is the status of a procedure whose credential passed its validUntil.
	StatusExpired Status = "EXPIRED"
	// StatusRevoked is the status of a procedure whose credential was revoked.
	StatusRevoked Status = "REVOKED"
)

// Final returns whether the credential of a procedure in this status has been signed.
// A procedure never moves from a final status back to a non-final status.
func (s Status) Final() bool {
	return s == StatusValid || s == StatusExpired || s == StatusRevoked
}

// OperationMode specifies whether the credential is signed while the wallet waits (SYNC) or deferred (ASYNC).
type OperationMode string

const (
	OperationModeSync  OperationMode = "SYNC"
	OperationModeAsync OperationMode = "ASYNC"
)

// SignatureMode specifies where credentials are signed.
type SignatureMode string

const (
	// SignatureModeLocal signs with a key held by the issuer.
	SignatureModeLocal SignatureMode = "local"
	// SignatureModeRemote signs with a remote signing service.
	SignatureModeRemote SignatureMode = "remote"
	// SignatureModeCloud signs with a cloud key management service.
	SignatureModeCloud SignatureMode = "cloud"
)

var _ schema.Tabler = (*CredentialProcedure)(nil)

// CredentialProcedure is the durable record of a single credential issuance attempt.
type CredentialProcedure struct {
	ID               string `gorm:"primaryKey" json:"procedure_id"`
	CredentialID     string `json:"credential_id"`
	CredentialFormat string `json:"credential_format"`
	CredentialType   string `json:"credential_type"`
	// CredentialDecoded holds the unsigned credential payload.
	CredentialDecoded string `json:"credential_decoded"`
	// CredentialEncoded holds the signed credential. It is set iff CredentialStatus is final.
	CredentialEncoded      *string       `json:"credential_encoded,omitempty"`
	CredentialStatus       Status        `json:"credential_status"`
	OrganizationIdentifier string        `json:"organization_identifier"`
	Subject                *string       `json:"subject,omitempty"`
	OperationMode          OperationMode `json:"operation_mode"`
	SignatureMode          SignatureMode `json:"signature_mode"`
	// ValidUntil is the expiry of the credential (seconds since Unix epoch). It's set when the credential is signed.
	ValidUntil *int64 `json:"valid_until,omitempty"`
	// SigningLease is the time (seconds since Unix epoch) until which the signing of the credential is claimed.
	SigningLease *int64 `json:"-"`
	// UpdatedAt is the time of the last change (seconds since Unix epoch).
	UpdatedAt int64 `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// TableName returns the table name for this DTO.
func (p CredentialProcedure) TableName() string {
	return "credential_procedure"
}

// ValidUntilTime returns ValidUntil as time.Time, or nil if not set.
func (p CredentialProcedure) ValidUntilTime() *time.Time {
	if p.ValidUntil == nil {
		return nil
	}
	result := time.Unix(*p.ValidUntil, 0)
	return &result
}

var _ schema.Tabler = (*DeferredCredentialMetadata)(nil)

// DeferredCredentialMetadata binds the codes and nonces of an issuance flow to a procedure.
// It's used to find the procedure when the wallet requests (or polls for) the credential.
type DeferredCredentialMetadata struct {
	ID          string `gorm:"primaryKey"`
	ProcedureID string
	// TransactionCode identifies the issuance towards back-office systems, it's used to renew the credential offer.
	TransactionCode string
	// AuthServerNonce is the jti of the access token issued for the procedure.
	AuthServerNonce *string
	// TransactionID is given to the wallet to poll the deferred credential endpoint with.
	TransactionID *string
	// VC holds the signed credential, set once when signing completes.
	VC       *string `gorm:"column:vc"`
	VCFormat *string `gorm:"column:vc_format"`
	// ResponseURI is an optional callback for the signed credential.
	ResponseURI *string `gorm:"column:response_uri"`
}

// TableName returns the table name for this DTO.
func (m DeferredCredentialMetadata) TableName() string {
	return "deferred_credential_metadata"
}
