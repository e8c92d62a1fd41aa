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

package openid4vci

import (
	"errors"
	"net/http"
)

// ErrorCode specifies the machine-readable code of an error returned to wallets and back-office callers.
type ErrorCode string

const (
	// InvalidRequest is returned when the request is malformed, e.g. a required parameter is missing.
	InvalidRequest ErrorCode = "invalid_request"
	// InvalidToken is returned when the access token is missing, invalid or expired.
	InvalidToken ErrorCode = "invalid_token"
	// UnsupportedGrantType is returned when the token endpoint is called with a grant type other than the pre-authorized code grant.
	UnsupportedGrantType ErrorCode = "unsupported_grant_type"
	// ServerError is returned when the issuer encounters an unexpected condition that prevents it from fulfilling the request.
	ServerError ErrorCode = "server_error"
	// UnsupportedCredentialType is returned when the issuer does not support the requested credential type.
	UnsupportedCredentialType ErrorCode = "unsupported_credential_type"
	// UnsupportedCredentialFormat is returned when the issuer does not support the requested credential format.
	UnsupportedCredentialFormat ErrorCode = "unsupported_credential_format"
	// InvalidOrMissingProof is returned when the credential request did not contain a proof,
	// or the proof was invalid (e.g. not bound to an issuer provided nonce).
	InvalidOrMissingProof ErrorCode = "invalid_or_missing_proof"
	// ExpiredPreAuthorizedCode is returned for unknown, expired and already redeemed pre-authorized codes, and wrong transaction codes.
	// These cases are intentionally indistinguishable.
	ExpiredPreAuthorizedCode ErrorCode = "pre-authorized_code is expired or used"
	// VCTemplateDoesNotExist is returned when no credential template exists for the credential type.
	VCTemplateDoesNotExist ErrorCode = "vc_template_does_not_exist"
	// VCDoesNotExist is returned when a credential referred to doesn't exist.
	VCDoesNotExist ErrorCode = "vc_does_not_exist"
	// UserDoesNotExist is returned when a redeemed pre-authorized code doesn't resolve to a credential procedure.
	UserDoesNotExist ErrorCode = "user_does_not_exist"
	// CredentialNotFound is returned when a credential procedure can't be found.
	CredentialNotFound ErrorCode = "credential_not_found"
	// CredentialOfferNotFound is returned when a credential offer doesn't exist or was already retrieved.
	CredentialOfferNotFound ErrorCode = "credential_offer_not_found"
	// SignedDataParsingError is returned when a signed credential delivered by a remote signer can't be parsed.
	SignedDataParsingError ErrorCode = "signed_data_parsing_error"
	// CredentialAlreadyIssued is returned when a credential is requested for a procedure that is expired or revoked.
	CredentialAlreadyIssued ErrorCode = "credential_already_issued"
	// IssuancePending is returned when a credential is requested while another request is signing it.
	IssuancePending ErrorCode = "issuance_pending"
	// InvalidTransactionID is returned when the deferred credential endpoint is called with an unknown transaction ID.
	InvalidTransactionID ErrorCode = "invalid_transaction_id"
	// SignatureProcessing is returned when the signer failed to sign the credential.
	SignatureProcessing ErrorCode = "signature_processing_error"
)

// ErrExpiredPreAuthorizedCode is the single error returned by the token endpoint for every failed redemption.
var ErrExpiredPreAuthorizedCode = Error{
	Code:        ExpiredPreAuthorizedCode,
	Description: "the pre-authorized code is invalid, expired or already used",
	StatusCode:  http.StatusBadRequest,
}

// Error is an error that signals the error was (probably) caused by the client (e.g. bad request),
// or that the client can recover from the error (e.g. retry).
type Error struct {
	// Code is the machine-readable error code.
	Code ErrorCode `json:"error"`
	// Description is a human-readable description of the error, returned to the client.
	Description string `json:"description,omitempty"`
	// Err is the underlying error, may be omitted. It is not intended to be returned to the client.
	Err error `json:"-"`
	// StatusCode is the HTTP status code that should be returned to the client.
	StatusCode int `json:"-"`
	// CNonce is a fresh nonce the wallet must use in its next proof, set on proof errors.
	CNonce *string `json:"c_nonce,omitempty"`
	// CNonceExpiresIn is the number of seconds CNonce is valid.
	CNonceExpiresIn *int `json:"c_nonce_expires_in,omitempty"`
}

// Error returns the error message, which is either the underlying error or the code if there is no underlying error
func (e Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return string(e.Code) + " - " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// Is returns true if the target is an Error with the same code.
func (e Error) Is(target error) bool {
	var other Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// ErrorCode returns the machine-readable code of the error.
func (e Error) ErrorCode() string {
	return string(e.Code)
}

// WithCause returns a copy of the error with the given underlying error.
func (e Error) WithCause(err error) Error {
	e.Err = err
	return e
}
