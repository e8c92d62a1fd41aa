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

package issuance

import (
	"context"
	gocrypto "crypto"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
)

// proofClockSkew is the leeway applied when validating proof JWTs.
const proofClockSkew = 5 * time.Second

// GenerateCredentialResponse handles a credential request of a wallet. The credential is signed while the wallet waits
// if the procedure's operation mode is SYNC and the signer supports it; otherwise a transaction ID is returned,
// which the wallet uses to poll the deferred credential endpoint.
// A credential that is already signed is returned again without signing it anew.
func (s *Service) GenerateCredentialResponse(ctx context.Context, processID string, request openid4vci.CredentialRequest, accessToken string) (*openid4vci.CredentialResponse, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, err
	}
	record, metadata, err := s.resolve(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err = checkRequestedCredential(*record, request); err != nil {
		return nil, err
	}
	holderKey, err := s.validateProof(ctx, claims.TokenID, request)
	if err != nil {
		return nil, err
	}
	logger := log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, record.ID).
		WithField(core.LogFieldCredentialStatus, record.CredentialStatus)

	switch record.CredentialStatus {
	case procedure.StatusValid:
		logger.Info("Credential requested again, returning the signed credential")
		return s.credentialResponse(*record, claims.TokenID)
	case procedure.StatusExpired, procedure.StatusRevoked:
		return nil, errCredentialAlreadyIssued
	case procedure.StatusPendingSignature:
		if metadata.TransactionID != nil {
			return s.pendingResponse(*metadata.TransactionID, claims.TokenID)
		}
	}

	payload, err := s.buildPayload(*record, holderKey)
	if err != nil {
		return nil, err
	}
	err = s.procedures.ClaimSigning(ctx, record.ID, string(payload), s.signingLease())
	if errors.Is(err, procedure.ErrSigningClaimed) {
		logger.Debug("Credential requested while it's being signed")
		return s.inProgressResponse(ctx, record.ID, claims.TokenID)
	} else if err != nil {
		return nil, s.translateTransitionError(ctx, record.ID, err)
	}
	record.CredentialStatus = procedure.StatusPendingSignature
	record.CredentialDecoded = string(payload)

	if record.OperationMode == procedure.OperationModeSync && s.signer.Synchronous() {
		if _, err = s.sign(ctx, record); err != nil {
			return nil, err
		}
		s.count("sync")
		logger.Info("Credential issued")
		updated, err := s.procedures.Get(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		return s.credentialResponse(*updated, claims.TokenID)
	}

	transactionID := uuid.NewString()
	if err = s.metadata.AssignTransactionID(ctx, record.ID, transactionID); err != nil {
		s.releaseSigning(ctx, record.ID)
		return nil, fmt.Errorf("unable to assign transaction ID: %w", err)
	}
	s.releaseSigning(ctx, record.ID)
	logger.WithField(core.LogFieldTransactionID, transactionID).Info("Credential issuance deferred")
	return s.pendingResponse(transactionID, claims.TokenID)
}

// inProgressResponse answers a credential request for a procedure whose signing is claimed by another request.
// It returns the credential if signing completed in the meantime, the pending response if the issuance was deferred,
// or an issuance_pending error otherwise.
func (s *Service) inProgressResponse(ctx context.Context, procedureID string, tokenID string) (*openid4vci.CredentialResponse, error) {
	current, err := s.procedures.Get(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if current.CredentialStatus == procedure.StatusValid {
		return s.credentialResponse(*current, tokenID)
	}
	if current.CredentialStatus.Final() {
		return nil, errCredentialAlreadyIssued
	}
	metadata, err := s.metadata.GetByProcedureID(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if metadata.TransactionID != nil {
		return s.pendingResponse(*metadata.TransactionID, tokenID)
	}
	return nil, openid4vci.Error{
		Code:        openid4vci.IssuancePending,
		Description: "the credential is being signed, try again later",
		StatusCode:  http.StatusBadRequest,
	}
}

// GenerateDeferredResponse handles a deferred credential request. While the credential isn't signed yet,
// a response is returned for which Pending() is true. Once signed, every request returns the same credential.
func (s *Service) GenerateDeferredResponse(ctx context.Context, processID string, request openid4vci.DeferredCredentialRequest, accessToken string) (*openid4vci.CredentialResponse, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, err
	}
	invalidTransactionID := openid4vci.Error{
		Code:        openid4vci.InvalidTransactionID,
		Description: "unknown transaction_id",
		StatusCode:  http.StatusBadRequest,
	}
	if request.TransactionID == "" {
		return nil, invalidTransactionID
	}
	metadata, err := s.metadata.GetByTransactionID(ctx, request.TransactionID)
	if errors.Is(err, procedure.ErrNotFound) {
		return nil, invalidTransactionID
	} else if err != nil {
		return nil, err
	}
	if metadata.ProcedureID != claims.ProcedureID {
		return nil, invalidTransactionID.WithCause(errors.New("transaction_id belongs to another procedure"))
	}
	if metadata.VC == nil {
		log.Logger().
			WithField(core.LogFieldProcessID, processID).
			WithField(core.LogFieldProcedureID, metadata.ProcedureID).
			Debug("Deferred credential polled, still pending")
		return &openid4vci.CredentialResponse{TransactionID: request.TransactionID}, nil
	}
	format := openid4vci.JWTVCJSONFormat
	if metadata.VCFormat != nil {
		format = *metadata.VCFormat
	}
	return &openid4vci.CredentialResponse{
		Format:     format,
		Credential: *metadata.VC,
	}, nil
}

// resolve returns the procedure and metadata the access token was issued for.
// Tokens that were superseded by a later token for the same procedure are rejected.
func (s *Service) resolve(ctx context.Context, claims *token.Claims) (*procedure.CredentialProcedure, *procedure.DeferredCredentialMetadata, error) {
	record, err := s.procedures.Get(ctx, claims.ProcedureID)
	if errors.Is(err, procedure.ErrNotFound) {
		return nil, nil, errCredentialNotFound
	} else if err != nil {
		return nil, nil, err
	}
	metadata, err := s.metadata.GetByProcedureID(ctx, record.ID)
	if errors.Is(err, procedure.ErrNotFound) {
		return nil, nil, errCredentialNotFound
	} else if err != nil {
		return nil, nil, err
	}
	if metadata.AuthServerNonce == nil || *metadata.AuthServerNonce != claims.TokenID {
		return nil, nil, openid4vci.Error{
			Code:        openid4vci.InvalidToken,
			Description: "the access token is no longer valid for this credential",
			StatusCode:  http.StatusUnauthorized,
		}
	}
	return record, metadata, nil
}

func checkRequestedCredential(record procedure.CredentialProcedure, request openid4vci.CredentialRequest) error {
	if request.Format != "" && request.Format != record.CredentialFormat {
		return openid4vci.Error{
			Code:        openid4vci.UnsupportedCredentialFormat,
			Description: fmt.Sprintf("credential format not supported: %s", request.Format),
			StatusCode:  http.StatusBadRequest,
		}
	}
	if request.CredentialDefinition != nil && !slices.Contains(request.CredentialDefinition.Type, record.CredentialType) {
		return openid4vci.Error{
			Code:        openid4vci.UnsupportedCredentialType,
			Description: "requested credential type does not match the offered credential",
			StatusCode:  http.StatusBadRequest,
		}
	}
	return nil
}

// validateProof validates the proof of possession of the credential request, returning the public key the credential is bound to.
// The proof must be a JWT of type openid4vci-proof+jwt, for the issuer as audience, carrying the key as jwk header,
// and containing a c_nonce issued for the access token. The nonce can be used only once.
func (s *Service) validateProof(_ context.Context, tokenID string, request openid4vci.CredentialRequest) (jwk.Key, error) {
	// invalid proofs get a fresh c_nonce, so the wallet can retry
	proofError := func(err error) error {
		result := openid4vci.Error{
			Code:        openid4vci.InvalidOrMissingProof,
			Description: err.Error(),
			Err:         err,
			StatusCode:  http.StatusBadRequest,
		}
		cNonce, nonceErr := s.tokens.NewCNonce(tokenID)
		if nonceErr != nil {
			return nonceErr
		}
		expiresIn := s.tokens.CNonceTTL()
		result.CNonce = &cNonce
		result.CNonceExpiresIn = &expiresIn
		return result
	}

	if request.Proof == nil {
		return nil, proofError(errors.New("missing proof"))
	}
	if request.Proof.ProofType != openid4vci.ProofTypeJWT {
		return nil, proofError(fmt.Errorf("proof type not supported: %s", request.Proof.ProofType))
	}
	message, err := jws.ParseString(request.Proof.JWT)
	if err != nil {
		return nil, proofError(fmt.Errorf("invalid proof JWT: %w", err))
	}
	if len(message.Signatures()) != 1 {
		return nil, proofError(errors.New("proof must have exactly one signature"))
	}
	headers := message.Signatures()[0].ProtectedHeaders()
	if headers.Type() != openid4vci.JWTTypeOpenID4VCIProof {
		return nil, proofError(fmt.Errorf("invalid typ header (expected: %s): %s", openid4vci.JWTTypeOpenID4VCIProof, headers.Type()))
	}
	if headers.Algorithm() != signer.Algorithm {
		return nil, proofError(fmt.Errorf("proof signing algorithm not supported: %s", headers.Algorithm()))
	}
	if headers.JWK() == nil {
		return nil, proofError(errors.New("proof must contain a jwk header"))
	}
	holderKey, err := headers.JWK().PublicKey()
	if err != nil {
		return nil, proofError(fmt.Errorf("invalid jwk header: %w", err))
	}
	proof, err := jwt.ParseString(request.Proof.JWT,
		jwt.WithKey(signer.Algorithm, holderKey),
		jwt.WithValidate(true),
		jwt.WithAudience(s.config.Issuer),
		jwt.WithRequiredClaim(jwt.IssuedAtKey),
		jwt.WithAcceptableSkew(proofClockSkew))
	if err != nil {
		return nil, proofError(err)
	}
	nonce, _ := proof.Get("nonce")
	nonceString, _ := nonce.(string)
	if nonceString == "" {
		return nil, proofError(errors.New("missing nonce claim"))
	}
	if err = s.tokens.ConsumeCNonce(nonceString, tokenID); err != nil {
		if errors.Is(err, token.ErrNonceMismatch) {
			return nil, proofError(err)
		}
		return nil, err
	}
	return holderKey, nil
}

// buildPayload creates the JWT claims of the credential, binding it to the holder key.
func (s *Service) buildPayload(record procedure.CredentialProcedure, holderKey jwk.Key) ([]byte, error) {
	document, err := credentialDocument(record)
	if err != nil {
		return nil, err
	}
	thumbprint, err := holderKey.Thumbprint(gocrypto.SHA256)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	validFrom := parseTime(document["validFrom"], now)
	validUntil := parseTime(document["validUntil"], now.Add(s.config.CredentialValidity))
	return json.Marshal(map[string]interface{}{
		jwt.IssuerKey:     s.config.Issuer,
		jwt.SubjectKey:    base64.RawURLEncoding.EncodeToString(thumbprint),
		jwt.JwtIDKey:      record.CredentialID,
		jwt.IssuedAtKey:   now.Unix(),
		jwt.NotBeforeKey:  validFrom.Unix(),
		jwt.ExpirationKey: validUntil.Unix(),
		"vc":              document,
		"cnf":             map[string]interface{}{"jwk": holderKey},
	})
}

// credentialDocument returns the unsigned credential document of the procedure.
// Once a credential has been requested, the decoded credential holds the JWT claims, with the document in the vc claim.
func credentialDocument(record procedure.CredentialProcedure) (map[string]interface{}, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(record.CredentialDecoded), &decoded); err != nil {
		return nil, fmt.Errorf("invalid decoded credential of procedure %s: %w", record.ID, err)
	}
	if record.CredentialStatus == procedure.StatusDraft {
		return decoded, nil
	}
	document, ok := decoded["vc"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("decoded credential of procedure %s lacks vc claim", record.ID)
	}
	return document, nil
}

func parseTime(value interface{}, fallback time.Time) time.Time {
	str, _ := value.(string)
	if result, err := time.Parse(time.RFC3339, str); err == nil {
		return result
	}
	return fallback
}

func (s *Service) credentialResponse(record procedure.CredentialProcedure, tokenID string) (*openid4vci.CredentialResponse, error) {
	if record.CredentialEncoded == nil {
		return nil, fmt.Errorf("procedure %s is %s but has no signed credential", record.ID, record.CredentialStatus)
	}
	cNonce, err := s.tokens.NewCNonce(tokenID)
	if err != nil {
		return nil, err
	}
	return &openid4vci.CredentialResponse{
		Format:          record.CredentialFormat,
		Credential:      *record.CredentialEncoded,
		CNonce:          cNonce,
		CNonceExpiresIn: s.tokens.CNonceTTL(),
	}, nil
}

func (s *Service) pendingResponse(transactionID string, tokenID string) (*openid4vci.CredentialResponse, error) {
	cNonce, err := s.tokens.NewCNonce(tokenID)
	if err != nil {
		return nil, err
	}
	return &openid4vci.CredentialResponse{
		TransactionID:   transactionID,
		CNonce:          cNonce,
		CNonceExpiresIn: s.tokens.CNonceTTL(),
	}, nil
}
