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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
)

// minSigningLease is the minimum duration of a signing claim. Claims are stored with second precision.
const minSigningLease = time.Minute

// sign signs the pending credential of the procedure and marks the procedure VALID.
// The caller must hold the signing claim of the procedure; it's released when signing fails.
// If the procedure was completed concurrently, the credential that was stored first is returned.
func (s *Service) sign(ctx context.Context, record *procedure.CredentialProcedure) (string, error) {
	payload := []byte(record.CredentialDecoded)
	var claims struct {
		Expiry int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Expiry == 0 {
		return "", fmt.Errorf("pending credential of procedure %s has no expiry", record.ID)
	}
	headers := jws.NewHeaders()
	if err := headers.Set(jws.TypeKey, "JWT"); err != nil {
		return "", err
	}
	input, digest, err := crypto.SigningInput(headers, payload, signer.Algorithm, s.signer.KeyID())
	if err != nil {
		return "", err
	}
	signCtx := ctx
	if s.config.SignTimeout > 0 {
		var cancel context.CancelFunc
		signCtx, cancel = context.WithTimeout(ctx, s.config.SignTimeout)
		defer cancel()
	}
	signature, err := s.signer.Sign(signCtx, digest)
	if err != nil {
		s.releaseSigning(ctx, record.ID)
		return "", signatureProcessingError(err)
	}
	encoded, err := crypto.AssembleJWS(input, signature)
	if err != nil {
		s.releaseSigning(ctx, record.ID)
		return "", signatureProcessingError(err)
	}
	err = s.procedures.MarkValid(ctx, record.ID, encoded, record.CredentialFormat, time.Unix(claims.Expiry, 0))
	if errors.Is(err, procedure.ErrInvalidTransition) {
		current, getErr := s.procedures.Get(ctx, record.ID)
		if getErr == nil && current.CredentialStatus == procedure.StatusValid && current.CredentialEncoded != nil {
			return *current.CredentialEncoded, nil
		}
		return "", errCredentialAlreadyIssued.WithCause(err)
	} else if err != nil {
		return "", fmt.Errorf("unable to store signed credential: %w", err)
	}
	log.Logger().
		WithField(core.LogFieldProcedureID, record.ID).
		WithField(core.LogFieldCredentialID, record.CredentialID).
		WithField(core.LogFieldSignerType, record.SignatureMode).
		Debug("Credential signed")
	return encoded, nil
}

// signingLease returns the time until which a signing claim is held.
// It outlasts the signer timeout, so a claim only lapses when its owner is gone.
func (s *Service) signingLease() time.Time {
	return time.Now().Add(max(minSigningLease, 2*s.config.SignTimeout))
}

// releaseSigning releases the signing claim of the procedure, so the signing can be retried right away.
// If that fails, the claim lapses by itself.
func (s *Service) releaseSigning(ctx context.Context, procedureID string) {
	if err := s.procedures.ReleaseSigning(context.WithoutCancel(ctx), procedureID); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldProcedureID, procedureID).
			Warn("Unable to release signing claim")
	}
}

// translateTransitionError maps a failed status transition to the error returned to the wallet.
func (s *Service) translateTransitionError(ctx context.Context, procedureID string, err error) error {
	if !errors.Is(err, procedure.ErrInvalidTransition) {
		return err
	}
	current, getErr := s.procedures.Get(ctx, procedureID)
	if getErr == nil && current.CredentialStatus.Final() {
		return errCredentialAlreadyIssued.WithCause(err)
	}
	return err
}

// SignDeferred signs the credential of a procedure that awaits its signature, e.g. one created in ASYNC mode.
// The wallet retrieves it through the deferred credential endpoint; the procedure's response URI (if any) is notified.
func (s *Service) SignDeferred(ctx context.Context, processID string, procedureID string) (*procedure.CredentialProcedure, error) {
	record, err := s.GetProcedure(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if record.CredentialStatus != procedure.StatusPendingSignature {
		return nil, fmt.Errorf("%w (status=%s)", ErrNotPending, record.CredentialStatus)
	}
	if err = s.procedures.ClaimSigning(ctx, record.ID, "", s.signingLease()); err != nil {
		return nil, s.translateTransitionError(ctx, record.ID, err)
	}
	if _, err = s.sign(ctx, record); err != nil {
		return nil, err
	}
	s.count("deferred")
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, procedureID).
		Info("Deferred credential signed")
	s.notifySigned(ctx, *record)
	return s.procedures.Get(ctx, procedureID)
}

// CompleteWithSignedCredential stores a credential that was signed outside the issuer (by a remote signing service),
// making it available to the wallet. The credential must be a JWT whose jti is the procedure's credential ID.
func (s *Service) CompleteWithSignedCredential(ctx context.Context, processID string, procedureID string, signedCredential string) (*procedure.CredentialProcedure, error) {
	record, err := s.GetProcedure(ctx, procedureID)
	if err != nil {
		return nil, err
	}
	if _, err = jws.ParseString(signedCredential); err != nil {
		return nil, signedDataParsingError(err)
	}
	parsed, err := jwt.ParseInsecure([]byte(signedCredential))
	if err != nil {
		return nil, signedDataParsingError(err)
	}
	if parsed.JwtID() != record.CredentialID {
		return nil, openid4vci.Error{
			Code:        openid4vci.VCDoesNotExist,
			Description: "signed credential does not belong to the procedure",
			StatusCode:  http.StatusNotFound,
		}
	}
	if record.CredentialStatus.Final() {
		return nil, errCredentialAlreadyIssued
	}
	validUntil := parsed.Expiration()
	if validUntil.IsZero() {
		return nil, signedDataParsingError(errors.New("signed credential has no exp claim"))
	}
	err = s.procedures.MarkValid(ctx, record.ID, signedCredential, record.CredentialFormat, validUntil)
	if err != nil {
		return nil, s.translateTransitionError(ctx, record.ID, err)
	}
	s.count("remote")
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, procedureID).
		Info("Remotely signed credential stored")
	s.notifySigned(ctx, *record)
	return s.procedures.Get(ctx, procedureID)
}

// Revoke revokes the credential of a procedure. Only VALID credentials can be revoked.
func (s *Service) Revoke(ctx context.Context, processID string, procedureID string) error {
	err := s.procedures.MarkRevoked(ctx, procedureID)
	if errors.Is(err, procedure.ErrNotFound) {
		return errCredentialNotFound
	} else if err != nil {
		return err
	}
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, procedureID).
		Info("Credential revoked")
	return nil
}

// Notify (re)sends the notification that the procedure's credential was signed.
func (s *Service) Notify(ctx context.Context, procedureID string) error {
	record, err := s.GetProcedure(ctx, procedureID)
	if err != nil {
		return err
	}
	if record.CredentialStatus != procedure.StatusValid {
		return errCredentialNotFound.WithCause(fmt.Errorf("procedure status is %s", record.CredentialStatus))
	}
	return s.notifier.Notify(ctx, s.signedEvent(ctx, *record))
}

// notifySigned notifies that the credential was signed. Failures are logged, since the credential is available anyway.
func (s *Service) notifySigned(ctx context.Context, record procedure.CredentialProcedure) {
	if err := s.notifier.Notify(ctx, s.signedEvent(ctx, record)); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldProcedureID, record.ID).
			Warn("Unable to send credential signed notification")
	}
}

func (s *Service) signedEvent(ctx context.Context, record procedure.CredentialProcedure) notification.Event {
	event := notification.Event{
		Type:           notification.EventCredentialSigned,
		ProcedureID:    record.ID,
		CredentialType: record.CredentialType,
		Timestamp:      time.Now(),
	}
	if metadata, err := s.metadata.GetByProcedureID(ctx, record.ID); err == nil && metadata.ResponseURI != nil {
		event.ResponseURI = *metadata.ResponseURI
	}
	return event
}

func signatureProcessingError(err error) error {
	return openid4vci.Error{
		Code:        openid4vci.SignatureProcessing,
		Description: "unable to sign the credential",
		Err:         err,
		StatusCode:  http.StatusBadGateway,
	}
}

func signedDataParsingError(err error) error {
	return openid4vci.Error{
		Code:        openid4vci.SignedDataParsingError,
		Description: "unable to parse the signed credential",
		Err:         err,
		StatusCode:  http.StatusBadRequest,
	}
}
