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

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/credtemplate"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/offer"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

// Request is a back-office request to issue a credential.
type Request struct {
	CredentialType         string                  `json:"credential_type"`
	OperationMode          procedure.OperationMode `json:"operation_mode,omitempty"`
	OrganizationIdentifier string                  `json:"organization_identifier"`
	Subject                *string                 `json:"subject,omitempty"`
	// Email is where the credential offer and PIN are sent.
	Email       string                 `json:"email"`
	Claims      map[string]interface{} `json:"claims"`
	ResponseURI *string                `json:"response_uri,omitempty"`
}

// Result is returned when an issuance is created, or its offer renewed.
type Result struct {
	ProcedureID        string `json:"procedure_id"`
	CredentialOfferURI string `json:"credential_offer_uri"`
	// TransactionCode identifies the issuance in the deferred credential metadata.
	TransactionCode string `json:"transaction_code"`
	// RenewalCode renews the credential offer when the wallet didn't retrieve it in time.
	RenewalCode string `json:"renewal_code"`
}

// renewal is what a renewal code is bound to.
type renewal struct {
	TransactionCode string `json:"transaction_code"`
	Email           string `json:"email"`
}

// Create renders the credential, stores a DRAFT procedure with its deferred credential metadata,
// and sends the credential offer and PIN to the recipient.
func (s *Service) Create(ctx context.Context, processID string, request Request) (*Result, error) {
	if request.Email == "" {
		return nil, invalidRequest("email is required")
	}
	if request.OrganizationIdentifier == "" {
		return nil, invalidRequest("organization_identifier is required")
	}
	switch request.OperationMode {
	case "":
		request.OperationMode = procedure.OperationModeSync
	case procedure.OperationModeSync, procedure.OperationModeAsync:
	default:
		return nil, invalidRequest(fmt.Sprintf("invalid operation_mode: %s", request.OperationMode))
	}
	template, err := s.templates.Get(request.CredentialType)
	if err != nil {
		return nil, err
	}
	credentialID := "urn:uuid:" + uuid.NewString()
	validFrom := time.Now().Truncate(time.Second)
	document, err := template.Render(credtemplate.Parameters{
		ID:         credentialID,
		Issuer:     s.config.Issuer,
		ValidFrom:  validFrom,
		ValidUntil: validFrom.Add(s.config.CredentialValidity),
		Claims:     request.Claims,
	})
	if err != nil {
		return nil, err
	}
	decoded, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal credential: %w", err)
	}

	record := procedure.CredentialProcedure{
		CredentialID:           credentialID,
		CredentialFormat:       openid4vci.JWTVCJSONFormat,
		CredentialType:         request.CredentialType,
		CredentialDecoded:      string(decoded),
		OrganizationIdentifier: request.OrganizationIdentifier,
		Subject:                request.Subject,
		OperationMode:          request.OperationMode,
		SignatureMode:          s.signer.Mode(),
	}
	if err = s.procedures.Create(ctx, &record); err != nil {
		return nil, fmt.Errorf("unable to create credential procedure: %w", err)
	}
	metadata := procedure.DeferredCredentialMetadata{
		ProcedureID:     record.ID,
		TransactionCode: crypto.GenerateNonce(),
		ResponseURI:     request.ResponseURI,
	}
	if err = s.metadata.Create(ctx, &metadata); err != nil {
		s.discardProcedure(ctx, record.ID)
		return nil, fmt.Errorf("unable to create deferred credential metadata: %w", err)
	}
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, record.ID).
		WithField(core.LogFieldCredentialType, record.CredentialType).
		WithField(core.LogFieldOrganization, record.OrganizationIdentifier).
		Info("Credential procedure created")
	result, err := s.sendOffer(ctx, processID, record, metadata.TransactionCode, request.Email)
	if err != nil {
		s.discardProcedure(ctx, record.ID)
		return nil, err
	}
	return result, nil
}

// discardProcedure removes a procedure whose offer never reached the recipient.
func (s *Service) discardProcedure(ctx context.Context, procedureID string) {
	if err := s.procedures.DeleteDraft(context.WithoutCancel(ctx), procedureID); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldProcedureID, procedureID).
			Warn("Unable to remove credential procedure after failed issuance")
	}
}

// RenewOffer creates a new credential offer for an issuance whose offer wasn't retrieved (or redeemed) in time.
// The renewal code is single-use; the result contains a new one.
func (s *Service) RenewOffer(ctx context.Context, processID string, renewalCode string) (*Result, error) {
	var binding renewal
	if err := s.renewals.GetAndDelete(renewalCode, &binding); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, offer.ErrNotFound
		}
		return nil, err
	}
	metadata, err := s.metadata.GetByTransactionCode(ctx, binding.TransactionCode)
	if errors.Is(err, procedure.ErrNotFound) {
		return nil, offer.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	record, err := s.procedures.Get(ctx, metadata.ProcedureID)
	if err != nil {
		return nil, err
	}
	if record.CredentialStatus != procedure.StatusDraft {
		return nil, errCredentialAlreadyIssued.WithCause(fmt.Errorf("procedure status is %s", record.CredentialStatus))
	}
	transactionCode := crypto.GenerateNonce()
	if err = s.metadata.RotateTransactionCode(ctx, binding.TransactionCode, transactionCode); err != nil {
		return nil, fmt.Errorf("unable to rotate transaction code: %w", err)
	}
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldProcedureID, record.ID).
		Info("Credential offer renewed")
	return s.sendOffer(ctx, processID, *record, transactionCode, binding.Email)
}

func (s *Service) sendOffer(ctx context.Context, processID string, record procedure.CredentialProcedure, transactionCode string, email string) (*Result, error) {
	grant, err := s.codes.Generate(ctx, processID, func(_ context.Context) (string, error) {
		return record.CredentialID, nil
	})
	if err != nil {
		return nil, err
	}
	data := s.offers.Build(record.CredentialType, *grant, email, grant.PIN)
	nonce, err := s.offers.Save(data)
	if err != nil {
		s.discardOffer(record.ID, grant.PreAuthorizedCode, "", "")
		return nil, err
	}
	offerURI := s.offers.URI(nonce)
	renewalCode := crypto.GenerateNonce()
	if err = s.renewals.Put(renewalCode, renewal{TransactionCode: transactionCode, Email: email}); err != nil {
		s.discardOffer(record.ID, grant.PreAuthorizedCode, nonce, "")
		return nil, fmt.Errorf("unable to store renewal code: %w", err)
	}
	err = s.notifier.Notify(ctx, notification.Event{
		Type:               notification.EventPIN,
		ProcedureID:        record.ID,
		CredentialType:     record.CredentialType,
		RecipientEmail:     email,
		PIN:                grant.PIN,
		CredentialOfferURI: offerURI,
		RenewalCode:        renewalCode,
		Timestamp:          time.Now(),
	})
	if err != nil {
		s.discardOffer(record.ID, grant.PreAuthorizedCode, nonce, renewalCode)
		return nil, fmt.Errorf("unable to send credential offer: %w", err)
	}
	return &Result{
		ProcedureID:        record.ID,
		CredentialOfferURI: offerURI,
		TransactionCode:    transactionCode,
		RenewalCode:        renewalCode,
	}, nil
}

// discardOffer invalidates the pre-authorized code, offer and renewal code of an offer that wasn't sent.
// Empty values are skipped.
func (s *Service) discardOffer(procedureID string, preAuthorizedCode string, offerNonce string, renewalCode string) {
	var errs []error
	errs = append(errs, s.codes.Revoke(preAuthorizedCode))
	if offerNonce != "" {
		errs = append(errs, s.offers.Delete(offerNonce))
	}
	if renewalCode != "" {
		errs = append(errs, s.renewals.Delete(renewalCode))
	}
	if err := errors.Join(errs...); err != nil {
		log.Logger().
			WithError(err).
			WithField(core.LogFieldProcedureID, procedureID).
			Warn("Unable to discard unsent credential offer")
	}
}

func invalidRequest(description string) error {
	return openid4vci.Error{
		Code:        openid4vci.InvalidRequest,
		Description: description,
		StatusCode:  http.StatusBadRequest,
	}
}
