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
	"errors"
	"net/http"
	"time"

	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/credtemplate"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/offer"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/preauth"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// CredentialPath is the path (relative to the issuer identifier) of the credential endpoint.
	CredentialPath = "/credential"
	// DeferredCredentialPath is the path (relative to the issuer identifier) of the deferred credential endpoint.
	DeferredCredentialPath = "/deferred-credential"
)

// Config contains the settings of the issuance workflow.
type Config struct {
	// Issuer is the Credential Issuer Identifier.
	Issuer string
	// CredentialValidity is how long issued credentials are valid.
	CredentialValidity time.Duration
	// RenewalTTL is how long an offer can be renewed after it was created.
	RenewalTTL time.Duration
	// SignTimeout bounds a single call to the signer.
	SignTimeout time.Duration
}

// AccessTokens validates access tokens, and issues and checks the c_nonces bound to them.
type AccessTokens interface {
	Validate(accessToken string) (*token.Claims, error)
	NewCNonce(tokenID string) (string, error)
	ConsumeCNonce(nonce string, tokenID string) error
	CNonceTTL() int
}

var _ AccessTokens = (*token.Handler)(nil)

// ErrNotPending is returned when a procedure's credential can't be signed, because it isn't awaiting a signature.
var ErrNotPending = errors.New("credential procedure is not pending signature")

var errCredentialNotFound = openid4vci.Error{
	Code:        openid4vci.CredentialNotFound,
	Description: "credential procedure not found",
	StatusCode:  http.StatusNotFound,
}

var errCredentialAlreadyIssued = openid4vci.Error{
	Code:        openid4vci.CredentialAlreadyIssued,
	Description: "the credential was already issued and is no longer valid",
	StatusCode:  http.StatusBadRequest,
}

// Service orchestrates credential issuance: creating procedures and offers, handling credential requests (synchronously or deferred),
// and completing, revoking and notifying about procedures.
type Service struct {
	config     Config
	procedures procedure.Store
	metadata   procedure.MetadataStore
	templates  *credtemplate.Registry
	signer     signer.Signer
	codes      *preauth.Service
	offers     *offer.Builder
	tokens     AccessTokens
	notifier   notification.Sender
	renewals   storage.SessionStore
	issued     *prometheus.CounterVec
}

// New creates a new Service.
func New(config Config, procedures procedure.Store, metadata procedure.MetadataStore, templates *credtemplate.Registry,
	credentialSigner signer.Signer, codes *preauth.Service, offers *offer.Builder, tokens AccessTokens,
	notifier notification.Sender, sessions storage.SessionDatabase) *Service {
	return &Service{
		config:     config,
		procedures: procedures,
		metadata:   metadata,
		templates:  templates,
		signer:     credentialSigner,
		codes:      codes,
		offers:     offers,
		tokens:     tokens,
		notifier:   notifier,
		renewals:   sessions.GetStore(config.RenewalTTL, "vci", "transaction_code"),
	}
}

// WithMetrics makes the service count issued credentials by mode (sync, deferred or remote).
func (s *Service) WithMetrics(issued *prometheus.CounterVec) *Service {
	s.issued = issued
	return s
}

// GetProcedure returns the procedure with the given ID.
func (s *Service) GetProcedure(ctx context.Context, procedureID string) (*procedure.CredentialProcedure, error) {
	result, err := s.procedures.Get(ctx, procedureID)
	if errors.Is(err, procedure.ErrNotFound) {
		return nil, errCredentialNotFound
	}
	return result, err
}

// ListProcedures returns the procedures in the given status, or all procedures if status is empty.
func (s *Service) ListProcedures(ctx context.Context, status procedure.Status) ([]procedure.CredentialProcedure, error) {
	return s.procedures.List(ctx, status)
}

func (s *Service) count(mode string) {
	if s.issued != nil {
		s.issued.WithLabelValues(mode).Inc()
	}
}
