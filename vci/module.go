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

package vci

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	v0 "github.com/nuts-foundation/nuts-issuer/vci/api/v0"
	"github.com/nuts-foundation/nuts-issuer/vci/credtemplate"
	"github.com/nuts-foundation/nuts-issuer/vci/expiration"
	"github.com/nuts-foundation/nuts-issuer/vci/issuance"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/offer"
	"github.com/nuts-foundation/nuts-issuer/vci/preauth"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
	"github.com/prometheus/client_golang/prometheus"
)

// ModuleName is the name of the VCI module.
const ModuleName = "VCI"

var _ core.Injectable = (*Module)(nil)
var _ core.Configurable = (*Module)(nil)
var _ core.Runnable = (*Module)(nil)
var _ core.Routable = (*Module)(nil)

// New creates a new VCI module. Storage must be configured before this module.
func New(storageInstance storage.Engine) *Module {
	return &Module{
		config:          DefaultConfig(),
		storageInstance: storageInstance,
	}
}

// Module is the credential issuer engine. It wires the issuance components to storage, the configured signer
// and notification sender, and exposes the protocol and internal HTTP endpoints.
type Module struct {
	config          Config
	storageInstance storage.Engine
	service         *issuance.Service
	tokens          *token.Handler
	offers          *offer.Builder
	notifier        notification.Sender
	scheduler       *expiration.Scheduler
}

func (m *Module) Name() string {
	return ModuleName
}

func (m *Module) Config() interface{} {
	return &m.config
}

// Configure validates the configuration and builds the issuance components.
func (m *Module) Configure(serverConfig core.ServerConfig) error {
	if m.config.Issuer == "" {
		return errors.New("vci.issuer must be configured")
	}
	issuerURL, err := core.ParsePublicURL(m.config.Issuer, serverConfig.Strictmode)
	if err != nil {
		return fmt.Errorf("invalid vci.issuer: %w", err)
	}
	issuer := issuerURL.String()
	if m.config.TxCodeLength < 1 {
		return fmt.Errorf("vci.txcodelength must be positive (value=%d)", m.config.TxCodeLength)
	}
	if err = m.config.validateDurations(); err != nil {
		return err
	}

	tokenKey, err := m.loadAccessTokenKey(serverConfig.Strictmode)
	if err != nil {
		return err
	}
	credentialSigner, err := signer.New(m.config.Signer, serverConfig.Strictmode)
	if err != nil {
		return fmt.Errorf("unable to create credential signer: %w", err)
	}
	m.notifier, err = notification.New(m.config.Notification, serverConfig.Strictmode)
	if err != nil {
		return fmt.Errorf("unable to create notification sender: %w", err)
	}
	templates, err := credtemplate.LoadRegistry(m.config.TemplatesDir)
	if err != nil {
		return fmt.Errorf("unable to load credential templates: %w", err)
	}

	issued, redeemed, expired, err := registerMetrics()
	if err != nil {
		return err
	}

	db := m.storageInstance.GetSQLDatabase()
	sessions := m.storageInstance.GetSessionDatabase()
	procedures := procedure.NewSQLStore(db)
	metadata := procedure.NewSQLMetadataStore(db)
	codes := preauth.NewService(sessions, m.config.PreAuthorizedCodeTTL, m.config.TxCodeLength)
	m.offers = offer.NewBuilder(sessions, m.config.OfferTTL, issuer, m.config.OfferScheme)
	tokens, err := token.NewHandler(issuer, tokenKey, codes, issuance.NewBinder(procedures, metadata), sessions, m.config.AccessTokenTTL)
	if err != nil {
		return err
	}
	m.tokens = tokens.WithMetrics(redeemed)
	m.service = issuance.New(issuance.Config{
		Issuer:             issuer,
		CredentialValidity: m.config.CredentialValidity,
		RenewalTTL:         m.config.RenewalTTL,
		SignTimeout:        m.config.SignTimeout,
	}, procedures, metadata, templates, credentialSigner, codes, m.offers, m.tokens, m.notifier, sessions).WithMetrics(issued)
	m.scheduler = expiration.NewScheduler(procedures, m.config.ExpirationInterval).WithMetrics(expired)

	log.Logger().
		WithField(core.LogFieldSignerType, m.config.Signer.Type).
		WithField(core.LogFieldKeyID, credentialSigner.KeyID()).
		Infof("Credential issuer configured (issuer=%s, templates=%d)", issuer, len(templates.Types()))
	return nil
}

func (m *Module) loadAccessTokenKey(strictmode bool) (*ecdsa.PrivateKey, error) {
	if m.config.AccessTokenKeyFile != "" {
		key, err := crypto.LoadPrivateKey(m.config.AccessTokenKeyFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load access token key: %w", err)
		}
		return key, nil
	}
	if strictmode {
		return nil, errors.New("vci.accesstokenkeyfile must be configured in strict mode")
	}
	log.Logger().Warn("No access token key configured, using an ephemeral key. Access tokens become invalid after restart.")
	return crypto.GenerateECKey()
}

func registerMetrics() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, error) {
	issued, err := core.RegisterCollector(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "vci",
		Name:      "credentials_issued_total",
		Help:      "Number of credentials issued, by signing mode (sync, deferred, remote).",
	}, []string{"mode"}))
	if err != nil {
		return nil, nil, nil, err
	}
	redeemed, err := core.RegisterCollector(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "vci",
		Name:      "codes_redeemed_total",
		Help:      "Number of pre-authorized code redemption attempts, by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, nil, nil, err
	}
	expired, err := core.RegisterCollector(prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: core.MetricsNamespace,
		Subsystem: "vci",
		Name:      "credentials_expired_total",
		Help:      "Number of issued credentials marked expired by the expiration scheduler.",
	}))
	if err != nil {
		return nil, nil, nil, err
	}
	return issued, redeemed, expired, nil
}

// Start starts the expiration scheduler.
func (m *Module) Start() error {
	m.scheduler.Start()
	return nil
}

// Shutdown stops the expiration scheduler and closes the notification sender's connection, if any.
func (m *Module) Shutdown() error {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	if closer, ok := m.notifier.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

// Routes registers the protocol and internal endpoints.
func (m *Module) Routes(router core.EchoRouter) {
	v0.Wrapper{
		Issuance:       m.service,
		Tokens:         m.tokens,
		Offers:         m.offers,
		TokenRateLimit: m.config.TokenRateLimit,
	}.Routes(router)
}

// Service returns the issuance service. It is nil until the module is configured.
func (m *Module) Service() *issuance.Service {
	return m.service
}
