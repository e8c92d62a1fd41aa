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
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-issuer/http"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
)

// Config holds the configuration of the VCI module.
type Config struct {
	// Issuer is the Credential Issuer Identifier, the public base URL wallets use to reach the issuer.
	Issuer string `koanf:"issuer"`
	// OfferScheme is the URI scheme of credential offer URIs handed to wallets.
	OfferScheme string `koanf:"offerscheme"`
	// PreAuthorizedCodeTTL is how long a pre-authorized code (and its transaction code) can be redeemed.
	PreAuthorizedCodeTTL time.Duration `koanf:"preauthorizedcodettl"`
	// TxCodeLength is the number of digits of the transaction code (PIN).
	TxCodeLength int `koanf:"txcodelength"`
	// OfferTTL is how long a credential offer can be retrieved by its nonce.
	OfferTTL time.Duration `koanf:"offerttl"`
	// AccessTokenTTL is the validity of access tokens issued by the token endpoint.
	AccessTokenTTL time.Duration `koanf:"accesstokenttl"`
	// AccessTokenKeyFile is the PEM file holding the EC P-256 key access tokens are signed with.
	AccessTokenKeyFile string `koanf:"accesstokenkeyfile"`
	// RenewalTTL is how long a credential offer can be renewed after the issuance was created.
	RenewalTTL time.Duration `koanf:"renewalttl"`
	// CredentialValidity is the validity of issued credentials, when the template doesn't specify one.
	CredentialValidity time.Duration `koanf:"credentialvalidity"`
	// TemplatesDir is a directory with additional credential templates. Embedded templates are always loaded.
	TemplatesDir string `koanf:"templatesdir"`
	// ExpirationInterval is the interval at which overdue credentials are marked expired.
	ExpirationInterval time.Duration `koanf:"expirationinterval"`
	// SignTimeout bounds a single call to the credential signer.
	SignTimeout time.Duration `koanf:"signtimeout"`
	// TokenRateLimit limits requests to the token endpoint per client IP.
	TokenRateLimit http.RateLimitConfig `koanf:"tokenratelimit"`
	Signer         signer.Config        `koanf:"signer"`
	Notification   notification.Config  `koanf:"notification"`
}

// DefaultConfig returns the default configuration of the VCI module.
func DefaultConfig() Config {
	return Config{
		OfferScheme:          "openid-credential-offer",
		PreAuthorizedCodeTTL: 5 * time.Minute,
		TxCodeLength:         5,
		OfferTTL:             5 * time.Minute,
		AccessTokenTTL:       5 * time.Minute,
		RenewalTTL:           72 * time.Hour,
		CredentialValidity:   365 * 24 * time.Hour,
		ExpirationInterval:   time.Hour,
		SignTimeout:          10 * time.Second,
		TokenRateLimit: http.RateLimitConfig{
			Limit:    5,
			Interval: time.Minute,
			Burst:    5,
		},
		Signer:       signer.DefaultConfig(),
		Notification: notification.DefaultConfig(),
	}
}

// validateDurations returns an error for the first TTL or interval that isn't positive.
func (c Config) validateDurations() error {
	durations := []struct {
		key   string
		value time.Duration
	}{
		{"preauthorizedcodettl", c.PreAuthorizedCodeTTL},
		{"offerttl", c.OfferTTL},
		{"accesstokenttl", c.AccessTokenTTL},
		{"renewalttl", c.RenewalTTL},
		{"credentialvalidity", c.CredentialValidity},
		{"expirationinterval", c.ExpirationInterval},
	}
	for _, duration := range durations {
		if duration.value <= 0 {
			return fmt.Errorf("vci.%s must be positive (value=%s)", duration.key, duration.value)
		}
	}
	return nil
}
