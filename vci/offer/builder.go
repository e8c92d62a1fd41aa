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

package offer

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
)

// DefaultScheme is the URI scheme of credential offer deep-links.
const DefaultScheme = "openid-credential-offer"

// Path is the path (relative to the issuer identifier) on which credential offers are retrieved.
const Path = "/credential-offer"

// ErrNotFound is returned when a credential offer doesn't exist, expired or was already retrieved.
var ErrNotFound = openid4vci.Error{
	Code:        openid4vci.CredentialOfferNotFound,
	Description: "credential offer not found or already retrieved",
	StatusCode:  http.StatusNotFound,
}

// Builder assembles credential offers and keeps them until the wallet retrieves them.
type Builder struct {
	issuer string
	scheme string
	store  storage.SessionStore
}

// NewBuilder creates a new Builder. Offers that aren't retrieved expire after the given TTL.
// The issuer is the Credential Issuer Identifier (URL).
func NewBuilder(sessions storage.SessionDatabase, ttl time.Duration, issuer string, scheme string) *Builder {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Builder{
		issuer: issuer,
		scheme: scheme,
		store:  sessions.GetStore(ttl, "vci", "offer"),
	}
}

// Build assembles a credential offer for the given credential type and pre-authorized code grant.
func (b *Builder) Build(credentialType string, grant openid4vci.Grant, recipientEmail string, pin string) openid4vci.CredentialOfferData {
	return openid4vci.CredentialOfferData{
		CredentialOffer: openid4vci.CredentialOffer{
			CredentialIssuer: b.issuer,
			Credentials: []openid4vci.OfferedCredential{
				{
					Format: openid4vci.JWTVCJSONFormat,
					Types:  []string{"VerifiableCredential", credentialType},
				},
			},
			CredentialConfigurationIDs: []string{credentialType},
			Grants: map[string]openid4vci.Grant{
				openid4vci.PreAuthorizedCodeGrant: grant,
			},
		},
		RecipientEmail: recipientEmail,
		PIN:            pin,
	}
}

// Save stores the offer under a fresh nonce, which is returned.
func (b *Builder) Save(data openid4vci.CredentialOfferData) (string, error) {
	nonce := crypto.GenerateNonce()
	if err := b.store.Put(nonce, data); err != nil {
		return "", fmt.Errorf("unable to store credential offer: %w", err)
	}
	return nonce, nil
}

// Get returns the offer stored under the nonce, and deletes it: an offer can be retrieved only once.
// It returns ErrNotFound if there's no such offer.
func (b *Builder) Get(nonce string) (*openid4vci.CredentialOfferData, error) {
	var result openid4vci.CredentialOfferData
	if err := b.store.GetAndDelete(nonce, &result); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Delete removes the offer stored under the nonce, if any.
func (b *Builder) Delete(nonce string) error {
	return b.store.Delete(nonce)
}

// URI returns the deep-link the wallet uses to retrieve the offer stored under the nonce.
func (b *Builder) URI(nonce string) string {
	offerURL := core.JoinURLPaths(b.issuer, Path, url.PathEscape(nonce))
	return b.scheme + "://?credential_offer_uri=" + url.QueryEscape(offerURL)
}
