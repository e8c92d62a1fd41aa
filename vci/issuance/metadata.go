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
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
)

// IssuerMetadata returns the Credential Issuer Metadata, advertising a credential configuration per credential template.
func (s *Service) IssuerMetadata() openid4vci.CredentialIssuerMetadata {
	algorithms := []string{signer.Algorithm.String()}
	configurations := make(map[string]openid4vci.CredentialConfiguration)
	for _, credentialType := range s.templates.Types() {
		configurations[credentialType] = openid4vci.CredentialConfiguration{
			Format:                               openid4vci.JWTVCJSONFormat,
			CredentialDefinition:                 openid4vci.CredentialDefinition{Type: []string{"VerifiableCredential", credentialType}},
			CryptographicBindingMethodsSupported: []string{"jwk"},
			CredentialSigningAlgValuesSupported:  algorithms,
			ProofTypesSupported: map[string]openid4vci.ProofType{
				openid4vci.ProofTypeJWT: {ProofSigningAlgValuesSupported: algorithms},
			},
		}
	}
	return openid4vci.CredentialIssuerMetadata{
		CredentialIssuer:                  s.config.Issuer,
		CredentialEndpoint:                core.JoinURLPaths(s.config.Issuer, CredentialPath),
		DeferredCredentialEndpoint:        core.JoinURLPaths(s.config.Issuer, DeferredCredentialPath),
		AuthorizationServers:              []string{s.config.Issuer},
		CredentialConfigurationsSupported: configurations,
	}
}

// AuthorizationServerMetadata returns the OAuth2 metadata of the issuer's token endpoint.
func (s *Service) AuthorizationServerMetadata() openid4vci.AuthorizationServerMetadata {
	return openid4vci.AuthorizationServerMetadata{
		Issuer:                                     s.config.Issuer,
		TokenEndpoint:                              core.JoinURLPaths(s.config.Issuer, token.Path),
		GrantTypesSupported:                        []string{openid4vci.PreAuthorizedCodeGrant},
		PreAuthorizedGrantAnonymousAccessSupported: true,
	}
}
