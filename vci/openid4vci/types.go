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

// PreAuthorizedCodeGrant is the grant type used for the pre-authorized code flow.
const PreAuthorizedCodeGrant = "urn:ietf:params:oauth:grant-type:pre-authorized_code"

// JWTTypeOpenID4VCIProof defines the OpenID4VCI JWT-subtype (used as typ claim in the JWT).
const JWTTypeOpenID4VCIProof = "openid4vci-proof+jwt"

// ProofTypeJWT defines the Credential Request proof type for JWTs.
const ProofTypeJWT = "jwt"

// JWTVCJSONFormat is the credential format for VC Data Model credentials secured as JWT (without JSON-LD processing).
const JWTVCJSONFormat = "jwt_vc_json"

// TokenTypeBearer is the token_type of access tokens issued by the token endpoint.
const TokenTypeBearer = "bearer"

// CredentialIssuerMetadataWellKnownPath defines the well-known path for OpenID4VCI Credential Issuer Metadata.
const CredentialIssuerMetadataWellKnownPath = "/.well-known/openid-credential-issuer"

// AuthorizationServerMetadataWellKnownPath defines the well-known path for the OAuth2 Authorization Server Metadata.
const AuthorizationServerMetadataWellKnownPath = "/.well-known/oauth-authorization-server"

// TxCode describes the transaction code (PIN) a wallet must present alongside the pre-authorized code.
type TxCode struct {
	// Length is the number of characters of the code.
	Length int `json:"length"`
	// InputMode is the character set, "numeric" for PINs generated by this issuer.
	InputMode string `json:"input_mode"`
	// Description tells the End-User where to find the code.
	Description string `json:"description,omitempty"`
}

// Grant is the pre-authorized code grant of a credential offer.
type Grant struct {
	// PreAuthorizedCode is the one-time code the wallet exchanges for an access token.
	PreAuthorizedCode string `json:"pre-authorized_code"`
	// TxCode describes the PIN the wallet must present. Nil if no PIN is required.
	TxCode *TxCode `json:"tx_code,omitempty"`
	// PIN is the raw transaction code. It's never part of the offer, but delivered out-of-band (e.g. e-mail).
	PIN string `json:"-"`
}

// OfferedCredential describes a credential in a credential offer.
type OfferedCredential struct {
	Format string   `json:"format"`
	Types  []string `json:"types"`
}

// CredentialOffer is the credential offer document retrieved by the wallet.
type CredentialOffer struct {
	// CredentialIssuer is the Credential Issuer Identifier.
	CredentialIssuer string `json:"credential_issuer"`
	// Credentials describes the credentials that are offered.
	Credentials []OfferedCredential `json:"credentials"`
	// CredentialConfigurationIDs references the issuer metadata entries of the offered credentials.
	CredentialConfigurationIDs []string `json:"credential_configuration_ids,omitempty"`
	// Grants maps the grant type to its parameters.
	Grants map[string]Grant `json:"grants"`
}

// CredentialOfferData is a credential offer together with its delivery metadata, as kept by the issuer until the wallet retrieves it.
type CredentialOfferData struct {
	CredentialOffer CredentialOffer `json:"credential_offer"`
	RecipientEmail  string          `json:"recipient_email"`
	PIN             string          `json:"pin"`
}

// TokenResponse is the response of the token endpoint.
type TokenResponse struct {
	AccessToken     string `json:"access_token"`
	TokenType       string `json:"token_type"`
	ExpiresIn       int    `json:"expires_in"`
	CNonce          string `json:"c_nonce"`
	CNonceExpiresIn int    `json:"c_nonce_expires_in"`
}

// CredentialDefinition specifies the requested credential.
type CredentialDefinition struct {
	Type []string `json:"type"`
}

// Proof is the proof-of-possession of the key material the credential will be bound to.
type Proof struct {
	ProofType string `json:"proof_type"`
	JWT       string `json:"jwt,omitempty"`
}

// CredentialRequest is the request to the credential endpoint.
type CredentialRequest struct {
	Format               string                `json:"format"`
	CredentialDefinition *CredentialDefinition `json:"credential_definition,omitempty"`
	Proof                *Proof                `json:"proof,omitempty"`
}

// CredentialResponse is the response of the credential and deferred credential endpoints.
// A response with a TransactionID and no Credential signals the credential is (still) being issued.
type CredentialResponse struct {
	Format          string `json:"format,omitempty"`
	Credential      string `json:"credential,omitempty"`
	TransactionID   string `json:"transaction_id,omitempty"`
	CNonce          string `json:"c_nonce,omitempty"`
	CNonceExpiresIn int    `json:"c_nonce_expires_in,omitempty"`
}

// Pending returns whether the response signals the credential isn't available yet.
func (c CredentialResponse) Pending() bool {
	return c.Credential == "" && c.TransactionID != ""
}

// DeferredCredentialRequest is the request to the deferred credential endpoint.
type DeferredCredentialRequest struct {
	TransactionID string `json:"transaction_id"`
}

// CredentialConfiguration describes a credential the issuer can issue, as advertised in its metadata.
type CredentialConfiguration struct {
	Format                               string               `json:"format"`
	CredentialDefinition                 CredentialDefinition `json:"credential_definition"`
	CryptographicBindingMethodsSupported []string             `json:"cryptographic_binding_methods_supported"`
	CredentialSigningAlgValuesSupported  []string             `json:"credential_signing_alg_values_supported"`
	ProofTypesSupported                  map[string]ProofType `json:"proof_types_supported"`
}

// ProofType lists the algorithms supported for a proof type.
type ProofType struct {
	ProofSigningAlgValuesSupported []string `json:"proof_signing_alg_values_supported"`
}

// CredentialIssuerMetadata is the metadata of the credential issuer.
type CredentialIssuerMetadata struct {
	CredentialIssuer                  string                             `json:"credential_issuer"`
	CredentialEndpoint                string                             `json:"credential_endpoint"`
	DeferredCredentialEndpoint        string                             `json:"deferred_credential_endpoint"`
	AuthorizationServers              []string                           `json:"authorization_servers,omitempty"`
	CredentialConfigurationsSupported map[string]CredentialConfiguration `json:"credential_configurations_supported"`
}

// AuthorizationServerMetadata is the OAuth2 metadata of the token endpoint.
type AuthorizationServerMetadata struct {
	Issuer                                     string   `json:"issuer"`
	TokenEndpoint                              string   `json:"token_endpoint"`
	GrantTypesSupported                        []string `json:"grant_types_supported"`
	PreAuthorizedGrantAnonymousAccessSupported bool     `json:"pre-authorized_grant_anonymous_access_supported"`
}
