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

package v0

import (
	"context"

	"github.com/nuts-foundation/nuts-issuer/vci/issuance"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

// Issuance is the credential issuance workflow, as used by the API.
type Issuance interface {
	Create(ctx context.Context, processID string, request issuance.Request) (*issuance.Result, error)
	RenewOffer(ctx context.Context, processID string, renewalCode string) (*issuance.Result, error)
	GetProcedure(ctx context.Context, procedureID string) (*procedure.CredentialProcedure, error)
	ListProcedures(ctx context.Context, status procedure.Status) ([]procedure.CredentialProcedure, error)
	GenerateCredentialResponse(ctx context.Context, processID string, request openid4vci.CredentialRequest, accessToken string) (*openid4vci.CredentialResponse, error)
	GenerateDeferredResponse(ctx context.Context, processID string, request openid4vci.DeferredCredentialRequest, accessToken string) (*openid4vci.CredentialResponse, error)
	SignDeferred(ctx context.Context, processID string, procedureID string) (*procedure.CredentialProcedure, error)
	CompleteWithSignedCredential(ctx context.Context, processID string, procedureID string, signedCredential string) (*procedure.CredentialProcedure, error)
	Revoke(ctx context.Context, processID string, procedureID string) error
	Notify(ctx context.Context, procedureID string) error
	IssuerMetadata() openid4vci.CredentialIssuerMetadata
	AuthorizationServerMetadata() openid4vci.AuthorizationServerMetadata
}

var _ Issuance = (*issuance.Service)(nil)

// TokenEndpoint exchanges pre-authorized codes for access tokens.
type TokenEndpoint interface {
	Redeem(ctx context.Context, grantType string, preAuthorizedCode string, txCode string) (*openid4vci.TokenResponse, error)
}

// OfferStore hands out credential offers to wallets.
type OfferStore interface {
	Get(nonce string) (*openid4vci.CredentialOfferData, error)
}
