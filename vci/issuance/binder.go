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
	"fmt"
	"net/http"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
)

var _ token.Binder = (*Binder)(nil)

// Binder binds access tokens to procedures, when the pre-authorized code of the procedure's credential is redeemed.
type Binder struct {
	procedures procedure.Store
	metadata   procedure.MetadataStore
}

// NewBinder creates a new Binder.
func NewBinder(procedures procedure.Store, metadata procedure.MetadataStore) *Binder {
	return &Binder{procedures: procedures, metadata: metadata}
}

// BindAccessToken records the access token ID as auth server nonce of the credential's procedure, and returns the procedure ID.
// Tokens issued earlier for the same procedure are no longer accepted after this.
func (b Binder) BindAccessToken(ctx context.Context, credentialID string, tokenID string) (string, error) {
	record, err := b.procedures.GetByCredentialID(ctx, credentialID)
	if errors.Is(err, procedure.ErrNotFound) {
		return "", openid4vci.Error{
			Code:        openid4vci.UserDoesNotExist,
			Description: "no credential procedure exists for the pre-authorized code",
			Err:         err,
			StatusCode:  http.StatusBadRequest,
		}
	} else if err != nil {
		return "", fmt.Errorf("credential procedure lookup failed: %w", err)
	}
	metadata, err := b.metadata.GetByProcedureID(ctx, record.ID)
	if errors.Is(err, procedure.ErrNotFound) {
		return "", errCredentialNotFound.WithCause(err)
	} else if err != nil {
		return "", fmt.Errorf("deferred credential metadata lookup failed: %w", err)
	}
	if err = b.metadata.BindAuthServerNonce(ctx, metadata.TransactionCode, tokenID); err != nil {
		return "", err
	}
	log.Logger().
		WithField(core.LogFieldProcedureID, record.ID).
		Debug("Access token bound to credential procedure")
	return record.ID, nil
}
