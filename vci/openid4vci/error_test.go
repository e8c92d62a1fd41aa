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

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		assert.EqualError(t, Error{Err: errors.New("token has expired"), Code: InvalidToken}, "invalid_token - token has expired")
	})
	t.Run("without underlying error", func(t *testing.T) {
		assert.EqualError(t, Error{Code: InvalidToken}, "invalid_token")
	})
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("redeem: %w", Error{Code: ExpiredPreAuthorizedCode, Err: errors.New("code not found")})

	assert.ErrorIs(t, err, ErrExpiredPreAuthorizedCode)
	assert.NotErrorIs(t, err, Error{Code: InvalidToken})
	assert.False(t, Error{Code: InvalidToken}.Is(errors.New("invalid_token")))
}

func TestError_MarshalJSON(t *testing.T) {
	t.Run("internals are not marshalled", func(t *testing.T) {
		data, err := json.Marshal(ErrExpiredPreAuthorizedCode.WithCause(errors.New("secret: code ABC not found")))

		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"pre-authorized_code is expired or used","description":"the pre-authorized code is invalid, expired or already used"}`, string(data))
	})
	t.Run("proof error carries fresh nonce", func(t *testing.T) {
		nonce := "n"
		expiresIn := 300
		data, err := json.Marshal(Error{Code: InvalidOrMissingProof, CNonce: &nonce, CNonceExpiresIn: &expiresIn})

		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"invalid_or_missing_proof","c_nonce":"n","c_nonce_expires_in":300}`, string(data))
	})
}

func TestCredentialResponse_Pending(t *testing.T) {
	assert.True(t, CredentialResponse{TransactionID: "tx"}.Pending())
	assert.False(t, CredentialResponse{TransactionID: "tx", Credential: "ey..."}.Pending())
	assert.False(t, CredentialResponse{Credential: "ey..."}.Pending())
}

func TestCredentialOffer_MarshalJSON(t *testing.T) {
	offer := CredentialOffer{
		CredentialIssuer: "https://issuer.example.com",
		Credentials:      []OfferedCredential{{Format: JWTVCJSONFormat, Types: []string{"LEARCredentialEmployee"}}},
		Grants: map[string]Grant{
			PreAuthorizedCodeGrant: {
				PreAuthorizedCode: "code",
				TxCode:            &TxCode{Length: 4, InputMode: "numeric"},
				PIN:               "1234",
			},
		},
	}

	data, err := json.Marshal(offer)

	require.NoError(t, err)
	assert.NotContains(t, string(data), "1234")
	assert.Contains(t, string(data), `"pre-authorized_code":"code"`)
}
