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

package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigningInput_AssembleJWS(t *testing.T) {
	key, _ := GenerateECKey()
	headers := jws.NewHeaders()
	_ = headers.Set(jws.TypeKey, "JWT")
	payload := []byte(`{"sub":"hello"}`)

	input, digest, err := SigningInput(headers, payload, jwa.ES256, "key-1")
	require.NoError(t, err)
	r, s, err := ecdsa.Sign(rand.Reader, key, digest)
	require.NoError(t, err)
	compact, err := AssembleJWS(input, RawSignature(r, s))
	require.NoError(t, err)

	actualPayload, err := VerifyCompactJWS(compact, &key.PublicKey)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(actualPayload))
	message, err := jws.ParseString(compact)
	require.NoError(t, err)
	protected := message.Signatures()[0].ProtectedHeaders()
	assert.Equal(t, "key-1", protected.KeyID())
	assert.Equal(t, jwa.ES256, protected.Algorithm())
	assert.Equal(t, "JWT", protected.Type())
}

func TestAssembleJWS(t *testing.T) {
	_, err := AssembleJWS("a.b", []byte{1, 2, 3})

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestKeyThumbprint(t *testing.T) {
	key, _ := GenerateECKey()

	first, err := KeyThumbprint(key)
	require.NoError(t, err)
	second, _ := KeyThumbprint(key)

	assert.Equal(t, first, second)
	assert.Len(t, first, 43)
}

func TestPublicJWK(t *testing.T) {
	key, _ := GenerateECKey()

	actual, err := PublicJWK(key, "kid")

	require.NoError(t, err)
	assert.Equal(t, "kid", actual.KeyID())
	var raw ecdsa.PublicKey
	require.NoError(t, actual.Raw(&raw))
	assert.True(t, key.PublicKey.Equal(&raw))
}
