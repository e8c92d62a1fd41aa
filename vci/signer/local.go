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

package signer

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

var _ Signer = (*localSigner)(nil)

type localSigner struct {
	key   *ecdsa.PrivateKey
	keyID string
}

// NewLocal creates a Signer for the given key. Its key ID is the JWK thumbprint of the key.
func NewLocal(key *ecdsa.PrivateKey) (Signer, error) {
	keyID, err := crypto.KeyThumbprint(key)
	if err != nil {
		return nil, err
	}
	return &localSigner{key: key, keyID: keyID}, nil
}

func (l localSigner) Sign(_ context.Context, digest []byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, l.key, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	return crypto.RawSignature(r, s), nil
}

func (l localSigner) KeyID() string {
	return l.keyID
}

func (l localSigner) Mode() procedure.SignatureMode {
	return procedure.SignatureModeLocal
}

func (l localSigner) Synchronous() bool {
	return true
}
