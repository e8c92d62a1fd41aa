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
	"errors"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

// Algorithm is the JWS algorithm of all signatures produced by signers.
const Algorithm = jwa.ES256

// ErrSigningFailed is returned when the signer couldn't produce a signature.
var ErrSigningFailed = errors.New("unable to sign credential")

// Signer signs credentials. Implementations are the boundary to where the signing key lives.
type Signer interface {
	// Sign signs the SHA-256 digest of a JWS signing input, returning the raw (r||s) ES256 signature.
	Sign(ctx context.Context, digest []byte) ([]byte, error)
	// KeyID returns the key ID set in the JWS header of signed credentials.
	KeyID() string
	// Mode returns the signature mode recorded on procedures signed with this signer.
	Mode() procedure.SignatureMode
	// Synchronous returns whether credentials can be signed while the wallet waits.
	// If false, credentials are always issued deferred.
	Synchronous() bool
}
