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
	gocrypto "crypto"
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// es256CoordinateSize is the size in bytes of r and s in an ES256 signature.
const es256CoordinateSize = 32

// ErrInvalidSignature is returned when a raw signature has the wrong size for the algorithm.
var ErrInvalidSignature = errors.New("invalid signature size for ES256")

// SigningInput returns the JWS signing input (BASE64URL(header) '.' BASE64URL(payload)) and its SHA-256 digest.
// The header gets the alg and kid set.
func SigningInput(headers jws.Headers, payload []byte, alg jwa.SignatureAlgorithm, kid string) (string, []byte, error) {
	if err := headers.Set(jws.AlgorithmKey, alg); err != nil {
		return "", nil, err
	}
	if kid != "" {
		if err := headers.Set(jws.KeyIDKey, kid); err != nil {
			return "", nil, err
		}
	}
	headerJSON, err := json.Marshal(headers)
	if err != nil {
		return "", nil, fmt.Errorf("unable to marshal JWS headers: %w", err)
	}
	input := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(payload)
	digest := sha256.Sum256([]byte(input))
	return input, digest[:], nil
}

// AssembleJWS creates a compact JWS from the signing input and the raw (r||s) signature.
func AssembleJWS(signingInput string, signature []byte) (string, error) {
	if len(signature) != 2*es256CoordinateSize {
		return "", ErrInvalidSignature
	}
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// RawSignature encodes the ECDSA signature values as fixed-size r||s, as used by JWS.
func RawSignature(r, s *big.Int) []byte {
	result := make([]byte, 2*es256CoordinateSize)
	r.FillBytes(result[:es256CoordinateSize])
	s.FillBytes(result[es256CoordinateSize:])
	return result
}

// VerifyCompactJWS verifies a compact JWS with the given public key, returning the payload.
func VerifyCompactJWS(compact string, key *ecdsa.PublicKey) ([]byte, error) {
	return jws.Verify([]byte(compact), jws.WithKey(jwa.ES256, key))
}

// PublicJWK returns the public key as JWK, with the key ID set.
func PublicJWK(key *ecdsa.PrivateKey, kid string) (jwk.Key, error) {
	result, err := jwk.FromRaw(key.Public())
	if err != nil {
		return nil, err
	}
	if kid != "" {
		if err = result.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// KeyThumbprint returns the base64url encoded SHA-256 JWK thumbprint (RFC 7638) of the public key, usable as key ID.
func KeyThumbprint(key *ecdsa.PrivateKey) (string, error) {
	publicKey, err := jwk.FromRaw(key.Public())
	if err != nil {
		return "", err
	}
	thumbprint, err := publicKey.Thumbprint(gocrypto.SHA256)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(thumbprint), nil
}
