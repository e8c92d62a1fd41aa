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
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// codeSizeBits is the entropy of one-time codes handed to wallets (pre-authorized codes, offer nonces, c_nonces).
const codeSizeBits = 256

// maxNumericCodeWidth bounds numeric codes, so they fit in an int64 and remain human-enterable.
const maxNumericCodeWidth = 18

// ErrInvalidCodeWidth is returned when a numeric code of an unsupported width is requested.
var ErrInvalidCodeWidth = errors.New("numeric code width must be between 1 and 18")

// GenerateNonce creates a 256 bit secure random, base64url encoded without padding.
func GenerateNonce() string {
	buf := make([]byte, codeSizeBits/8)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// GenerateNumericCode creates a decimal code of exactly the given number of digits,
// drawn uniformly from [10^(width-1), 10^width-1].
func GenerateNumericCode(width int) (string, error) {
	if width < 1 || width > maxNumericCodeWidth {
		return "", ErrInvalidCodeWidth
	}
	lowerBound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(width-1)), nil)
	upperBound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(width)), nil)
	if width == 1 {
		// a single digit code may be 0
		lowerBound = big.NewInt(0)
	}
	// rand.Int returns a uniform value in [0, max)
	n, err := rand.Int(rand.Reader, new(big.Int).Sub(upperBound, lowerBound))
	if err != nil {
		return "", fmt.Errorf("unable to generate numeric code: %w", err)
	}
	return n.Add(n, lowerBound).String(), nil
}
