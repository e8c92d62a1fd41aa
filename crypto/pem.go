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
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrWrongPrivateKey is returned when a PEM block does not contain a supported private key.
var ErrWrongPrivateKey = errors.New("failed to decode PEM block containing private key")

// ErrUnsupportedKeyType is returned when a private key is not an ECDSA P-256 key.
var ErrUnsupportedKeyType = errors.New("only EC P-256 private keys are supported")

// GenerateECKey generates a new P-256 key pair.
func GenerateECKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// PemToPrivateKey parses a PEM encoded EC (SEC 1) or PKCS#8 private key. Only P-256 keys are accepted.
func PemToPrivateKey(data []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrWrongPrivateKey
	}
	var key interface{}
	var err error
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, ErrWrongPrivateKey
	}
	if err != nil {
		return nil, errors.Join(ErrWrongPrivateKey, err)
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok || ecKey.Curve != elliptic.P256() {
		return nil, ErrUnsupportedKeyType
	}
	return ecKey, nil
}

// PrivateKeyToPem encodes the private key as PKCS#8 PEM.
func PrivateKeyToPem(key *ecdsa.PrivateKey) (string, error) {
	asn1Bytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: asn1Bytes,
	})), nil
}

// LoadPrivateKey reads a PEM encoded P-256 private key from the given file.
func LoadPrivateKey(file string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key file: %w", err)
	}
	key, err := PemToPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key file (file=%s): %w", file, err)
	}
	return key, nil
}
