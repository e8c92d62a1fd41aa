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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

// maxResponseSize bounds the response read from a remote signer.
const maxResponseSize = 64 * 1024

var _ Signer = (*remoteSigner)(nil)

// SignRequest is sent to the remote signing service.
type SignRequest struct {
	// Digest is the base64url encoded SHA-256 digest to sign.
	Digest    string `json:"digest"`
	Algorithm string `json:"algorithm"`
	KeyID     string `json:"key_id"`
}

// SignResponse is returned by the remote signing service.
type SignResponse struct {
	// Signature is the base64url encoded raw (r||s) signature.
	Signature string `json:"signature"`
}

type remoteSigner struct {
	url         string
	keyID       string
	synchronous bool
	client      core.HTTPRequestDoer
}

// NewRemote creates a Signer that has digests signed by a remote signing service.
func NewRemote(config RemoteConfig, client core.HTTPRequestDoer) Signer {
	return &remoteSigner{
		url:         config.URL,
		keyID:       config.KeyID,
		synchronous: config.Synchronous,
		client:      client,
	}
}

func (r remoteSigner) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	requestBody, _ := json.Marshal(SignRequest{
		Digest:    base64.RawURLEncoding.EncodeToString(digest),
		Algorithm: Algorithm.String(),
		KeyID:     r.keyID,
	})
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(requestBody))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	response, err := r.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: remote signer call failed: %w", ErrSigningFailed, err)
	}
	defer response.Body.Close()
	if err = core.TestResponseCodeWithLog(http.StatusOK, response, log.Logger()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read remote signer response: %w", ErrSigningFailed, err)
	}
	var result SignResponse
	if err = json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: invalid remote signer response: %w", ErrSigningFailed, err)
	}
	signature, err := base64.RawURLEncoding.DecodeString(result.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signature encoding: %w", ErrSigningFailed, err)
	}
	return signature, nil
}

func (r remoteSigner) KeyID() string {
	return r.keyID
}

func (r remoteSigner) Mode() procedure.SignatureMode {
	return procedure.SignatureModeRemote
}

func (r remoteSigner) Synchronous() bool {
	return r.synchronous
}
