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

package preauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
)

// TxCodeInputMode is the input mode of the transaction codes generated by the service.
const TxCodeInputMode = "numeric"

// DefaultTxCodeDescription tells the End-User where to find the transaction code.
const DefaultTxCodeDescription = "Please provide the one-time PIN sent to you by e-mail"

var storeKeys = []string{"vci", "preauthcode"}

// CredentialIDResolver resolves the ID of the credential a pre-authorized code is issued for.
// It's invoked concurrently with code generation.
type CredentialIDResolver func(ctx context.Context) (string, error)

// Binding is what a pre-authorized code is bound to.
type Binding struct {
	CredentialID string `json:"credential_id"`
	TxCode       string `json:"tx_code"`
}

// Service issues pre-authorized codes and their transaction codes (PINs).
type Service struct {
	store        storage.SessionStore
	txCodeLength int
	description  string
}

// NewService creates a new Service. Pre-authorized codes expire after the given TTL.
func NewService(sessions storage.SessionDatabase, ttl time.Duration, txCodeLength int) *Service {
	return &Service{
		store:        sessions.GetStore(ttl, storeKeys...),
		txCodeLength: txCodeLength,
		description:  DefaultTxCodeDescription,
	}
}

// TTL returns the lifetime of pre-authorized codes.
func (s *Service) TTL() time.Duration {
	return time.Duration(s.store.TTLSeconds()) * time.Second
}

// Generate creates a pre-authorized code and PIN, binding them to the credential ID returned by resolve.
// The binding is only stored after the credential ID is resolved; if resolving fails, nothing is stored.
// The processID is only used for logging.
func (s *Service) Generate(ctx context.Context, processID string, resolve CredentialIDResolver) (*openid4vci.Grant, error) {
	type resolution struct {
		credentialID string
		err          error
	}
	resolved := make(chan resolution, 1)
	go func() {
		credentialID, err := resolve(ctx)
		resolved <- resolution{credentialID: credentialID, err: err}
	}()

	code := crypto.GenerateNonce()
	pin, err := crypto.GenerateNumericCode(s.txCodeLength)
	if err != nil {
		return nil, fmt.Errorf("unable to generate tx_code: %w", err)
	}

	var result resolution
	select {
	case result = <-resolved:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if result.err != nil {
		return nil, fmt.Errorf("unable to resolve credential ID: %w", result.err)
	}
	if result.credentialID == "" {
		return nil, errors.New("unable to resolve credential ID: empty")
	}

	if err = s.store.Put(code, Binding{CredentialID: result.credentialID, TxCode: pin}); err != nil {
		return nil, fmt.Errorf("unable to store pre-authorized code: %w", err)
	}
	log.Logger().
		WithField(core.LogFieldProcessID, processID).
		WithField(core.LogFieldCredentialID, result.credentialID).
		Debug("Pre-authorized code generated")
	return &openid4vci.Grant{
		PreAuthorizedCode: code,
		TxCode: &openid4vci.TxCode{
			Length:      s.txCodeLength,
			InputMode:   TxCodeInputMode,
			Description: s.description,
		},
		PIN: pin,
	}, nil
}

// Revoke invalidates the pre-authorized code without redeeming it.
func (s *Service) Revoke(code string) error {
	return s.store.Delete(code)
}

// Consume returns the binding of the pre-authorized code and invalidates the code.
// Of concurrent callers for the same code, only one gets the binding. Returns storage.ErrNotFound if the code is unknown, expired or already consumed.
func (s *Service) Consume(code string) (*Binding, error) {
	var result Binding
	if err := s.store.GetAndDelete(code, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
