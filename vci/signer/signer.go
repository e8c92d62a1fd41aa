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
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
)

// New creates the Signer selected by the configuration.
func New(config Config, strictmode bool) (Signer, error) {
	switch config.Type {
	case TypeLocal:
		return newLocalFromConfig(config.Local, strictmode)
	case TypeRemote:
		if config.Remote.URL == "" {
			return nil, errors.New("remote signer URL not configured")
		}
		client := core.NewStrictHTTPClient(strictmode, config.Remote.Timeout, nil)
		return NewRemote(config.Remote, client), nil
	case TypeVault:
		return NewVault(config.Vault)
	case TypeAzure:
		return NewAzure(config.Azure)
	default:
		return nil, fmt.Errorf("unsupported signer type: %s", config.Type)
	}
}

func newLocalFromConfig(config LocalConfig, strictmode bool) (Signer, error) {
	if config.KeyFile != "" {
		key, err := crypto.LoadPrivateKey(config.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load signing key: %w", err)
		}
		return NewLocal(key)
	}
	if strictmode {
		return nil, errors.New("signing key file must be configured in strict mode")
	}
	log.Logger().Warn("No signing key configured, using an ephemeral key. Issued credentials can't be verified after restart.")
	key, err := crypto.GenerateECKey()
	if err != nil {
		return nil, err
	}
	return NewLocal(key)
}
