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
	"encoding/base64"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

var _ Signer = (*vaultSigner)(nil)

// logicalWriter is implemented by vault.Logical, and by a stub in tests.
type logicalWriter interface {
	WriteWithContext(ctx context.Context, path string, data map[string]interface{}) (*vault.Secret, error)
}

type vaultSigner struct {
	client logicalWriter
	mount  string
	key    string
}

// NewVault creates a Signer that signs using a key in the Vault transit secrets engine.
func NewVault(config VaultConfig) (Signer, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Timeout = config.Timeout
	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize Vault client: %w", err)
	}
	// the client picks up VAULT_TOKEN, only override when configured
	if config.Token != "" {
		client.SetToken(config.Token)
	}
	if config.Address != "" {
		if err = client.SetAddress(config.Address); err != nil {
			return nil, fmt.Errorf("vault address invalid: %w", err)
		}
	}
	if config.Key == "" {
		return nil, fmt.Errorf("vault transit key not configured")
	}
	log.Logger().Infof("Signing credentials using Vault transit key: %s", config.Key)
	return &vaultSigner{client: client.Logical(), mount: config.Mount, key: config.Key}, nil
}

func (v vaultSigner) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	path := fmt.Sprintf("%s/sign/%s/sha2-256", v.mount, v.key)
	secret, err := v.client.WriteWithContext(ctx, path, map[string]interface{}{
		"input":                base64.StdEncoding.EncodeToString(digest),
		"prehashed":            true,
		"marshaling_algorithm": "jws",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: vault transit sign failed: %w", ErrSigningFailed, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("%w: vault returned no signature", ErrSigningFailed)
	}
	value, ok := secret.Data["signature"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: vault returned no signature", ErrSigningFailed)
	}
	// format is vault:v<key version>:<signature>
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 || parts[0] != "vault" {
		return nil, fmt.Errorf("%w: unexpected vault signature format", ErrSigningFailed)
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vault signature encoding: %w", ErrSigningFailed, err)
	}
	return signature, nil
}

func (v vaultSigner) KeyID() string {
	return v.key
}

func (v vaultSigner) Mode() procedure.SignatureMode {
	return procedure.SignatureModeCloud
}

func (v vaultSigner) Synchronous() bool {
	return true
}
