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
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
)

const (
	// TypeLocal signs with a key loaded from a PEM file.
	TypeLocal = "local"
	// TypeRemote signs using a remote signing service over HTTP.
	TypeRemote = "remote"
	// TypeVault signs using the HashiCorp Vault transit secrets engine.
	TypeVault = "vault"
	// TypeAzure signs using Azure Key Vault.
	TypeAzure = "azure"
)

// Config selects and configures the signer.
type Config struct {
	// Type is one of local, remote, vault or azure.
	Type   string       `koanf:"type"`
	Local  LocalConfig  `koanf:"local"`
	Remote RemoteConfig `koanf:"remote"`
	Vault  VaultConfig  `koanf:"vault"`
	Azure  AzureConfig  `koanf:"azure"`
}

// LocalConfig configures the local signer.
type LocalConfig struct {
	// KeyFile is the PEM file holding the EC P-256 private key.
	// If empty, an ephemeral key is generated (not allowed in strict mode).
	KeyFile string `koanf:"keyfile"`
}

// RemoteConfig configures the remote signer.
type RemoteConfig struct {
	URL   string `koanf:"url"`
	KeyID string `koanf:"keyid"`
	// Synchronous specifies whether the remote service signs while the wallet waits.
	Synchronous bool          `koanf:"synchronous"`
	Timeout     time.Duration `koanf:"timeout"`
}

// VaultConfig configures the HashiCorp Vault transit signer.
type VaultConfig struct {
	// Address of the Vault server. If empty, VAULT_ADDR is used.
	Address string `koanf:"address"`
	// Token to authenticate with. If empty, VAULT_TOKEN is used.
	Token string `koanf:"token"`
	// Mount is the path the transit engine is mounted on.
	Mount string `koanf:"mount"`
	// Key is the name of the transit key (type ecdsa-p256).
	Key     string        `koanf:"key"`
	Timeout time.Duration `koanf:"timeout"`
}

// AzureConfig configures the Azure Key Vault signer.
type AzureConfig struct {
	URL string `koanf:"url"`
	// Key is the name of the key, Version optionally pins its version.
	Key     string        `koanf:"key"`
	Version string        `koanf:"version"`
	Timeout time.Duration `koanf:"timeout"`
	// Auth selects the credential: "default" (DefaultAzureCredential chain) or "managed_identity".
	Auth string `koanf:"auth"`
}

// DefaultConfig returns the default signer configuration.
func DefaultConfig() Config {
	return Config{
		Type: TypeLocal,
		Remote: RemoteConfig{
			Synchronous: true,
			Timeout:     10 * time.Second,
		},
		Vault: VaultConfig{
			Mount:   "transit",
			Timeout: 5 * time.Second,
		},
		Azure: AzureConfig{
			Timeout: 10 * time.Second,
			Auth:    azureAuthDefault,
		},
	}
}

// azureSignatureAlgorithm is the Azure Key Vault counterpart of Algorithm.
const azureSignatureAlgorithm = azkeys.SignatureAlgorithmES256
