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
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
)

const (
	azureAuthDefault         = "default"
	azureAuthManagedIdentity = "managed_identity"
)

var _ Signer = (*azureSigner)(nil)

// keyVaultClient is the part of azkeys.Client used for signing, to support mocking.
type keyVaultClient interface {
	Sign(ctx context.Context, name string, version string, parameters azkeys.SignParameters, options *azkeys.SignOptions) (azkeys.SignResponse, error)
}

type azureSigner struct {
	client  keyVaultClient
	config  AzureConfig
	keyName string
}

// NewAzure creates a Signer that signs using a key in Azure Key Vault.
func NewAzure(config AzureConfig) (Signer, error) {
	if config.Key == "" {
		return nil, fmt.Errorf("azure key vault key not configured")
	}
	var credential azcore.TokenCredential
	var err error
	switch config.Auth {
	case azureAuthDefault, "":
		credential, err = azidentity.NewDefaultAzureCredential(nil)
	case azureAuthManagedIdentity:
		credential, err = azidentity.NewManagedIdentityCredential(nil)
	default:
		return nil, fmt.Errorf("unsupported azure auth type: %s", config.Auth)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to acquire Azure credential: %w", err)
	}
	client, err := azkeys.NewClient(config.URL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create Azure Key Vault client: %w", err)
	}
	log.Logger().Infof("Signing credentials using Azure Key Vault key: %s", config.Key)
	return &azureSigner{client: client, config: config, keyName: config.Key}, nil
}

func (a azureSigner) Sign(ctx context.Context, digest []byte) ([]byte, error) {
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	response, err := a.client.Sign(ctx, a.keyName, a.config.Version, azkeys.SignParameters{
		Algorithm: to.Ptr(azureSignatureAlgorithm),
		Value:     digest,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: azure key vault sign failed: %w", ErrSigningFailed, err)
	}
	// Key Vault returns the raw r||s signature
	return response.Result, nil
}

func (a azureSigner) KeyID() string {
	if a.config.Version != "" {
		return a.keyName + "/" + a.config.Version
	}
	return a.keyName
}

func (a azureSigner) Mode() procedure.SignatureMode {
	return procedure.SignatureModeCloud
}

func (a azureSigner) Synchronous() bool {
	return true
}
