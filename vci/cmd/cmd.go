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

package cmd

import (
	"github.com/nuts-foundation/nuts-issuer/vci"
	"github.com/nuts-foundation/nuts-issuer/vci/notification"
	"github.com/nuts-foundation/nuts-issuer/vci/signer"
	"github.com/spf13/pflag"
)

// FlagSet contains flags relevant for the VCI module
func FlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("vci", pflag.ContinueOnError)
	defs := vci.DefaultConfig()
	flagSet.String("vci.issuer", defs.Issuer, "Credential Issuer Identifier: the public base URL (https) on which wallets reach the issuer. Required.")
	flagSet.String("vci.offerscheme", defs.OfferScheme, "URI scheme of the credential offer deep-links handed to wallets.")
	flagSet.Duration("vci.preauthorizedcodettl", defs.PreAuthorizedCodeTTL, "Time a pre-authorized code and its transaction code (PIN) can be redeemed.")
	flagSet.Int("vci.txcodelength", defs.TxCodeLength, "Number of digits of the transaction code (PIN).")
	flagSet.Duration("vci.offerttl", defs.OfferTTL, "Time a credential offer can be retrieved by the wallet.")
	flagSet.Duration("vci.accesstokenttl", defs.AccessTokenTTL, "Validity of access tokens issued by the token endpoint.")
	flagSet.String("vci.accesstokenkeyfile", defs.AccessTokenKeyFile, "PEM file containing the EC P-256 private key access tokens are signed with. "+
		"If not set, an ephemeral key is generated (not allowed in strict mode).")
	flagSet.Duration("vci.renewalttl", defs.RenewalTTL, "Time a credential offer can be renewed after the issuance was created.")
	flagSet.Duration("vci.credentialvalidity", defs.CredentialValidity, "Validity of issued credentials, if the credential document doesn't specify validUntil.")
	flagSet.String("vci.templatesdir", defs.TemplatesDir, "Directory containing additional credential templates (<type>.json) and request schemas (<type>.schema.json).")
	flagSet.Duration("vci.expirationinterval", defs.ExpirationInterval, "Interval at which issued credentials past their validity are marked expired.")
	flagSet.Duration("vci.signtimeout", defs.SignTimeout, "Maximum time a single call to the credential signer may take.")
	flagSet.Int("vci.tokenratelimit.limit", defs.TokenRateLimit.Limit, "Number of token requests a client (IP) may do per interval. Set to 0 to disable rate limiting.")
	flagSet.Duration("vci.tokenratelimit.interval", defs.TokenRateLimit.Interval, "Interval of the token endpoint rate limit.")
	flagSet.Int("vci.tokenratelimit.burst", defs.TokenRateLimit.Burst, "Maximum number of token requests a client (IP) may do at once.")

	flagSet.String("vci.signer.type", defs.Signer.Type, "Credential signer, options: "+
		signer.TypeLocal+", "+signer.TypeRemote+", "+signer.TypeVault+", "+signer.TypeAzure+".")
	flagSet.String("vci.signer.local.keyfile", defs.Signer.Local.KeyFile, "PEM file containing the EC P-256 private key credentials are signed with. "+
		"If not set, an ephemeral key is generated (not allowed in strict mode).")
	flagSet.String("vci.signer.remote.url", defs.Signer.Remote.URL, "URL of the remote signing service.")
	flagSet.String("vci.signer.remote.keyid", defs.Signer.Remote.KeyID, "Key ID (kid) of the key used by the remote signing service.")
	flagSet.Bool("vci.signer.remote.synchronous", defs.Signer.Remote.Synchronous, "Whether the remote signing service signs while the wallet waits. "+
		"If false, credentials are always issued deferred and delivered through the signed-credential endpoint.")
	flagSet.Duration("vci.signer.remote.timeout", defs.Signer.Remote.Timeout, "Timeout of requests to the remote signing service.")
	flagSet.String("vci.signer.vault.address", defs.Signer.Vault.Address, "Address of the HashiCorp Vault server. If not set, VAULT_ADDR is used.")
	flagSet.String("vci.signer.vault.token", defs.Signer.Vault.Token, "Token to authenticate to Vault. If not set, VAULT_TOKEN is used.")
	flagSet.String("vci.signer.vault.mount", defs.Signer.Vault.Mount, "Path the Vault transit secrets engine is mounted on.")
	flagSet.String("vci.signer.vault.key", defs.Signer.Vault.Key, "Name of the Vault transit key (type ecdsa-p256).")
	flagSet.Duration("vci.signer.vault.timeout", defs.Signer.Vault.Timeout, "Timeout of requests to Vault.")
	flagSet.String("vci.signer.azure.url", defs.Signer.Azure.URL, "URL of the Azure Key Vault.")
	flagSet.String("vci.signer.azure.key", defs.Signer.Azure.Key, "Name of the key in Azure Key Vault.")
	flagSet.String("vci.signer.azure.version", defs.Signer.Azure.Version, "Version of the key in Azure Key Vault. If not set, the latest version is used.")
	flagSet.Duration("vci.signer.azure.timeout", defs.Signer.Azure.Timeout, "Timeout of requests to Azure Key Vault.")
	flagSet.String("vci.signer.azure.auth", defs.Signer.Azure.Auth, "Credential used to authenticate to Azure Key Vault, options: default, managed_identity.")

	flagSet.String("vci.notification.type", defs.Notification.Type, "Notification sender, options: "+
		notification.TypeLog+", "+notification.TypeWebhook+", "+notification.TypeNATS+". "+
		"The log sender never logs PINs, so it can't be used to deliver them.")
	flagSet.String("vci.notification.webhook.url", defs.Notification.Webhook.URL, "URL notifications are posted to.")
	flagSet.Duration("vci.notification.webhook.timeout", defs.Notification.Webhook.Timeout, "Timeout of a single webhook request.")
	flagSet.Uint("vci.notification.webhook.attempts", defs.Notification.Webhook.Attempts, "Number of attempts to deliver a notification to the webhook.")
	flagSet.Duration("vci.notification.webhook.delay", defs.Notification.Webhook.Delay, "Initial delay between webhook delivery attempts, which increases with every attempt.")
	flagSet.String("vci.notification.nats.url", defs.Notification.NATS.URL, "URL of the NATS server notifications are published to.")
	flagSet.String("vci.notification.nats.subject", defs.Notification.NATS.Subject, "NATS subject notifications are published on.")
	flagSet.Duration("vci.notification.nats.timeout", defs.Notification.NATS.Timeout, "Timeout of connecting and publishing to NATS.")
	return flagSet
}
