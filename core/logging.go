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

package core

const (
	// LogFieldModule is the log field for the module name.
	LogFieldModule = "module"
	// LogFieldOperation is the log field for the name of the HTTP operation being handled.
	LogFieldOperation = "operation"

	// LogFieldProcedureID is the log field key for the ID of a credential procedure.
	LogFieldProcedureID = "procedureID"
	// LogFieldProcessID is the log field key for the correlation ID of a single protocol exchange.
	LogFieldProcessID = "processID"
	// LogFieldCredentialID is the log field key for the business-level ID of a Verifiable Credential.
	LogFieldCredentialID = "credentialID"
	// LogFieldCredentialType is the log field key for the type of a Verifiable Credential.
	LogFieldCredentialType = "credentialType"
	// LogFieldCredentialStatus is the log field key for the status of a credential procedure.
	LogFieldCredentialStatus = "credentialStatus"
	// LogFieldTransactionID is the log field key for the deferred issuance transaction ID.
	LogFieldTransactionID = "transactionID"
	// LogFieldOrganization is the log field key for the organization identifier of a credential procedure.
	LogFieldOrganization = "organization"

	// LogFieldStore is the log field key for the name of a store managed by the storage module.
	LogFieldStore = "store"
	// LogFieldKeyID is the log field key for the ID of a signing key.
	LogFieldKeyID = "keyID"
	// LogFieldSignerType is the log field key for the type of signer in use.
	LogFieldSignerType = "signer"
)
