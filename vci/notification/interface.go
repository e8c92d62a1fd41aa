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

package notification

import (
	"context"
	"errors"
	"time"
)

// EventType is the kind of notification.
type EventType string

const (
	// EventPIN notifies the recipient of a credential offer and its transaction code (PIN).
	EventPIN EventType = "pin"
	// EventCredentialSigned notifies that the credential of a procedure was signed and can be retrieved.
	EventCredentialSigned EventType = "credential_signed"
)

// Event is a notification about a credential procedure.
type Event struct {
	Type           EventType `json:"type"`
	ProcedureID    string    `json:"procedure_id"`
	CredentialType string    `json:"credential_type"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	// PIN is the transaction code the recipient must enter in the wallet. It's only set for EventPIN and must never be logged.
	PIN string `json:"pin,omitempty"`
	// CredentialOfferURI is the deep-link of the credential offer, set for EventPIN.
	CredentialOfferURI string `json:"credential_offer_uri,omitempty"`
	// RenewalCode can be used to renew an expired credential offer, set for EventPIN.
	RenewalCode string `json:"renewal_code,omitempty"`
	// ResponseURI is the callback registered for the procedure, set for EventCredentialSigned.
	ResponseURI string    `json:"response_uri,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ErrDeliveryFailed is returned when a notification could not be delivered.
var ErrDeliveryFailed = errors.New("unable to deliver notification")

// Sender delivers notifications, e.g. to an e-mail gateway.
type Sender interface {
	// Notify delivers the event. It returns an error if the event couldn't be delivered.
	Notify(ctx context.Context, event Event) error
}
