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

	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
)

var _ Sender = (*LogSender)(nil)

// LogSender writes notifications to the log. The PIN is never logged.
type LogSender struct{}

func (l LogSender) Notify(_ context.Context, event Event) error {
	log.Logger().
		WithField(core.LogFieldProcedureID, event.ProcedureID).
		WithField(core.LogFieldCredentialType, event.CredentialType).
		WithField("event", event.Type).
		Info("Notification (PIN and offer omitted)")
	return nil
}
