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
	"errors"
	"fmt"

	"github.com/nuts-foundation/nuts-issuer/core"
)

// New creates the Sender selected by the configuration.
func New(config Config, strictmode bool) (Sender, error) {
	switch config.Type {
	case TypeLog:
		return LogSender{}, nil
	case TypeWebhook:
		if config.Webhook.URL == "" {
			return nil, errors.New("notification webhook URL not configured")
		}
		return NewWebhookSender(config.Webhook, core.NewStrictHTTPClient(strictmode, config.Webhook.Timeout, nil)), nil
	case TypeNATS:
		return NewNATSSender(config.NATS)
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", config.Type)
	}
}
