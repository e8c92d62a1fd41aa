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
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nuts-foundation/nuts-issuer/core"
)

var _ Sender = (*NATSSender)(nil)

// publisher is implemented by nats.Conn.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSSender publishes notifications as JSON on a NATS subject.
type NATSSender struct {
	conn    publisher
	close   func()
	subject string
}

// NewNATSSender connects to the NATS server and creates a new NATSSender.
func NewNATSSender(config NATSConfig) (*NATSSender, error) {
	conn, err := nats.Connect(config.URL,
		nats.Name("nuts-issuer"),
		nats.RetryOnFailedConnect(true),
		nats.Timeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS (url=%s): %w", config.URL, err)
	}
	return &NATSSender{conn: conn, close: conn.Close, subject: config.Subject}, nil
}

func (n *NATSSender) Notify(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err = n.conn.Publish(n.subject+"."+string(event.Type), data); err != nil {
		return core.WrapError(ErrDeliveryFailed, err)
	}
	if err = n.conn.FlushWithContext(ctx); err != nil {
		return core.WrapError(ErrDeliveryFailed, err)
	}
	return nil
}

// Close closes the NATS connection.
func (n *NATSSender) Close() {
	if n.close != nil {
		n.close()
	}
}
