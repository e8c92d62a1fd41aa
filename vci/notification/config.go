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

import "time"

const (
	// TypeLog writes notifications to the log (PINs excluded), for development.
	TypeLog = "log"
	// TypeWebhook posts notifications to an HTTP endpoint.
	TypeWebhook = "webhook"
	// TypeNATS publishes notifications on a NATS subject.
	TypeNATS = "nats"
)

// Config selects and configures the notification sender.
type Config struct {
	Type    string        `koanf:"type"`
	Webhook WebhookConfig `koanf:"webhook"`
	NATS    NATSConfig    `koanf:"nats"`
}

// WebhookConfig configures the webhook sender.
type WebhookConfig struct {
	URL      string        `koanf:"url"`
	Timeout  time.Duration `koanf:"timeout"`
	Attempts uint          `koanf:"attempts"`
	Delay    time.Duration `koanf:"delay"`
}

// NATSConfig configures the NATS sender.
type NATSConfig struct {
	URL     string        `koanf:"url"`
	Subject string        `koanf:"subject"`
	Timeout time.Duration `koanf:"timeout"`
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() Config {
	return Config{
		Type: TypeLog,
		Webhook: WebhookConfig{
			Timeout:  5 * time.Second,
			Attempts: 5,
			Delay:    time.Second,
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "nuts.issuer.notifications",
			Timeout: 5 * time.Second,
		},
	}
}
