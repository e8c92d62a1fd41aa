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

package http

import "time"

// DefaultConfig returns the default configuration for the HTTP engine.
func DefaultConfig() Config {
	return Config{
		Log:            LogMetadataLevel,
		ClientIPHeader: "X-Forwarded-For",
		Public: PublicConfig{
			Address: ":8080",
		},
		Internal: InternalConfig{
			Address: "127.0.0.1:8081",
		},
		ResponseTimeout: 30 * time.Second,
	}
}

// Config is the top-level config struct for HTTP interfaces.
type Config struct {
	// Log specifies what should be logged of HTTP requests.
	Log LogLevel `koanf:"log"`
	// ClientIPHeader specifies the header holding the client IP, as set by a reverse proxy. Used for logging and rate limiting.
	ClientIPHeader string `koanf:"clientipheader"`
	// Public contains the config for the interface serving wallets (protocol endpoints, metadata).
	Public PublicConfig `koanf:"public"`
	// Internal contains the config for the interface serving operators and back-office systems (/internal, /metrics).
	Internal InternalConfig `koanf:"internal"`
	// ResponseTimeout bounds the time a request handler may take.
	ResponseTimeout time.Duration `koanf:"responsetimeout"`
}

// PublicConfig contains the configuration of the public HTTP interface.
type PublicConfig struct {
	// Address holds the interface address the HTTP service must be bound to, in the format of `interface:port` (e.g. localhost:5555).
	Address string `koanf:"address"`
	// CORS holds the configuration for Cross Origin Resource Sharing.
	CORS CORSConfig `koanf:"cors"`
}

// InternalConfig contains the configuration of the internal HTTP interface.
type InternalConfig struct {
	// Address holds the interface address the HTTP service must be bound to, in the format of `interface:port` (e.g. localhost:5555).
	Address string `koanf:"address"`
}

// LogLevel specifies what to log for incoming/outgoing HTTP traffic.
type LogLevel string

const (
	// LogNothingLevel indicates nothing will be logged for incoming/outgoing HTTP traffic.
	LogNothingLevel LogLevel = "nothing"
	// LogMetadataLevel indicates that only metadata (HTTP URI, method, response code, etc) will be logged for incoming/outgoing HTTP traffic.
	LogMetadataLevel LogLevel = "metadata"
	// LogMetadataAndBodyLevel indicates that metadata and full request/reply bodies will be logged for incoming/outgoing HTTP traffic.
	LogMetadataAndBodyLevel LogLevel = "metadata-and-body"
)

// CORSConfig contains configuration for Cross Origin Resource Sharing.
type CORSConfig struct {
	// Origin specifies the AllowOrigin option. If no origins are given CORS is considered to be disabled.
	Origin []string `koanf:"origin"`
}

// Enabled returns whether CORS is enabled according to this configuration.
func (cors CORSConfig) Enabled() bool {
	return len(cors.Origin) > 0
}
