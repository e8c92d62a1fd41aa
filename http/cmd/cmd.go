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
	"fmt"

	"github.com/nuts-foundation/nuts-issuer/http"
	"github.com/spf13/pflag"
)

// FlagSet defines the set of flags that sets the engine configuration
func FlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("http", pflag.ContinueOnError)

	defs := http.DefaultConfig()
	flags.String("http.internal.address", defs.Internal.Address, "Address and port the server will be listening to for internal-facing endpoints (/internal and /metrics).")
	flags.String("http.public.address", defs.Public.Address, "Address and port the server will be listening to for public-facing endpoints (credential offer, token, credential).")
	flags.StringSlice("http.public.cors.origin", defs.Public.CORS.Origin, "When set, enables CORS on the public interface for the given origins.")
	flags.String("http.clientipheader", defs.ClientIPHeader, "Header set by a reverse proxy holding the client IP, used for logging and rate limiting. Leave empty to use the remote address of the connection.")
	flags.Duration("http.responsetimeout", defs.ResponseTimeout, "Maximum time a request may take to be handled, e.g. while waiting for a remote signer.")
	flags.String("http.log", string(defs.Log), fmt.Sprintf("What to log about HTTP requests. Options are '%s', '%s' (log request method, URI, IP and response code), and '%s' (log the request and response body, in addition to the metadata). Form-encoded bodies are never logged.", http.LogNothingLevel, http.LogMetadataLevel, http.LogMetadataAndBodyLevel))

	return flags
}
