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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinURLPaths(t *testing.T) {
	assert.Equal(t, "https://issuer.nuts.nl/credential-offer/abc", JoinURLPaths("https://issuer.nuts.nl/", "/credential-offer", "abc"))
	assert.Equal(t, "https://issuer.nuts.nl", JoinURLPaths("https://issuer.nuts.nl", ""))
	assert.Equal(t, "", JoinURLPaths())
}

func TestParsePublicURL(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		parsed, err := ParsePublicURL("https://issuer.nuts.nl", true)
		assert.NoError(t, err)
		assert.Equal(t, "issuer.nuts.nl", parsed.Host)
	})
	t.Run("missing scheme", func(t *testing.T) {
		_, err := ParsePublicURL("issuer.nuts.nl", false)
		assert.EqualError(t, err, "URL missing scheme")
	})
	t.Run("strict mode", func(t *testing.T) {
		_, err := ParsePublicURL("http://issuer.nuts.nl", true)
		assert.EqualError(t, err, "scheme must be https")
		_, err = ParsePublicURL("https://127.0.0.1", true)
		assert.EqualError(t, err, "hostname is IP")
		_, err = ParsePublicURL("https://localhost", true)
		assert.EqualError(t, err, "hostname is reserved")
		_, err = ParsePublicURL("https://issuer.example.com", true)
		assert.EqualError(t, err, "hostname is reserved")
	})
	t.Run("non-strict mode allows localhost", func(t *testing.T) {
		_, err := ParsePublicURL("http://localhost:8080", false)
		assert.NoError(t, err)
	})
}
