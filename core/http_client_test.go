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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictHTTPClient(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		userAgent = request.Header.Get("User-Agent")
		writer.WriteHeader(http.StatusTeapot)
		_, _ = writer.Write([]byte("short and stout"))
	}))
	defer server.Close()

	t.Run("strict mode refuses plain HTTP", func(t *testing.T) {
		client := NewStrictHTTPClient(true, time.Second, nil)
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

		_, err := client.Do(req)

		assert.EqualError(t, err, "strictmode is enabled, but request is not over HTTPS")
	})
	t.Run("non-strict mode sets user agent", func(t *testing.T) {
		client := NewStrictHTTPClient(false, time.Second, nil)
		req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

		response, err := client.Do(req)

		require.NoError(t, err)
		assert.Equal(t, UserAgent(), userAgent)
		err = TestResponseCode(http.StatusOK, response)
		var httpErr HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusTeapot, httpErr.StatusCode)
		assert.Equal(t, "short and stout", string(httpErr.ResponseBody))
	})
}
