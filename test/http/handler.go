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

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// Handler is a custom http handler useful in testing.
// Usage:
//
//	s := httptest.NewServer(&Handler{StatusCode: http.StatusOK, ResponseData: someStruct})
//
// Then s.URL must be configured in the client.
// When StatusCodes is set, the n-th call gets the n-th status code (the last one repeating), which allows testing retries.
type Handler struct {
	Request        *http.Request
	RequestHeaders http.Header
	StatusCode     int
	StatusCodes    []int
	RequestData    []byte
	ResponseData   interface{}
	ResponseHeader http.Header

	mux   sync.Mutex
	calls int
}

// Calls returns the number of requests handled.
func (h *Handler) Calls() int {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.calls
}

func (h *Handler) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.Request = req
	h.RequestData, _ = io.ReadAll(req.Body)
	h.RequestHeaders = req.Header.Clone()

	statusCode := h.StatusCode
	if len(h.StatusCodes) > 0 {
		idx := h.calls
		if idx >= len(h.StatusCodes) {
			idx = len(h.StatusCodes) - 1
		}
		statusCode = h.StatusCodes[idx]
	}
	h.calls++

	var bytes []byte
	if s, ok := h.ResponseData.(string); ok {
		bytes = []byte(s)
	} else if h.ResponseData != nil {
		writer.Header().Add("Content-Type", "application/json")
		bytes, _ = json.Marshal(h.ResponseData)
	}

	for k, v := range h.ResponseHeader {
		writer.Header().Add(k, v[0])
	}
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(bytes)
}
