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
	"errors"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// requestLoggerMiddleware returns middleware that logs metadata of HTTP requests.
// Should be added as the outer middleware to catch all errors and potential status rewrites
func requestLoggerMiddleware(skipper middleware.Skipper, logger *logrus.Entry) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:     skipper,
		LogURIPath:  true,
		LogStatus:   true,
		LogMethod:   true,
		LogRemoteIP: true,
		LogError:    true,
		LogLatency:  true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			status := values.Status
			if values.Error != nil {
				// In case the error provides `func StatusCode() int`
				// (e.g. core.HTTPStatusCodeError)
				var statusCodeErr interface{ StatusCode() int }
				var httpErr *echo.HTTPError
				if errors.As(values.Error, &statusCodeErr) {
					status = statusCodeErr.StatusCode()
				} else if errors.As(values.Error, &httpErr) {
					status = httpErr.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			// query parameters are not logged, since they may contain codes
			logger.WithFields(logrus.Fields{
				"remote_ip": values.RemoteIP,
				"method":    values.Method,
				"uri":       values.URIPath,
				"status":    status,
				"latency":   values.Latency.String(),
			}).Info("HTTP request")

			return nil
		},
	})
}

// bodyLoggerMiddleware returns middleware that logs body of HTTP requests and their replies.
// Form-encoded bodies are never logged, since token requests carry pre-authorized codes and PINs.
func bodyLoggerMiddleware(skipper middleware.Skipper, logger *logrus.Entry) echo.MiddlewareFunc {
	return middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Handler: func(e echo.Context, request []byte, response []byte) {
			requestContentType := e.Request().Header.Get("Content-Type")
			requestBody := "(not loggable: " + requestContentType + ")"
			if isLoggableContentType(requestContentType) {
				requestBody = string(request)
			}

			responseContentType := e.Response().Header().Get("Content-Type")
			responseBody := "(not loggable: " + responseContentType + ")"
			if isLoggableContentType(responseContentType) {
				responseBody = string(response)
			}

			logger.Infof("HTTP request body: %s", requestBody)
			logger.Infof("HTTP response body: %s", responseBody)
		},
		Skipper: skipper,
	})
}

func isLoggableContentType(contentType string) bool {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json", "application/problem+json":
		return true
	}
	return false
}
