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
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/http/log"
)

const moduleName = "HTTP"

// InternalPath is the first path segment of all operator-facing endpoints.
const InternalPath = "/internal"

// MetricsPath is the path on which metrics are exposed. It is bound to the internal interface.
const MetricsPath = "/metrics"

const shutdownTimeout = 10 * time.Second

// New returns a new HTTP engine. The callback is called when an HTTP interface shuts down unexpectedly.
func New(serverShutdownCb func()) *Engine {
	return &Engine{
		serverShutdownCb: serverShutdownCb,
		config:           DefaultConfig(),
	}
}

// Engine is the HTTP engine.
type Engine struct {
	server           *MultiEcho
	serverShutdownCb func()
	config           Config
}

// Router returns the router of the HTTP engine, which can be used by other engines to register HTTP handlers.
func (h Engine) Router() core.EchoRouter {
	return h.server
}

// Configure loads the configuration for the HTTP engine.
func (h *Engine) Configure(serverConfig core.ServerConfig) error {
	h.server = NewMultiEcho()
	binds := []struct {
		path    string
		address string
	}{
		{path: RootPath, address: h.config.Public.Address},
		{path: InternalPath, address: h.config.Internal.Address},
		{path: MetricsPath, address: h.config.Internal.Address},
	}
	for _, bind := range binds {
		log.Logger().Infof("Binding %s -> %s", bind.path, bind.address)
		if err := h.server.Bind(bind.path, bind.address, func() (EchoServer, error) {
			return h.createEchoServer(), nil
		}); err != nil {
			return err
		}
	}
	return h.applyMiddleware(serverConfig)
}

func (h *Engine) createEchoServer() *echoAdapter {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Server.ReadHeaderTimeout = h.config.ResponseTimeout

	// ErrorHandler
	echoServer.HTTPErrorHandler = core.CreateHTTPErrorHandler()
	echoServer.IPExtractor = ipExtractor(h.config.ClientIPHeader)

	return &echoAdapter{
		startFn:    echoServer.Start,
		shutdownFn: echoServer.Shutdown,
		addFn:      echoServer.Add,
		useFn:      echoServer.Use,
	}
}

// ipExtractor returns an echo.IPExtractor that takes the client IP from the given header, as set by a reverse proxy.
// If no header is configured, the IP of the remote end of the connection is used.
func ipExtractor(header string) echo.IPExtractor {
	switch strings.ToLower(header) {
	case "":
		return echo.ExtractIPDirect()
	case "x-forwarded-for":
		return echo.ExtractIPFromXFFHeader()
	}
	direct := echo.ExtractIPDirect()
	return func(request *http.Request) string {
		// header may contain a list of proxies, the client is the first one
		value := strings.TrimSpace(strings.Split(request.Header.Get(header), ",")[0])
		if ip := net.ParseIP(value); ip != nil {
			return ip.String()
		}
		return direct(request)
	}
}

// Name returns the name of the engine.
func (h *Engine) Name() string {
	return moduleName
}

// Config returns the configuration of the HTTP engine.
func (h *Engine) Config() interface{} {
	return &h.config
}

// Start starts the HTTP engine.
func (h *Engine) Start() error {
	go func(server *MultiEcho, cancel func()) {
		if err := server.Start(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Logger().
					WithError(err).
					Error("HTTP server stopped due to error")
			}
		}
		cancel()
	}(h.server, h.serverShutdownCb)
	return nil
}

// Shutdown shuts down the HTTP engine.
func (h *Engine) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

// decodeURIPath is echo middleware that decodes path parameters
func decodeURIPath(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// FIXME: This is a hack because of https://github.com/labstack/echo/issues/1258
		newValues := make([]string, len(c.ParamValues()))
		for i, value := range c.ParamValues() {
			path, err := url.PathUnescape(value)
			if err != nil {
				path = value
			}
			newValues[i] = path
		}
		c.SetParamNames(c.ParamNames()...)
		c.SetParamValues(newValues...)
		return next(c)
	}
}

// matchesPath checks whether the request URI path hierarchically matches the given path.
// Examples:
// / matches /
// /foo matches /
// /foo/ matches /
// /foo/bla matches /
// /foo/bla does not match /bla
func matchesPath(requestURI string, path string) bool {
	if path == "/" {
		return true
	}
	if idx := strings.IndexByte(requestURI, '?'); idx >= 0 {
		requestURI = requestURI[:idx]
	}
	if !strings.HasSuffix(requestURI, "/") {
		requestURI += "/"
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return requestURI == path || strings.HasPrefix(requestURI, path)
}

func (h Engine) applyMiddleware(serverConfig core.ServerConfig) error {
	// Use middleware to decode URL encoded path parameters like a%2Fb -> a/b
	h.server.Use(decodeURIPath)

	if h.config.ResponseTimeout > 0 {
		h.server.Use(middleware.ContextTimeout(h.config.ResponseTimeout))
	}

	// Logging, skip scrapes of /metrics and /health
	loggerSkipper := func(c echo.Context) bool {
		for _, excludePath := range []string{MetricsPath, "/health"} {
			if matchesPath(c.Request().RequestURI, excludePath) {
				return true
			}
		}
		return false
	}
	if h.config.Log != LogNothingLevel {
		h.server.Use(requestLoggerMiddleware(loggerSkipper, log.Logger()))
	}
	if h.config.Log == LogMetadataAndBodyLevel {
		h.server.Use(bodyLoggerMiddleware(loggerSkipper, log.Logger()))
	}

	// CORS only applies to the public interface, wallets running in a browser call it.
	cors := h.config.Public.CORS
	if cors.Enabled() {
		log.Logger().Infof("Enabling CORS for HTTP endpoint: %s", h.config.Public.Address)
		if serverConfig.Strictmode {
			for _, origin := range cors.Origin {
				if strings.TrimSpace(origin) == "*" {
					return errors.New("wildcard CORS origin is not allowed in strict mode")
				}
			}
		}
		h.server.getInterface(RootPath).Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cors.Origin,
			Skipper: func(c echo.Context) bool {
				return matchesPath(c.Request().RequestURI, InternalPath) || matchesPath(c.Request().RequestURI, MetricsPath)
			},
		}))
	}
	return nil
}
