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
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures a token bucket per client.
type RateLimitConfig struct {
	// Limit is the number of requests per Interval.
	Limit int `koanf:"limit"`
	// Interval is the time in which Limit requests are allowed.
	Interval time.Duration `koanf:"interval"`
	// Burst is the maximum number of requests allowed at once.
	Burst int `koanf:"burst"`
}

// Enabled returns whether rate limiting is configured.
func (r RateLimitConfig) Enabled() bool {
	return r.Limit > 0 && r.Interval > 0
}

var _ middleware.RateLimiterStore = (*clientRateLimiterStore)(nil)

// clientRateLimiterStore holds a token bucket per client identifier. Buckets of clients that haven't been seen
// for a while are dropped.
type clientRateLimiterStore struct {
	limit     rate.Limit
	burst     int
	expiresIn time.Duration
	mux       sync.Mutex
	clients   map[string]*clientLimiter
	lastPrune time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientRateLimiterStore(config RateLimitConfig) *clientRateLimiterStore {
	// e.g. 10 requests a minute: rate.Every(6s)
	expiresIn := config.Interval
	if expiresIn < time.Minute {
		expiresIn = time.Minute
	}
	return &clientRateLimiterStore{
		limit:     rate.Every(config.Interval / time.Duration(config.Limit)),
		burst:     config.Burst,
		expiresIn: expiresIn,
		clients:   map[string]*clientLimiter{},
		now:       time.Now,
	}
}

// Allow checks whether the client with the given identifier has tokens left in its bucket.
func (s *clientRateLimiterStore) Allow(identifier string) (bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	now := s.now()
	client, ok := s.clients[identifier]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[identifier] = client
	}
	client.lastSeen = now
	if now.Sub(s.lastPrune) > s.expiresIn {
		for id, curr := range s.clients {
			if now.Sub(curr.lastSeen) > s.expiresIn {
				delete(s.clients, id)
			}
		}
		s.lastPrune = now
	}
	return client.limiter.AllowN(now, 1), nil
}

// NewRateLimiter creates echo middleware that limits requests to the given paths per client IP.
// Paths are matched against the router path, so paths may contain variables.
func NewRateLimiter(config RateLimitConfig, paths ...string) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		// Returning true means skipping the middleware
		Skipper: func(c echo.Context) bool {
			for _, path := range paths {
				if c.Path() == path {
					return false
				}
			}
			return true
		},
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return &echo.HTTPError{
				Code:     middleware.ErrExtractorError.Code,
				Message:  middleware.ErrExtractorError.Message,
				Internal: err,
			}
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return &echo.HTTPError{
				Code:     middleware.ErrRateLimitExceeded.Code,
				Message:  middleware.ErrRateLimitExceeded.Message,
				Internal: err,
			}
		},
		Store: newClientRateLimiterStore(config),
	})
}
