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

package expiration

import (
	"context"
	"sync"
	"time"

	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Expirer moves procedures whose credential passed its validUntil to EXPIRED.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler periodically expires overdue credentials.
type Scheduler struct {
	expirer  Expirer
	interval time.Duration
	expired  prometheus.Counter
	cancel   context.CancelFunc
	routines *sync.WaitGroup
}

// NewScheduler creates a new Scheduler that runs every interval, once started.
func NewScheduler(expirer Expirer, interval time.Duration) *Scheduler {
	return &Scheduler{
		expirer:  expirer,
		interval: interval,
		routines: new(sync.WaitGroup),
	}
}

// WithMetrics makes the scheduler count the credentials it expired.
func (s *Scheduler) WithMetrics(expired prometheus.Counter) *Scheduler {
	s.expired = expired
	return s
}

// Start runs the scheduler in the background, until Stop is called. The first run is immediate.
func (s *Scheduler) Start() {
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.routines.Add(1)
	go func() {
		defer s.routines.Done()
		s.loop(ctx)
	}()
}

// Stop stops the scheduler and waits for a running expiration to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.routines.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

// Run expires overdue credentials once. Failures are logged; the next run retries.
func (s *Scheduler) Run(ctx context.Context) {
	count, err := s.expirer.ExpireOverdue(ctx, time.Now())
	if count > 0 {
		if s.expired != nil {
			s.expired.Add(float64(count))
		}
		log.Logger().Infof("Expired %d credential(s)", count)
	}
	if err != nil && ctx.Err() == nil {
		log.Logger().WithError(err).Error("Failed to expire overdue credentials")
	}
}
