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
	"errors"
	"testing"
	"time"

	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestScheduler_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("expires overdue credentials", func(t *testing.T) {
		db := storage.NewTestStorageEngine(t).GetSQLDatabase()
		store := procedure.NewSQLStore(db)
		overdue := procedure.CredentialProcedure{CredentialID: "urn:uuid:1", CredentialFormat: "jwt_vc_json", CredentialDecoded: "{}"}
		current := procedure.CredentialProcedure{CredentialID: "urn:uuid:2", CredentialFormat: "jwt_vc_json", CredentialDecoded: "{}"}
		require.NoError(t, store.Create(ctx, &overdue))
		require.NoError(t, store.Create(ctx, &current))
		require.NoError(t, store.MarkValid(ctx, overdue.ID, "ey..1", "jwt_vc_json", time.Now().Add(-time.Minute)))
		require.NoError(t, store.MarkValid(ctx, current.ID, "ey..2", "jwt_vc_json", time.Now().Add(time.Hour)))
		expired := prometheus.NewCounter(prometheus.CounterOpts{Name: "expired"})

		NewScheduler(store, time.Minute).WithMetrics(expired).Run(ctx)

		actual, err := store.Get(ctx, overdue.ID)
		require.NoError(t, err)
		assert.Equal(t, procedure.StatusExpired, actual.CredentialStatus)
		actual, err = store.Get(ctx, current.ID)
		require.NoError(t, err)
		assert.Equal(t, procedure.StatusValid, actual.CredentialStatus)
		assert.Equal(t, 1.0, testutil.ToFloat64(expired))
	})
	t.Run("partial failure is counted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := procedure.NewMockStore(ctrl)
		store.EXPECT().ExpireOverdue(gomock.Any(), gomock.Any()).Return(2, errors.New("database is locked"))
		expired := prometheus.NewCounter(prometheus.CounterOpts{Name: "expired"})

		NewScheduler(store, time.Minute).WithMetrics(expired).Run(ctx)

		assert.Equal(t, 2.0, testutil.ToFloat64(expired))
	})
}

func TestScheduler_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctrl := gomock.NewController(t)
	store := procedure.NewMockStore(ctrl)
	runs := make(chan struct{}, 10)
	store.EXPECT().ExpireOverdue(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ time.Time) (int, error) {
		select {
		case runs <- struct{}{}:
		default:
		}
		return 0, nil
	}).MinTimes(2)
	scheduler := NewScheduler(store, 10*time.Millisecond)

	scheduler.Start()
	<-runs
	<-runs
	scheduler.Stop()
	scheduler.Stop()
}
