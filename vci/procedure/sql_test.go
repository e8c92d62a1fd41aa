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

package procedure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLStore_Create(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		procedure := testProcedure()
		procedure.CredentialStatus = StatusValid

		err := store.Create(ctx, &procedure)

		require.NoError(t, err)
		assert.NotEmpty(t, procedure.ID)
		actual, err := store.Get(ctx, procedure.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, actual.CredentialStatus)
		assert.Nil(t, actual.CredentialEncoded)
		assert.Equal(t, "LEARCredentialEmployee", actual.CredentialType)
	})
	t.Run("duplicate credential ID", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		other := testProcedure()
		other.CredentialID = procedure.CredentialID

		err := store.Create(ctx, &other)

		assert.Error(t, err)
	})
}

func TestSQLStore_Get(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()
	procedure := testProcedure()
	require.NoError(t, store.Create(ctx, &procedure))

	t.Run("by credential ID", func(t *testing.T) {
		actual, err := store.GetByCredentialID(ctx, procedure.CredentialID)

		require.NoError(t, err)
		assert.Equal(t, procedure.ID, actual.ID)
	})
	t.Run("not found", func(t *testing.T) {
		_, err := store.Get(ctx, "unknown")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLStore_List(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()
	draft := testProcedure()
	require.NoError(t, store.Create(ctx, &draft))
	valid := testProcedure()
	require.NoError(t, store.Create(ctx, &valid))
	require.NoError(t, store.MarkValid(ctx, valid.ID, "ey.valid", "jwt_vc_json", time.Now().Add(time.Hour)))

	t.Run("by status", func(t *testing.T) {
		actual, err := store.List(ctx, StatusValid)

		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, valid.ID, actual[0].ID)
	})
	t.Run("all", func(t *testing.T) {
		actual, err := store.List(ctx, "")

		require.NoError(t, err)
		assert.Len(t, actual, 2)
	})
}

func TestSQLStore_transitions(t *testing.T) {
	store, metadataStore := newTestStores(t)
	ctx := context.Background()
	validUntil := time.Now().Add(time.Hour).Truncate(time.Second)

	t.Run("draft -> pending -> valid -> revoked", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		metadata := DeferredCredentialMetadata{ProcedureID: procedure.ID, TransactionCode: procedure.ID + "-code"}
		require.NoError(t, metadataStore.Create(ctx, &metadata))

		require.NoError(t, store.ClaimSigning(ctx, procedure.ID, `{"vc":{}}`, time.Now().Add(time.Minute)))
		actual, _ := store.Get(ctx, procedure.ID)
		assert.Equal(t, StatusPendingSignature, actual.CredentialStatus)
		assert.Equal(t, `{"vc":{}}`, actual.CredentialDecoded)
		assert.Nil(t, actual.CredentialEncoded)
		assert.NotNil(t, actual.SigningLease)

		require.NoError(t, store.MarkValid(ctx, procedure.ID, "ey.signed", "jwt_vc_json", validUntil))
		actual, _ = store.Get(ctx, procedure.ID)
		assert.Equal(t, StatusValid, actual.CredentialStatus)
		require.NotNil(t, actual.CredentialEncoded)
		assert.Equal(t, "ey.signed", *actual.CredentialEncoded)
		assert.Equal(t, validUntil, *actual.ValidUntilTime())
		assert.Nil(t, actual.SigningLease)
		actualMetadata, _ := metadataStore.GetByProcedureID(ctx, procedure.ID)
		require.NotNil(t, actualMetadata.VC)
		assert.Equal(t, "ey.signed", *actualMetadata.VC)
		assert.Equal(t, "jwt_vc_json", *actualMetadata.VCFormat)

		require.NoError(t, store.MarkRevoked(ctx, procedure.ID))
		actual, _ = store.Get(ctx, procedure.ID)
		assert.Equal(t, StatusRevoked, actual.CredentialStatus)
	})
	t.Run("valid can't be signed again", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.MarkValid(ctx, procedure.ID, "ey.first", "jwt_vc_json", validUntil))

		err := store.MarkValid(ctx, procedure.ID, "ey.second", "jwt_vc_json", validUntil)

		test.AssertIsError(t, err, ErrInvalidTransition)
		actual, _ := store.Get(ctx, procedure.ID)
		assert.Equal(t, "ey.first", *actual.CredentialEncoded)
	})
	t.Run("valid never regresses to pending signature", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.MarkValid(ctx, procedure.ID, "ey.first", "jwt_vc_json", validUntil))

		err := store.ClaimSigning(ctx, procedure.ID, "{}", time.Now().Add(time.Minute))

		test.AssertIsError(t, err, ErrInvalidTransition)
	})
	t.Run("draft can't be revoked", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))

		err := store.MarkRevoked(ctx, procedure.ID)

		test.AssertIsError(t, err, ErrInvalidTransition)
	})
	t.Run("unknown procedure", func(t *testing.T) {
		err := store.ClaimSigning(ctx, "unknown", "{}", time.Now().Add(time.Minute))

		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("concurrent signing completes once", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		const attempts = 5
		errs := make(chan error, attempts)
		wg := sync.WaitGroup{}
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.MarkValid(ctx, procedure.ID, "ey.signed", "jwt_vc_json", validUntil)
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestSQLStore_ClaimSigning(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("claimed procedure can't be claimed again", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.ClaimSigning(ctx, procedure.ID, `{"first":true}`, now.Add(time.Minute)))

		err := store.ClaimSigning(ctx, procedure.ID, `{"second":true}`, now.Add(time.Minute))

		assert.ErrorIs(t, err, ErrSigningClaimed)
		actual, _ := store.Get(ctx, procedure.ID)
		assert.Equal(t, `{"first":true}`, actual.CredentialDecoded)
	})
	t.Run("lapsed claim can be taken over", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.ClaimSigning(ctx, procedure.ID, `{"first":true}`, now.Add(-time.Second)))

		err := store.ClaimSigning(ctx, procedure.ID, `{"second":true}`, now.Add(time.Minute))

		require.NoError(t, err)
		actual, _ := store.Get(ctx, procedure.ID)
		assert.Equal(t, `{"second":true}`, actual.CredentialDecoded)
	})
	t.Run("released claim can be taken over", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.ClaimSigning(ctx, procedure.ID, `{"first":true}`, now.Add(time.Minute)))
		require.NoError(t, store.ReleaseSigning(ctx, procedure.ID))

		err := store.ClaimSigning(ctx, procedure.ID, "", now.Add(time.Minute))

		require.NoError(t, err)
		actual, _ := store.Get(ctx, procedure.ID)
		assert.Equal(t, `{"first":true}`, actual.CredentialDecoded)
	})
	t.Run("draft can't be claimed without credential", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))

		err := store.ClaimSigning(ctx, procedure.ID, "", now.Add(time.Minute))

		test.AssertIsError(t, err, ErrInvalidTransition)
	})
	t.Run("concurrent claims have a single owner", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		const attempts = 5
		errs := make(chan error, attempts)
		wg := sync.WaitGroup{}
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- store.ClaimSigning(ctx, procedure.ID, "{}", now.Add(time.Minute))
			}()
		}
		wg.Wait()
		close(errs)

		owners := 0
		for err := range errs {
			if err == nil {
				owners++
			} else {
				assert.ErrorIs(t, err, ErrSigningClaimed)
			}
		}
		assert.Equal(t, 1, owners)
	})
}

func TestSQLStore_DeleteDraft(t *testing.T) {
	store, metadataStore := newTestStores(t)
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		metadata := DeferredCredentialMetadata{ProcedureID: procedure.ID, TransactionCode: procedure.ID + "-code"}
		require.NoError(t, metadataStore.Create(ctx, &metadata))

		err := store.DeleteDraft(ctx, procedure.ID)

		require.NoError(t, err)
		_, err = store.Get(ctx, procedure.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = metadataStore.GetByProcedureID(ctx, procedure.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("signed procedures are kept", func(t *testing.T) {
		procedure := testProcedure()
		require.NoError(t, store.Create(ctx, &procedure))
		require.NoError(t, store.MarkValid(ctx, procedure.ID, "ey.signed", "jwt_vc_json", time.Now().Add(time.Hour)))

		err := store.DeleteDraft(ctx, procedure.ID)

		test.AssertIsError(t, err, ErrInvalidTransition)
		_, err = store.Get(ctx, procedure.ID)
		assert.NoError(t, err)
	})
	t.Run("unknown procedure", func(t *testing.T) {
		err := store.DeleteDraft(ctx, "unknown")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLStore_ExpireOverdue(t *testing.T) {
	store, _ := newTestStores(t)
	ctx := context.Background()
	now := time.Now()

	overdue := testProcedure()
	require.NoError(t, store.Create(ctx, &overdue))
	require.NoError(t, store.MarkValid(ctx, overdue.ID, "ey.overdue", "jwt_vc_json", now.Add(-time.Minute)))
	current := testProcedure()
	require.NoError(t, store.Create(ctx, &current))
	require.NoError(t, store.MarkValid(ctx, current.ID, "ey.current", "jwt_vc_json", now.Add(time.Hour)))
	revoked := testProcedure()
	require.NoError(t, store.Create(ctx, &revoked))
	require.NoError(t, store.MarkValid(ctx, revoked.ID, "ey.revoked", "jwt_vc_json", now.Add(-time.Minute)))
	require.NoError(t, store.MarkRevoked(ctx, revoked.ID))
	draft := testProcedure()
	require.NoError(t, store.Create(ctx, &draft))

	count, err := store.ExpireOverdue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assertStatus(t, store, overdue.ID, StatusExpired)
	assertStatus(t, store, current.ID, StatusValid)
	assertStatus(t, store, revoked.ID, StatusRevoked)
	assertStatus(t, store, draft.ID, StatusDraft)

	t.Run("second sweep is a no-op", func(t *testing.T) {
		count, err := store.ExpireOverdue(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assertStatus(t, store, overdue.ID, StatusExpired)
	})
}

func TestSQLMetadataStore(t *testing.T) {
	store, metadataStore := newTestStores(t)
	ctx := context.Background()
	procedure := testProcedure()
	require.NoError(t, store.Create(ctx, &procedure))
	responseURI := "https://example.com/callback"
	metadata := DeferredCredentialMetadata{
		ProcedureID:     procedure.ID,
		TransactionCode: "code-1",
		ResponseURI:     &responseURI,
	}
	require.NoError(t, metadataStore.Create(ctx, &metadata))
	require.NotEmpty(t, metadata.ID)

	t.Run("bind auth server nonce", func(t *testing.T) {
		require.NoError(t, metadataStore.BindAuthServerNonce(ctx, "code-1", "jti-1"))

		actual, err := metadataStore.GetByAuthServerNonce(ctx, "jti-1")

		require.NoError(t, err)
		assert.Equal(t, procedure.ID, actual.ProcedureID)
		assert.Equal(t, responseURI, *actual.ResponseURI)
	})
	t.Run("assign transaction ID", func(t *testing.T) {
		require.NoError(t, metadataStore.AssignTransactionID(ctx, procedure.ID, "tx-1"))

		actual, err := metadataStore.GetByTransactionID(ctx, "tx-1")

		require.NoError(t, err)
		assert.Equal(t, metadata.ID, actual.ID)
	})
	t.Run("rotate transaction code", func(t *testing.T) {
		require.NoError(t, metadataStore.RotateTransactionCode(ctx, "code-1", "code-2"))

		_, err := metadataStore.GetByTransactionCode(ctx, "code-1")
		assert.ErrorIs(t, err, ErrNotFound)
		actual, err := metadataStore.GetByTransactionCode(ctx, "code-2")
		require.NoError(t, err)
		assert.Equal(t, metadata.ID, actual.ID)
	})
	t.Run("unknown transaction code", func(t *testing.T) {
		err := metadataStore.BindAuthServerNonce(ctx, "unknown", "jti")

		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("delete", func(t *testing.T) {
		require.NoError(t, metadataStore.Delete(ctx, metadata.ID))

		_, err := metadataStore.GetByProcedureID(ctx, procedure.ID)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func newTestStores(t *testing.T) (*SQLStore, *SQLMetadataStore) {
	t.Helper()
	db := storage.NewTestStorageEngine(t).GetSQLDatabase()
	return NewSQLStore(db), NewSQLMetadataStore(db)
}

func testProcedure() CredentialProcedure {
	subject := "jane.doe@example.com"
	return CredentialProcedure{
		CredentialID:           uuid.NewString(),
		CredentialFormat:       "jwt_vc_json",
		CredentialType:         "LEARCredentialEmployee",
		CredentialDecoded:      "{}",
		OrganizationIdentifier: "VATNL-12345678",
		Subject:                &subject,
		OperationMode:          OperationModeSync,
		SignatureMode:          SignatureModeLocal,
	}
}

func assertStatus(t *testing.T, store Store, id string, expected Status) {
	t.Helper()
	actual, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, expected, actual.CredentialStatus)
}
