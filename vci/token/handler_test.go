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

package token

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/test"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/preauth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuer = "https://issuer.example.com"

type stubBinder struct {
	mux      sync.Mutex
	tokenIDs map[string]string
	err      error
}

func (s *stubBinder) BindAccessToken(_ context.Context, credentialID string, tokenID string) (string, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if s.tokenIDs == nil {
		s.tokenIDs = map[string]string{}
	}
	s.tokenIDs[credentialID] = tokenID
	return "procedure-" + credentialID, nil
}

type testContext struct {
	handler  *Handler
	codes    *preauth.Service
	binder   *stubBinder
	redeemed *prometheus.CounterVec
}

func newTestContext(t *testing.T, sessions storage.SessionDatabase) testContext {
	key, err := crypto.GenerateECKey()
	require.NoError(t, err)
	codes := preauth.NewService(sessions, time.Minute, 5)
	binder := &stubBinder{}
	handler, err := NewHandler(issuer, key, codes, binder, sessions, 10*time.Minute)
	require.NoError(t, err)
	redeemed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "redeemed"}, []string{"result"})
	handler.WithMetrics(redeemed)
	return testContext{handler: handler, codes: codes, binder: binder, redeemed: redeemed}
}

func (c testContext) grant(t *testing.T, credentialID string) *openid4vci.Grant {
	grant, err := c.codes.Generate(context.Background(), "process", func(_ context.Context) (string, error) {
		return credentialID, nil
	})
	require.NoError(t, err)
	return grant
}

func TestHandler_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		grant := c.grant(t, "cred-1")

		response, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)

		require.NoError(t, err)
		assert.Equal(t, openid4vci.TokenTypeBearer, response.TokenType)
		assert.Equal(t, 600, response.ExpiresIn)
		assert.NotEmpty(t, response.CNonce)
		assert.Equal(t, 600, response.CNonceExpiresIn)
		claims, err := c.handler.Validate(response.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "procedure-cred-1", claims.ProcedureID)
		assert.Equal(t, c.binder.tokenIDs["cred-1"], claims.TokenID)
		assert.Equal(t, 1.0, testutil.ToFloat64(c.redeemed.WithLabelValues("success")))
		t.Run("c_nonce is bound to the access token", func(t *testing.T) {
			assert.NoError(t, c.handler.ConsumeCNonce(response.CNonce, claims.TokenID))
		})
	})
	t.Run("second redemption fails", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		grant := c.grant(t, "cred-1")
		_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)
		require.NoError(t, err)

		response, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)

		assert.Nil(t, response)
		test.AssertErrorCode(t, err, "pre-authorized_code is expired or used")
		assert.Equal(t, 1.0, testutil.ToFloat64(c.redeemed.WithLabelValues("rejected")))
	})
	t.Run("wrong tx_code consumes the code", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		grant := c.grant(t, "cred-1")

		_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, "00000")
		assert.ErrorIs(t, err, openid4vci.ErrExpiredPreAuthorizedCode)
		_, err = c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)
		assert.ErrorIs(t, err, openid4vci.ErrExpiredPreAuthorizedCode)
		assert.Empty(t, c.binder.tokenIDs)
	})
	t.Run("wrong tx_code and unknown code are indistinguishable", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		grant := c.grant(t, "cred-1")

		_, wrongPIN := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, "00000")
		_, unknownCode := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, "ABC123", "54321")

		assert.Equal(t, wrongPIN, unknownCode)
	})
	t.Run("expired code", func(t *testing.T) {
		sessions, redisServer := storage.NewTestRedisSessionDatabase(t)
		c := newTestContext(t, sessions)
		grant := c.grant(t, "cred-1")

		redisServer.FastForward(2 * time.Minute)
		_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)

		assert.ErrorIs(t, err, openid4vci.ErrExpiredPreAuthorizedCode)
	})
	t.Run("unsupported grant type", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		grant := c.grant(t, "cred-1")

		_, err := c.handler.Redeem(ctx, "authorization_code", grant.PreAuthorizedCode, grant.PIN)

		test.AssertErrorCode(t, err, "unsupported_grant_type")
		t.Run("code is not consumed", func(t *testing.T) {
			_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)
			assert.NoError(t, err)
		})
	})
	t.Run("binding fails", func(t *testing.T) {
		c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))
		c.binder.err = errors.New("database is down")
		grant := c.grant(t, "cred-1")

		_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)

		assert.EqualError(t, err, "unable to bind access token: database is down")
	})
	t.Run("concurrent redemption succeeds once", func(t *testing.T) {
		sessions, _ := storage.NewTestRedisSessionDatabase(t)
		c := newTestContext(t, sessions)
		grant := c.grant(t, "cred-1")

		const attempts = 10
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.handler.Redeem(ctx, openid4vci.PreAuthorizedCodeGrant, grant.PreAuthorizedCode, grant.PIN)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, openid4vci.ErrExpiredPreAuthorizedCode)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestHandler_Validate(t *testing.T) {
	c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))

	t.Run("missing", func(t *testing.T) {
		_, err := c.handler.Validate("")

		test.AssertErrorCode(t, err, "invalid_token")
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := c.handler.Validate("not-a-jwt")

		test.AssertErrorCode(t, err, "invalid_token")
	})
	t.Run("signed by other key", func(t *testing.T) {
		otherKey, _ := crypto.GenerateECKey()
		token, _ := jwt.NewBuilder().Issuer(issuer).Subject("p").JwtID("j").Expiration(time.Now().Add(time.Minute)).Build()
		signed, _ := jwt.Sign(token, jwt.WithKey(jwa.ES256, otherKey))

		_, err := c.handler.Validate(string(signed))

		test.AssertErrorCode(t, err, "invalid_token")
	})
	t.Run("expired", func(t *testing.T) {
		token, _ := jwt.NewBuilder().Issuer(issuer).Subject("p").JwtID("j").Expiration(time.Now().Add(-time.Minute)).Build()
		signed, _ := jwt.Sign(token, jwt.WithKey(jwa.ES256, c.handler.key))

		_, err := c.handler.Validate(string(signed))

		test.AssertErrorCode(t, err, "invalid_token")
	})
	t.Run("other issuer", func(t *testing.T) {
		token, _ := jwt.NewBuilder().Issuer("https://other.example.com").Subject("p").JwtID("j").Expiration(time.Now().Add(time.Minute)).Build()
		signed, _ := jwt.Sign(token, jwt.WithKey(jwa.ES256, c.handler.key))

		_, err := c.handler.Validate(string(signed))

		test.AssertErrorCode(t, err, "invalid_token")
	})
	t.Run("without jti", func(t *testing.T) {
		token, _ := jwt.NewBuilder().Issuer(issuer).Subject("p").Expiration(time.Now().Add(time.Minute)).Build()
		signed, _ := jwt.Sign(token, jwt.WithKey(jwa.ES256, c.handler.key))

		_, err := c.handler.Validate(string(signed))

		test.AssertErrorCode(t, err, "invalid_token")
	})
}

func TestHandler_ConsumeCNonce(t *testing.T) {
	c := newTestContext(t, storage.NewTestInMemorySessionDatabase(t))

	t.Run("ok, only once", func(t *testing.T) {
		nonce, err := c.handler.NewCNonce("token-1")
		require.NoError(t, err)

		assert.NoError(t, c.handler.ConsumeCNonce(nonce, "token-1"))
		assert.ErrorIs(t, c.handler.ConsumeCNonce(nonce, "token-1"), ErrNonceMismatch)
	})
	t.Run("issued for other token", func(t *testing.T) {
		nonce, err := c.handler.NewCNonce("token-1")
		require.NoError(t, err)

		assert.ErrorIs(t, c.handler.ConsumeCNonce(nonce, "token-2"), ErrNonceMismatch)
	})
	t.Run("unknown", func(t *testing.T) {
		assert.ErrorIs(t, c.handler.ConsumeCNonce("unknown", "token-1"), ErrNonceMismatch)
	})
}
