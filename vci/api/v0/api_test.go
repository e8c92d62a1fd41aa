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

package v0

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nuts-foundation/nuts-issuer/core"
	nutsHttp "github.com/nuts-foundation/nuts-issuer/http"
	"github.com/nuts-foundation/nuts-issuer/vci/issuance"
	"github.com/nuts-foundation/nuts-issuer/vci/offer"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testContext struct {
	issuance *MockIssuance
	tokens   *MockTokenEndpoint
	offers   *MockOfferStore
	server   *echo.Echo
}

func newTestContext(t *testing.T) testContext {
	return newTestContextWithRateLimit(t, nutsHttp.RateLimitConfig{})
}

func newTestContextWithRateLimit(t *testing.T, rateLimit nutsHttp.RateLimitConfig) testContext {
	ctrl := gomock.NewController(t)
	ctx := testContext{
		issuance: NewMockIssuance(ctrl),
		tokens:   NewMockTokenEndpoint(ctrl),
		offers:   NewMockOfferStore(ctrl),
		server:   echo.New(),
	}
	ctx.server.HTTPErrorHandler = core.CreateHTTPErrorHandler()
	Wrapper{Issuance: ctx.issuance, Tokens: ctx.tokens, Offers: ctx.offers, TokenRateLimit: rateLimit}.Routes(ctx.server)
	return ctx
}

func (c testContext) do(method string, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	recorder := httptest.NewRecorder()
	c.server.ServeHTTP(recorder, request)
	return recorder
}

func (c testContext) token(form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	recorder := httptest.NewRecorder()
	c.server.ServeHTTP(recorder, request)
	return recorder
}

func protocolError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	return result
}

func TestWrapper_GetCredentialOffer(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.offers.EXPECT().Get("nonce-1").Return(&openid4vci.CredentialOfferData{
			CredentialOffer: openid4vci.CredentialOffer{CredentialIssuer: "https://issuer.example.com"},
			RecipientEmail:  "john.doe@example.com",
			PIN:             "12345",
		}, nil)

		recorder := ctx.do(http.MethodGet, "/credential-offer/nonce-1", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"credential_issuer":"https://issuer.example.com"`)
		assert.NotContains(t, recorder.Body.String(), "12345")
		assert.NotContains(t, recorder.Body.String(), "john.doe")
	})
	t.Run("not found", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.offers.EXPECT().Get("nonce-1").Return(nil, offer.ErrNotFound)

		recorder := ctx.do(http.MethodGet, "/credential-offer/nonce-1", "", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "credential_offer_not_found", protocolError(t, recorder)["error"])
	})
}

func TestWrapper_RequestAccessToken(t *testing.T) {
	form := url.Values{
		"grant_type":          {openid4vci.PreAuthorizedCodeGrant},
		"pre-authorized_code": {"code"},
		"tx_code":             {"12345"},
	}

	t.Run("ok", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.tokens.EXPECT().Redeem(gomock.Any(), openid4vci.PreAuthorizedCodeGrant, "code", "12345").
			Return(&openid4vci.TokenResponse{AccessToken: "token", TokenType: "bearer", ExpiresIn: 600, CNonce: "nonce", CNonceExpiresIn: 600}, nil)

		recorder := ctx.token(form)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"access_token":"token","token_type":"bearer","expires_in":600,"c_nonce":"nonce","c_nonce_expires_in":600}`, recorder.Body.String())
	})
	t.Run("user_pin", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.tokens.EXPECT().Redeem(gomock.Any(), openid4vci.PreAuthorizedCodeGrant, "code", "54321").Return(&openid4vci.TokenResponse{}, nil)

		recorder := ctx.token(url.Values{
			"grant_type":          {openid4vci.PreAuthorizedCodeGrant},
			"pre-authorized_code": {"code"},
			"user_pin":            {"54321"},
		})

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("expired code", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.tokens.EXPECT().Redeem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openid4vci.ErrExpiredPreAuthorizedCode.WithCause(errors.New("code XYZ not found")))

		recorder := ctx.token(form)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		body := protocolError(t, recorder)
		assert.Equal(t, "pre-authorized_code is expired or used", body["error"])
		assert.NotContains(t, recorder.Body.String(), "XYZ")
	})
	t.Run("rate limited", func(t *testing.T) {
		ctx := newTestContextWithRateLimit(t, nutsHttp.RateLimitConfig{Limit: 1, Interval: time.Hour, Burst: 1})
		ctx.tokens.EXPECT().Redeem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&openid4vci.TokenResponse{}, nil)

		first := ctx.token(form)
		second := ctx.token(form)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "invalid_request", protocolError(t, second)["error"])
	})
}

func TestWrapper_RequestCredential(t *testing.T) {
	body := `{"format":"jwt_vc_json","proof":{"proof_type":"jwt","jwt":"ey..."}}`
	headers := map[string]string{"Authorization": "Bearer access-token", ProcessIDHeader: "process-1"}
	expectedRequest := openid4vci.CredentialRequest{
		Format: openid4vci.JWTVCJSONFormat,
		Proof:  &openid4vci.Proof{ProofType: "jwt", JWT: "ey..."},
	}

	t.Run("signed", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateCredentialResponse(gomock.Any(), "process-1", expectedRequest, "access-token").
			Return(&openid4vci.CredentialResponse{Format: "jwt_vc_json", Credential: "ey.vc", CNonce: "n", CNonceExpiresIn: 600}, nil)

		recorder := ctx.do(http.MethodPost, "/credential", body, headers)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"format":"jwt_vc_json","credential":"ey.vc","c_nonce":"n","c_nonce_expires_in":600}`, recorder.Body.String())
	})
	t.Run("deferred", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateCredentialResponse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&openid4vci.CredentialResponse{TransactionID: "tx-1"}, nil)

		recorder := ctx.do(http.MethodPost, "/credential", body, headers)

		assert.Equal(t, http.StatusAccepted, recorder.Code)
		assert.JSONEq(t, `{"transaction_id":"tx-1"}`, recorder.Body.String())
	})
	t.Run("invalid proof", func(t *testing.T) {
		ctx := newTestContext(t)
		nonce := "fresh"
		expiresIn := 600
		ctx.issuance.EXPECT().GenerateCredentialResponse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openid4vci.Error{Code: openid4vci.InvalidOrMissingProof, StatusCode: http.StatusBadRequest, CNonce: &nonce, CNonceExpiresIn: &expiresIn})

		recorder := ctx.do(http.MethodPost, "/credential", body, headers)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"error":"invalid_or_missing_proof","c_nonce":"fresh","c_nonce_expires_in":600}`, recorder.Body.String())
	})
	t.Run("invalid token", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateCredentialResponse(gomock.Any(), gomock.Any(), gomock.Any(), "").
			Return(nil, openid4vci.Error{Code: openid4vci.InvalidToken, StatusCode: http.StatusUnauthorized})

		recorder := ctx.do(http.MethodPost, "/credential", body, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, `Bearer error="invalid_token"`, recorder.Header().Get("WWW-Authenticate"))
	})
	t.Run("internal error is not leaked", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateCredentialResponse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("SELECT * FROM credential_procedure failed"))

		recorder := ctx.do(http.MethodPost, "/credential", body, headers)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "server_error", protocolError(t, recorder)["error"])
		assert.NotContains(t, recorder.Body.String(), "SELECT")
	})
	t.Run("malformed body", func(t *testing.T) {
		ctx := newTestContext(t)

		recorder := ctx.do(http.MethodPost, "/credential", "{", headers)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "invalid_request", protocolError(t, recorder)["error"])
	})
}

func TestWrapper_RequestDeferredCredential(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer access-token"}

	t.Run("pending", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateDeferredResponse(gomock.Any(), gomock.Any(), openid4vci.DeferredCredentialRequest{TransactionID: "tx-1"}, "access-token").
			Return(&openid4vci.CredentialResponse{TransactionID: "tx-1"}, nil)

		recorder := ctx.do(http.MethodPost, "/deferred-credential", `{"transaction_id":"tx-1"}`, headers)

		assert.Equal(t, http.StatusAccepted, recorder.Code)
	})
	t.Run("signed", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateDeferredResponse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&openid4vci.CredentialResponse{Format: "jwt_vc_json", Credential: "ey.vc"}, nil)

		recorder := ctx.do(http.MethodPost, "/deferred-credential", `{"transaction_id":"tx-1"}`, headers)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"format":"jwt_vc_json","credential":"ey.vc"}`, recorder.Body.String())
	})
	t.Run("unknown transaction", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GenerateDeferredResponse(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openid4vci.Error{Code: openid4vci.InvalidTransactionID, StatusCode: http.StatusBadRequest})

		recorder := ctx.do(http.MethodPost, "/deferred-credential", `{"transaction_id":"tx-1"}`, headers)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "invalid_transaction_id", protocolError(t, recorder)["error"])
	})
}

func TestWrapper_Metadata(t *testing.T) {
	ctx := newTestContext(t)
	ctx.issuance.EXPECT().IssuerMetadata().Return(openid4vci.CredentialIssuerMetadata{CredentialIssuer: "https://issuer.example.com"})
	ctx.issuance.EXPECT().AuthorizationServerMetadata().Return(openid4vci.AuthorizationServerMetadata{TokenEndpoint: "https://issuer.example.com/token"})

	issuerMetadata := ctx.do(http.MethodGet, "/.well-known/openid-credential-issuer", "", nil)
	authServerMetadata := ctx.do(http.MethodGet, "/.well-known/oauth-authorization-server", "", nil)

	assert.Equal(t, http.StatusOK, issuerMetadata.Code)
	assert.Contains(t, issuerMetadata.Body.String(), `"credential_issuer":"https://issuer.example.com"`)
	assert.Equal(t, http.StatusOK, authServerMetadata.Code)
	assert.Contains(t, authServerMetadata.Body.String(), `"token_endpoint":"https://issuer.example.com/token"`)
}

func TestWrapper_CreateIssuance(t *testing.T) {
	body := `{"credential_type":"LEARCredentialEmployee","organization_identifier":"VATNL-1","email":"a@b.com","claims":{"power":[]}}`

	t.Run("ok", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, request issuance.Request) (*issuance.Result, error) {
			assert.Equal(t, "LEARCredentialEmployee", request.CredentialType)
			assert.Equal(t, "a@b.com", request.Email)
			assert.Contains(t, request.Claims, "power")
			return &issuance.Result{ProcedureID: "p-1", CredentialOfferURI: "openid-credential-offer://?x", TransactionCode: "tc", RenewalCode: "rc"}, nil
		})

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/issuance", body, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"procedure_id":"p-1","credential_offer_uri":"openid-credential-offer://?x","transaction_code":"tc","renewal_code":"rc"}`, recorder.Body.String())
	})
	t.Run("unknown template", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openid4vci.Error{Code: openid4vci.VCTemplateDoesNotExist, StatusCode: http.StatusNotFound})

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/issuance", body, nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "application/problem+json", recorder.Header().Get(echo.HeaderContentType))
		assert.Contains(t, recorder.Body.String(), "vc_template_does_not_exist")
	})
	t.Run("malformed body", func(t *testing.T) {
		ctx := newTestContext(t)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/issuance", "[", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestWrapper_RenewCredentialOffer(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().RenewOffer(gomock.Any(), gomock.Any(), "renewal-1").Return(&issuance.Result{ProcedureID: "p-1"}, nil)

		recorder := ctx.do(http.MethodGet, "/internal/vci/v0/issuance/renewal-1/renew", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("unknown code", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().RenewOffer(gomock.Any(), gomock.Any(), "renewal-1").Return(nil, offer.ErrNotFound)

		recorder := ctx.do(http.MethodGet, "/internal/vci/v0/issuance/renewal-1/renew", "", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestWrapper_Procedures(t *testing.T) {
	record := procedure.CredentialProcedure{ID: "p-1", CredentialStatus: procedure.StatusPendingSignature}

	t.Run("list", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().ListProcedures(gomock.Any(), procedure.StatusPendingSignature).Return(nil, nil)

		recorder := ctx.do(http.MethodGet, "/internal/vci/v0/procedures?status=PENDING_SIGNATURE", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "[]\n", recorder.Body.String())
	})
	t.Run("list with invalid status", func(t *testing.T) {
		ctx := newTestContext(t)

		recorder := ctx.do(http.MethodGet, "/internal/vci/v0/procedures?status=SIGNED", "", nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
	t.Run("get", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().GetProcedure(gomock.Any(), "p-1").Return(&record, nil)

		recorder := ctx.do(http.MethodGet, "/internal/vci/v0/procedures/p-1", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"credential_status":"PENDING_SIGNATURE"`)
	})
	t.Run("sign", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().SignDeferred(gomock.Any(), gomock.Any(), "p-1").Return(&record, nil)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/sign", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("sign, not pending", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().SignDeferred(gomock.Any(), gomock.Any(), "p-1").Return(nil, fmt.Errorf("%w (status=DRAFT)", issuance.ErrNotPending))

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/sign", "", nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
	t.Run("signed credential", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().CompleteWithSignedCredential(gomock.Any(), gomock.Any(), "p-1", "ey.vc").Return(&record, nil)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/signed-credential", `{"credential":"ey.vc"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
	t.Run("signed credential missing", func(t *testing.T) {
		ctx := newTestContext(t)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/signed-credential", `{}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
	t.Run("revoke", func(t *testing.T) {
		ctx := newTestContext(t)
		revoked := procedure.CredentialProcedure{ID: "p-1", CredentialStatus: procedure.StatusRevoked}
		ctx.issuance.EXPECT().Revoke(gomock.Any(), gomock.Any(), "p-1").Return(nil)
		ctx.issuance.EXPECT().GetProcedure(gomock.Any(), "p-1").Return(&revoked, nil)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/revoke", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"credential_status":"REVOKED"`)
	})
	t.Run("revoke, not valid", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().Revoke(gomock.Any(), gomock.Any(), "p-1").Return(fmt.Errorf("%w: DRAFT -> REVOKED", procedure.ErrInvalidTransition))

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/procedures/p-1/revoke", "", nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestWrapper_SendNotification(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().Notify(gomock.Any(), "p-1").Return(nil)

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/notifications/p-1", "", nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
	t.Run("delivery fails", func(t *testing.T) {
		ctx := newTestContext(t)
		ctx.issuance.EXPECT().Notify(gomock.Any(), "p-1").Return(errors.New("unable to deliver notification: connection refused"))

		recorder := ctx.do(http.MethodPost, "/internal/vci/v0/notifications/p-1", "", nil)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}

func TestWrapper_ResolveStatusCode(t *testing.T) {
	w := Wrapper{}

	assert.Equal(t, http.StatusBadGateway, w.ResolveStatusCode(openid4vci.Error{Code: openid4vci.SignatureProcessing, StatusCode: http.StatusBadGateway}))
	assert.Equal(t, http.StatusNotFound, w.ResolveStatusCode(fmt.Errorf("lookup: %w", procedure.ErrNotFound)))
	assert.Equal(t, 0, w.ResolveStatusCode(errors.New("other")))
}
