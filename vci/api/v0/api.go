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
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nuts-foundation/nuts-issuer/core"
	nutsHttp "github.com/nuts-foundation/nuts-issuer/http"
	"github.com/nuts-foundation/nuts-issuer/vci/issuance"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/offer"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/procedure"
	"github.com/nuts-foundation/nuts-issuer/vci/token"
)

const moduleName = "VCI"

// InternalPath is the base path of the back-office endpoints.
const InternalPath = "/internal/vci/v0"

// ProcessIDHeader carries the correlation ID of a request. If absent, one is generated.
const ProcessIDHeader = "X-Request-ID"

var _ core.ErrorWriter = (*protocolErrorWriter)(nil)

// protocolErrorWriter writes errors as OpenID4VCI error responses ({error, description}).
type protocolErrorWriter struct {
}

func (p protocolErrorWriter) Write(echoContext echo.Context, statusCode int, _ string, err error) error {
	// If not already a protocol error, make it one
	var protocolError openid4vci.Error
	if !errors.As(err, &protocolError) {
		if statusCode >= 400 && statusCode < 500 {
			protocolError = openid4vci.Error{
				Code:        openid4vci.InvalidRequest,
				Description: err.Error(),
				StatusCode:  statusCode,
			}
		} else {
			protocolError = openid4vci.Error{
				Code:        openid4vci.ServerError,
				Description: "the issuer encountered an unexpected error",
				StatusCode:  http.StatusInternalServerError,
			}
		}
	}
	// Make sure we don't accidentally return a 200 OK in case StatusCode is not set.
	if protocolError.StatusCode == 0 {
		protocolError.StatusCode = http.StatusInternalServerError
	}
	if protocolError.StatusCode == http.StatusUnauthorized {
		echoContext.Response().Header().Set("WWW-Authenticate", `Bearer error="`+string(protocolError.Code)+`"`)
	}
	return echoContext.JSON(protocolError.StatusCode, protocolError)
}

// Wrapper serves the OpenID4VCI protocol endpoints to wallets, and the issuance endpoints to back-office systems.
type Wrapper struct {
	Issuance Issuance
	Tokens   TokenEndpoint
	Offers   OfferStore
	// TokenRateLimit limits the requests per client to the token endpoint, if enabled.
	TokenRateLimit nutsHttp.RateLimitConfig
}

// Routes registers the API routes
func (w Wrapper) Routes(router core.EchoRouter) {
	tokenHandler := w.handleTokenRequest
	if w.TokenRateLimit.Enabled() {
		tokenHandler = nutsHttp.NewRateLimiter(w.TokenRateLimit, token.Path)(tokenHandler)
	}
	router.GET(offer.Path+"/:nonce", w.protocol("GetCredentialOffer", w.handleGetCredentialOffer))
	router.POST(token.Path, w.protocol("RequestAccessToken", tokenHandler))
	router.POST(issuance.CredentialPath, w.protocol("RequestCredential", w.handleCredentialRequest))
	router.POST(issuance.DeferredCredentialPath, w.protocol("RequestDeferredCredential", w.handleDeferredCredentialRequest))
	router.GET(openid4vci.CredentialIssuerMetadataWellKnownPath, w.protocol("GetCredentialIssuerMetadata", w.handleGetIssuerMetadata))
	router.GET(openid4vci.AuthorizationServerMetadataWellKnownPath, w.protocol("GetAuthorizationServerMetadata", w.handleGetAuthorizationServerMetadata))

	router.POST(InternalPath+"/issuance", w.internal("CreateIssuance", w.handleCreateIssuance))
	router.GET(InternalPath+"/issuance/:renewalCode/renew", w.internal("RenewCredentialOffer", w.handleRenewOffer))
	router.GET(InternalPath+"/procedures", w.internal("ListProcedures", w.handleListProcedures))
	router.GET(InternalPath+"/procedures/:procedureId", w.internal("GetProcedure", w.handleGetProcedure))
	router.POST(InternalPath+"/procedures/:procedureId/sign", w.internal("SignDeferredCredential", w.handleSign))
	router.POST(InternalPath+"/procedures/:procedureId/signed-credential", w.internal("CompleteWithSignedCredential", w.handleSignedCredential))
	router.POST(InternalPath+"/procedures/:procedureId/revoke", w.internal("RevokeCredential", w.handleRevoke))
	router.POST(InternalPath+"/notifications/:procedureId", w.internal("SendNotification", w.handleNotify))
}

func (w Wrapper) protocol(operationID string, handler echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(core.OperationIDContextKey, operationID)
		ctx.Set(core.ModuleNameContextKey, moduleName+"/OpenID4VCI")
		ctx.Set(core.ErrorWriterContextKey, &protocolErrorWriter{})
		ctx.Set(core.StatusCodeResolverContextKey, w)
		return handler(ctx)
	}
}

func (w Wrapper) internal(operationID string, handler echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		ctx.Set(core.OperationIDContextKey, operationID)
		ctx.Set(core.ModuleNameContextKey, moduleName)
		ctx.Set(core.StatusCodeResolverContextKey, w)
		return handler(ctx)
	}
}

// ResolveStatusCode maps errors returned by this API to specific HTTP status codes.
func (w Wrapper) ResolveStatusCode(err error) int {
	var protocolError openid4vci.Error
	if errors.As(err, &protocolError) && protocolError.StatusCode != 0 {
		return protocolError.StatusCode
	}
	return core.ResolveStatusCode(err, map[error]int{
		issuance.ErrNotPending:         http.StatusConflict,
		procedure.ErrInvalidTransition: http.StatusConflict,
		procedure.ErrSigningClaimed:    http.StatusConflict,
		procedure.ErrNotFound:          http.StatusNotFound,
	})
}

func (w Wrapper) handleGetCredentialOffer(ctx echo.Context) error {
	data, err := w.Offers.Get(ctx.Param("nonce"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, data.CredentialOffer)
}

func (w Wrapper) handleTokenRequest(ctx echo.Context) error {
	txCode := ctx.FormValue("tx_code")
	if txCode == "" {
		// pre-final drafts of OpenID4VCI
		txCode = ctx.FormValue("user_pin")
	}
	response, err := w.Tokens.Redeem(ctx.Request().Context(), ctx.FormValue("grant_type"), ctx.FormValue("pre-authorized_code"), txCode)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.JSON(http.StatusOK, response)
}

func (w Wrapper) handleCredentialRequest(ctx echo.Context) error {
	var request openid4vci.CredentialRequest
	if err := ctx.Bind(&request); err != nil {
		return invalidRequest(err)
	}
	response, err := w.Issuance.GenerateCredentialResponse(ctx.Request().Context(), processID(ctx), request, bearerToken(ctx))
	if err != nil {
		return err
	}
	return credentialResponse(ctx, response)
}

func (w Wrapper) handleDeferredCredentialRequest(ctx echo.Context) error {
	var request openid4vci.DeferredCredentialRequest
	if err := ctx.Bind(&request); err != nil {
		return invalidRequest(err)
	}
	response, err := w.Issuance.GenerateDeferredResponse(ctx.Request().Context(), processID(ctx), request, bearerToken(ctx))
	if err != nil {
		return err
	}
	return credentialResponse(ctx, response)
}

// credentialResponse writes the response of the (deferred) credential endpoint. Pending credentials are signalled with 202 Accepted.
func credentialResponse(ctx echo.Context, response *openid4vci.CredentialResponse) error {
	ctx.Response().Header().Set("Cache-Control", "no-store")
	if response.Pending() {
		return ctx.JSON(http.StatusAccepted, response)
	}
	return ctx.JSON(http.StatusOK, response)
}

func (w Wrapper) handleGetIssuerMetadata(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, w.Issuance.IssuerMetadata())
}

func (w Wrapper) handleGetAuthorizationServerMetadata(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, w.Issuance.AuthorizationServerMetadata())
}

func (w Wrapper) handleCreateIssuance(ctx echo.Context) error {
	var request issuance.Request
	if err := ctx.Bind(&request); err != nil {
		return core.InvalidInputError("invalid issuance request: %w", err)
	}
	result, err := w.Issuance.Create(ctx.Request().Context(), processID(ctx), request)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleRenewOffer(ctx echo.Context) error {
	result, err := w.Issuance.RenewOffer(ctx.Request().Context(), processID(ctx), ctx.Param("renewalCode"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleListProcedures(ctx echo.Context) error {
	status := procedure.Status(ctx.QueryParam("status"))
	switch status {
	case "", procedure.StatusDraft, procedure.StatusPendingSignature, procedure.StatusValid, procedure.StatusExpired, procedure.StatusRevoked:
	default:
		return core.InvalidInputError("invalid status: %s", status)
	}
	result, err := w.Issuance.ListProcedures(ctx.Request().Context(), status)
	if err != nil {
		return err
	}
	if result == nil {
		result = []procedure.CredentialProcedure{}
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleGetProcedure(ctx echo.Context) error {
	result, err := w.Issuance.GetProcedure(ctx.Request().Context(), ctx.Param("procedureId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleSign(ctx echo.Context) error {
	result, err := w.Issuance.SignDeferred(ctx.Request().Context(), processID(ctx), ctx.Param("procedureId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

// SignedCredentialRequest delivers a credential signed by a remote signing service.
type SignedCredentialRequest struct {
	Credential string `json:"credential"`
}

func (w Wrapper) handleSignedCredential(ctx echo.Context) error {
	var request SignedCredentialRequest
	if err := ctx.Bind(&request); err != nil {
		return core.InvalidInputError("invalid signed credential request: %w", err)
	}
	if request.Credential == "" {
		return core.InvalidInputError("credential is required")
	}
	result, err := w.Issuance.CompleteWithSignedCredential(ctx.Request().Context(), processID(ctx), ctx.Param("procedureId"), request.Credential)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleRevoke(ctx echo.Context) error {
	procedureID := ctx.Param("procedureId")
	if err := w.Issuance.Revoke(ctx.Request().Context(), processID(ctx), procedureID); err != nil {
		return err
	}
	result, err := w.Issuance.GetProcedure(ctx.Request().Context(), procedureID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, result)
}

func (w Wrapper) handleNotify(ctx echo.Context) error {
	if err := w.Issuance.Notify(ctx.Request().Context(), ctx.Param("procedureId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// bearerToken returns the access token from the Authorization header, or an empty string.
func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func processID(ctx echo.Context) string {
	if id := ctx.Request().Header.Get(ProcessIDHeader); id != "" {
		return id
	}
	id := uuid.NewString()
	log.Logger().Tracef("Generated process ID %s for %s", id, ctx.Path())
	return id
}

func invalidRequest(err error) error {
	return openid4vci.Error{
		Code:        openid4vci.InvalidRequest,
		Description: "malformed request body",
		Err:         err,
		StatusCode:  http.StatusBadRequest,
	}
}
