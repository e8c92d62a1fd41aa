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
	"crypto/ecdsa"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nuts-foundation/nuts-issuer/core"
	"github.com/nuts-foundation/nuts-issuer/crypto"
	"github.com/nuts-foundation/nuts-issuer/storage"
	"github.com/nuts-foundation/nuts-issuer/vci/log"
	"github.com/nuts-foundation/nuts-issuer/vci/openid4vci"
	"github.com/nuts-foundation/nuts-issuer/vci/preauth"
	"github.com/prometheus/client_golang/prometheus"
)

// Path is the path (relative to the issuer identifier) of the token endpoint.
const Path = "/token"

// clockSkew is the leeway applied when validating access tokens.
const clockSkew = 5 * time.Second

// ErrNonceMismatch is returned when a c_nonce is unknown, expired, used or issued for another access token.
var ErrNonceMismatch = errors.New("c_nonce is unknown or not issued for this access token")

var errInvalidToken = openid4vci.Error{
	Code:        openid4vci.InvalidToken,
	Description: "the access token is invalid or expired",
	StatusCode:  http.StatusUnauthorized,
}

// Binder binds the ID (jti) of a freshly minted access token to the procedure of the credential.
type Binder interface {
	// BindAccessToken records the access token ID for the credential, returning the ID of its procedure.
	BindAccessToken(ctx context.Context, credentialID string, tokenID string) (string, error)
}

// Claims are the validated claims of an access token.
type Claims struct {
	// ProcedureID is the procedure the access token was issued for (sub).
	ProcedureID string
	// TokenID is the ID of the token (jti), which equals the auth server nonce bound to the deferred metadata.
	TokenID string
	// Expiry is when the token expires.
	Expiry time.Time
}

// Handler exchanges pre-authorized codes for access tokens, and validates these access tokens.
type Handler struct {
	issuer   string
	key      *ecdsa.PrivateKey
	keyID    string
	codes    *preauth.Service
	binder   Binder
	nonces   storage.SessionStore
	tokenTTL time.Duration
	redeemed *prometheus.CounterVec
}

// NewHandler creates a new Handler. Access tokens are signed with the given key, and are valid for tokenTTL.
// c_nonces are valid as long as the access token.
func NewHandler(issuer string, key *ecdsa.PrivateKey, codes *preauth.Service, binder Binder, sessions storage.SessionDatabase, tokenTTL time.Duration) (*Handler, error) {
	keyID, err := crypto.KeyThumbprint(key)
	if err != nil {
		return nil, fmt.Errorf("unable to derive access token key ID: %w", err)
	}
	return &Handler{
		issuer:   issuer,
		key:      key,
		keyID:    keyID,
		codes:    codes,
		binder:   binder,
		nonces:   sessions.GetStore(tokenTTL, "vci", "c_nonce"),
		tokenTTL: tokenTTL,
	}, nil
}

// WithMetrics makes the handler count redemptions by result.
func (h *Handler) WithMetrics(redeemed *prometheus.CounterVec) *Handler {
	h.redeemed = redeemed
	return h
}

// Redeem exchanges the pre-authorized code and transaction code for an access token.
// The code is invalidated on the first attempt, whether the transaction code is correct or not.
// All failures concerning the code or transaction code return openid4vci.ErrExpiredPreAuthorizedCode.
func (h *Handler) Redeem(ctx context.Context, grantType string, preAuthorizedCode string, txCode string) (*openid4vci.TokenResponse, error) {
	if grantType != openid4vci.PreAuthorizedCodeGrant {
		h.count("unsupported_grant_type")
		return nil, openid4vci.Error{
			Code:        openid4vci.UnsupportedGrantType,
			Description: fmt.Sprintf("grant_type must be %s", openid4vci.PreAuthorizedCodeGrant),
			StatusCode:  http.StatusBadRequest,
		}
	}
	binding, err := h.codes.Consume(preAuthorizedCode)
	if err != nil {
		h.count("rejected")
		if errors.Is(err, storage.ErrNotFound) {
			return nil, openid4vci.ErrExpiredPreAuthorizedCode
		}
		return nil, openid4vci.ErrExpiredPreAuthorizedCode.WithCause(err)
	}
	if subtle.ConstantTimeCompare([]byte(binding.TxCode), []byte(txCode)) != 1 {
		h.count("rejected")
		log.Logger().
			WithField(core.LogFieldCredentialID, binding.CredentialID).
			Warn("Pre-authorized code presented with wrong tx_code, code invalidated")
		return nil, openid4vci.ErrExpiredPreAuthorizedCode
	}

	tokenID := uuid.NewString()
	procedureID, err := h.binder.BindAccessToken(ctx, binding.CredentialID, tokenID)
	if err != nil {
		h.count("error")
		return nil, fmt.Errorf("unable to bind access token: %w", err)
	}
	accessToken, err := h.mint(procedureID, tokenID)
	if err != nil {
		h.count("error")
		return nil, err
	}
	cNonce, err := h.NewCNonce(tokenID)
	if err != nil {
		h.count("error")
		return nil, err
	}
	h.count("success")
	log.Logger().
		WithField(core.LogFieldProcedureID, procedureID).
		WithField(core.LogFieldCredentialID, binding.CredentialID).
		Info("Pre-authorized code redeemed")
	return &openid4vci.TokenResponse{
		AccessToken:     accessToken,
		TokenType:       openid4vci.TokenTypeBearer,
		ExpiresIn:       int(h.tokenTTL.Seconds()),
		CNonce:          cNonce,
		CNonceExpiresIn: h.nonces.TTLSeconds(),
	}, nil
}

func (h *Handler) mint(procedureID string, tokenID string) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Issuer(h.issuer).
		Subject(procedureID).
		JwtID(tokenID).
		IssuedAt(now).
		Expiration(now.Add(h.tokenTTL)).
		Build()
	if err != nil {
		return "", fmt.Errorf("unable to build access token: %w", err)
	}
	headers := jws.NewHeaders()
	if err = headers.Set(jws.KeyIDKey, h.keyID); err != nil {
		return "", err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256, h.key, jws.WithProtectedHeaders(headers)))
	if err != nil {
		return "", fmt.Errorf("unable to sign access token: %w", err)
	}
	return string(signed), nil
}

// Validate checks the signature, issuer and expiry of the access token, returning its claims.
// It returns an openid4vci.Error with code invalid_token if the token isn't valid.
func (h *Handler) Validate(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, errInvalidToken.WithCause(errors.New("missing access token"))
	}
	token, err := jwt.ParseString(accessToken,
		jwt.WithKey(jwa.ES256, &h.key.PublicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(h.issuer),
		jwt.WithAcceptableSkew(clockSkew))
	if err != nil {
		return nil, errInvalidToken.WithCause(err)
	}
	if token.Subject() == "" || token.JwtID() == "" {
		return nil, errInvalidToken.WithCause(errors.New("access token lacks sub or jti"))
	}
	return &Claims{
		ProcedureID: token.Subject(),
		TokenID:     token.JwtID(),
		Expiry:      token.Expiration(),
	}, nil
}

// NewCNonce issues a nonce the wallet must include in its proof, bound to the access token with the given ID.
func (h *Handler) NewCNonce(tokenID string) (string, error) {
	nonce := crypto.GenerateNonce()
	if err := h.nonces.Put(nonce, tokenID); err != nil {
		return "", fmt.Errorf("unable to store c_nonce: %w", err)
	}
	return nonce, nil
}

// CNonceTTL returns the number of seconds an issued c_nonce is valid.
func (h *Handler) CNonceTTL() int {
	return h.nonces.TTLSeconds()
}

// ConsumeCNonce invalidates the nonce, returning ErrNonceMismatch if it wasn't issued for the access token with the given ID.
func (h *Handler) ConsumeCNonce(nonce string, tokenID string) error {
	var boundTo string
	if err := h.nonces.GetAndDelete(nonce, &boundTo); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNonceMismatch
		}
		return err
	}
	if boundTo != tokenID {
		return ErrNonceMismatch
	}
	return nil
}

func (h *Handler) count(result string) {
	if h.redeemed != nil {
		h.redeemed.WithLabelValues(result).Inc()
	}
}
