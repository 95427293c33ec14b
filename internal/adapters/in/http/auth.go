package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const callerKey = "caller_id"

// Claims are issued by the auth service. Older tokens carry the user in user_id,
// newer ones in sub.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) userID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// JWTAuth verifies HS256 bearer tokens and stores the caller's id in the echo context.
// Browsers cannot set headers on websocket upgrades, so a token query parameter is
// accepted as well.
func JWTAuth(secret []byte, skipper middleware.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = middleware.DefaultSkipper
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) {
		return secret, nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if skipper(ctx) {
				return next(ctx)
			}

			raw := bearerToken(ctx.Request())
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			var claims Claims
			token, err := parser.ParseWithClaims(raw, &claims, keyFunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			caller, err := kernel.UUIDFromString(claims.userID())
			if err != nil || caller.Validate() != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no valid user")
			}

			ctx.Set(callerKey, caller)
			return next(ctx)
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("token")
}

var errNoCaller = errors.New("request is not authenticated")

// Caller returns the authenticated user of the request.
func Caller(ctx echo.Context) (kernel.UUID, error) {
	caller, ok := ctx.Get(callerKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, errNoCaller.Error())
	}
	return caller, nil
}
