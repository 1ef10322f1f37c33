package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"psp-webhook/internal/auth"
	"psp-webhook/internal/logger"
	"psp-webhook/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const TokenClaimsKey contextKey = "jwtClaims"

var (
	errMissingToken = errors.New("missing access token")
	errInvalidToken = errors.New("invalid access token")
)

// AdminAuth only lets through requests bearing an HS256 token signed with
// secret whose role claim is admin.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromCtx(r.Context())

			claims, err := parseToken(auth.ExtractAccessToken(r), key)
			if err != nil {
				log.Warn("admin authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role, _ := claims["role"].(string)
			if role != utils.RoleAdmin {
				log.Warn("admin authorization failed", zap.String("path", r.URL.Path), zap.String("role", role))
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), TokenClaimsKey, claims)
			var userID uint
			if uid, ok := claims["user_id"].(float64); ok {
				userID = uint(uid)
			}
			email, _ := claims["email"].(string)
			ctx = utils.SetUserContext(ctx, userID, email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseToken(tokenStr string, key []byte) (jwt.MapClaims, error) {
	if tokenStr == "" {
		return nil, errMissingToken
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: no signing key configured", errInvalidToken)
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}
