package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/jwt"
	"github.com/ipede/negocio-verification-service/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	rolesKey  contextKey = "roles"
)

// JWTValidator checks a bearer token
type JWTValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	jwt    JWTValidator
	logger *zap.Logger
}

func NewAuthMiddleware(jwt JWTValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, logger: logger}
}

func (m *AuthMiddleware) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			errors.RespondWithError(w, m.logger, domain.ErrUnauthorized)
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			m.logger.Debug("rejected bearer token", zap.Error(err))
			errors.RespondWithError(w, m.logger, domain.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, rolesKey, claims.Roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, userRole := range RolesFromContext(r.Context()) {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Warn("forbidden admin request",
				zap.String("user_id", UserIDFromContext(r.Context())),
				zap.String("required_role", role))
			errors.RespondWithError(w, m.logger, domain.ErrForbidden)
		})
	}
}

// UserIDFromContext returns the token subject set by Authenticator
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RolesFromContext returns the token roles set by Authenticator
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(rolesKey).([]string)
	return roles
}

func (m *AuthMiddleware) extractToken(r *http.Request) string {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
