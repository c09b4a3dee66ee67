package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"qr-feedback-backend/internal/auth"
	"qr-feedback-backend/internal/logging"
	"qr-feedback-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type contextKey string

const (
	advisorIDKey contextKey = "advisor_id"
	roleKey      contextKey = "role"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type AdvisorFinder interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Advisor, error)
}

// JWTAuth verifies the bearer token, confirms the advisor still exists and stores
// its id and current role in the request context.
func JWTAuth(tokens TokenParser, advisors AdvisorFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")
			if header == "" {
				deny(w, http.StatusUnauthorized, "Access Denied - No Token Provided")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			claims, err := tokens.Parse(token)
			if err != nil {
				logAuthFailure(ctx, r, err)
				deny(w, http.StatusUnauthorized, "Invalid or Expired Token")
				return
			}

			id, err := bson.ObjectIDFromHex(claims.AdvisorID)
			if err != nil {
				logAuthFailure(ctx, r, err)
				deny(w, http.StatusUnauthorized, "Invalid or Expired Token")
				return
			}

			advisor, err := advisors.FindByID(ctx, id)
			if err != nil {
				logAuthFailure(ctx, r, err)
				deny(w, http.StatusUnauthorized, "Invalid or Expired Token")
				return
			}
			if advisor == nil {
				deny(w, http.StatusUnauthorized, "Access Denied - User Not Found")
				return
			}

			ctx = context.WithValue(ctx, advisorIDKey, claims.AdvisorID)
			ctx = context.WithValue(ctx, roleKey, advisor.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager restricts a route to manager accounts. Must run after JWTAuth.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetRole(r.Context()).IsManager() {
			deny(w, http.StatusForbidden, "Access Denied - Managers Only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrManager lets advisors reach only routes whose param matches their own id.
func RequireSelfOrManager(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			isManager := GetRole(ctx).IsManager()
			isOwner := GetAdvisorID(ctx) != "" && GetAdvisorID(ctx) == chi.URLParam(r, param)
			if !isManager && !isOwner {
				deny(w, http.StatusForbidden, "Access Denied - You can only access your own data")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetAdvisorID(ctx context.Context) string {
	id, _ := ctx.Value(advisorIDKey).(string)
	return id
}

func GetRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(roleKey).(models.Role)
	return role
}

// WithIdentity is used by handlers tests to bypass JWTAuth.
func WithIdentity(ctx context.Context, advisorID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, advisorIDKey, advisorID)
	return context.WithValue(ctx, roleKey, role)
}

func logAuthFailure(ctx context.Context, r *http.Request, err error) {
	if logger, ok := logging.GetFromContext(ctx); ok {
		logger.Info(ctx, "authentication failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
