package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"projector-backend/internal/model"
)

type tokenVerifier interface {
	VerifyAccessToken(tokenString string) (*model.AuthClaims, error)
}

type workerLoader interface {
	FindByID(ctx context.Context, id int64) (model.Worker, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware is the authorization gate. RequireAuth is a stateless
// signature-and-expiry check; RequirePermissions reloads the worker from the
// store on every call so a permission revocation takes effect on the next
// request, not at access-token expiry.
type AuthMiddleware struct {
	verifier tokenVerifier
	workers  workerLoader
}

func NewAuthMiddleware(verifier tokenVerifier, workers workerLoader) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, workers: workers}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header", nil)
			return
		}

		token := strings.TrimSpace(header[7:])
		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired access token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequirePermissions(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
				return
			}

			worker, err := m.workers.FindByID(r.Context(), claims.WorkerID)
			if errors.Is(err, model.ErrWorkerNotFound) {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "worker not found", nil)
				return
			}
			if err != nil {
				slog.Error("authorization check failed", "worker_id", claims.WorkerID, "error", err)
				writeAuthError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed", nil)
				return
			}

			if !worker.Role.Permissions.HasAll(required) {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions", &model.PermissionDiagnostics{
					Required: required,
					Held:     worker.Role.Permissions.Names(),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string, details *model.PermissionDiagnostics) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	apiErr := &model.APIError{Code: code, Message: message}
	if details != nil {
		apiErr.Details = details
	}

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   apiErr,
	})
}
