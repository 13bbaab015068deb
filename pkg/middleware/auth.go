package middleware

import (
	"net/http"

	"event-ticketing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header identity yang disuntik reverse proxy di depan service ini
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity membaca identitas dari reverse proxy yang sudah autentikasi
// di depan service ini (X-User-ID, X-User-Role). Service ini tidak punya
// login sendiri.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDHeader := r.Header.Get(HeaderUserID)
			if userIDHeader == "" {
				utils.ResponseUnauthorized(w, "Missing user identity")
				return
			}

			userID, err := uuid.Parse(userIDHeader)
			if err != nil {
				logger.Warn("Invalid user identity header",
					zap.String("user_id", userIDHeader),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid user identity")
				return
			}

			role := r.Header.Get(HeaderUserRole)
			if role == "" {
				role = "customer"
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok || role != "admin" {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
