package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// RequireAuth validates the token from the Authorization header and adds the
// verified user id to the request context. The header carries the token
// verbatim, without a "Bearer " scheme prefix.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get("Authorization")
			if tokenStr == "" {
				jsonMessage(w, http.StatusUnauthorized, "Authentication Token missing")
				return
			}

			claims, err := auth.ValidateToken(secret, tokenStr)
			if err != nil {
				// Expired and malformed tokens get the same response;
				// the distinction is only logged.
				if errors.Is(err, auth.ErrExpired) {
					slog.Warn("rejected expired token", "remote", r.RemoteAddr)
				} else {
					slog.Warn("rejected invalid token", "remote", r.RemoteAddr, "error", err)
				}
				jsonMessage(w, http.StatusUnauthorized, "Invalid or expired Authentication Token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatedUser returns the verified user id from the context, if any.
func AuthenticatedUser(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
