package httpd

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/apperror"
	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/models"
)

type identityKey struct{}

func RequestLogger(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			reqID := middleware.GetReqID(r.Context())
			if reqID == "" {
				reqID = "unknown"
			}

			requestLog := log.With().
				Str("request_id", reqID).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(middleware.RequestIDHeader, reqID)
			start := time.Now()

			r = r.WithContext(requestLog.WithContext(r.Context()))

			defer func() {
				event := requestLog.Info()
				if ww.Status() >= http.StatusInternalServerError {
					event = requestLog.Error()
				}

				event.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

func Recovery(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil && rvr != http.ErrAbortHandler {
					log.Error().
						Interface("recover", rvr).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("request_id", middleware.GetReqID(r.Context())).
						Msg("Panic recovered")

					writeError(w, http.StatusInternalServerError, apperror.KindInternal, "Internal server error", nil)
				}
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Authenticate resolves the bearer token into an auth.Identity stored on the request context.
func Authenticate(tokens auth.TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, apperror.KindUnauthorized, "No token provided", nil)
				return
			}

			identity, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				writeError(w, http.StatusUnauthorized, apperror.KindUnauthorized, "Invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, identity)))
		}
		return http.HandlerFunc(fn)
	}
}

// RequireRole must run after Authenticate.
func RequireRole(roles ...models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, apperror.KindUnauthorized, "No token provided", nil)
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, apperror.KindForbidden, "Forbidden", nil)
		}
		return http.HandlerFunc(fn)
	}
}

func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return identity, ok && identity != nil
}
