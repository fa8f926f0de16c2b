package middleware

import (
	"context"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kudzaitsapo/fileflow-web/internal/config"
	"github.com/kudzaitsapo/fileflow-web/internal/fileflow"
	"github.com/kudzaitsapo/fileflow-web/internal/logging"
)

const fileflowContextKey contextKey = "fileflow"

// WithFileflowClient is middleware that creates a backend client from the
// session's token and adds it to the context. Should be used after RequireAuth.
func WithFileflowClient(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())
			if session == nil || session.Token == "" {
				Unauthorized(w, r)
				return
			}

			client, err := fileflow.NewFromToken(cfg.Backend.URL, session.Token)
			if err != nil {
				logging.Error().Err(err).Msg("failed to create FileFlow client")
				http.Error(w, "FileFlow backend is not configured", http.StatusInternalServerError)
				return
			}
			client.SetTimeout(cfg.Backend.Timeout)
			client.SetRequestID(chiMiddleware.GetReqID(r.Context()))

			ctx := SetFileflowInContext(r.Context(), client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetFileflowFromContext retrieves the backend client from the request context.
// Returns nil if no client is available.
func GetFileflowFromContext(ctx context.Context) *fileflow.Client {
	client, ok := ctx.Value(fileflowContextKey).(*fileflow.Client)
	if !ok {
		return nil
	}
	return client
}

// SetFileflowInContext adds a backend client to the context.
func SetFileflowInContext(ctx context.Context, client *fileflow.Client) context.Context {
	return context.WithValue(ctx, fileflowContextKey, client)
}

// MustGetFileflow retrieves the backend client from context.
// If not available, writes an error response and returns nil.
// Handlers should return immediately after receiving nil.
func MustGetFileflow(ctx context.Context, w http.ResponseWriter) *fileflow.Client {
	client := GetFileflowFromContext(ctx)
	if client == nil {
		http.Error(w, "FileFlow client not available", http.StatusInternalServerError)
		return nil
	}
	return client
}
