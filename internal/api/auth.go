package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/server"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKey  string
}

// publicPaths bypass authentication.
var publicPaths = map[string]bool{
	"/":       true,
	"/health": true,
}

// ValidateAuthConfig validates the authentication configuration.
func ValidateAuthConfig(cfg AuthConfig) error {
	if cfg.Enabled && cfg.APIKey == "" {
		return fmt.Errorf("API key is required when authentication is enabled")
	}
	if cfg.Enabled && len(cfg.APIKey) < 16 {
		return fmt.Errorf("API key must be at least 16 characters (got %d)", len(cfg.APIKey))
	}
	return nil
}

// authorized reports whether r carries the configured key, in the X-API-Key
// header or, for websocket clients that cannot set headers, the api_key
// query parameter. The reason is empty on success.
func (cfg AuthConfig) authorized(r *http.Request) (bool, string) {
	if !cfg.Enabled {
		return true, ""
	}
	key := r.Header.Get("X-API-Key")
	if key == "" {
		key = r.URL.Query().Get("api_key")
	}
	if key == "" {
		return false, "missing API key"
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
		return false, "invalid API key"
	}
	return true, ""
}

// AuthMiddleware rejects requests without a valid API key when auth is
// enabled. Public endpoints always pass.
func AuthMiddleware(cfg AuthConfig) server.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if ok, reason := cfg.authorized(r); !ok {
				logging.SecurityEvent("unauthorized_request", "auth",
					"path", r.URL.Path,
					"client_ip", server.ClientIP(r),
					"reason", reason)
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized: "+reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
