// Package server provides shared HTTP middleware for the reader API.
package server

import (
	"net"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware so that the first one listed is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// OriginAllowed reports whether origin matches one of the allowed patterns:
// "*", an exact origin, or "*.example.com" for any subdomain.
// An empty origin never matches.
func OriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		switch {
		case a == "*", a == origin:
			return true
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(origin, a[1:]) {
				return true
			}
		}
	}
	return false
}

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	AllowedOrigins []string // empty = allow all (*)
}

// CORS adds CORS headers. With no allowed origins every origin gets "*";
// otherwise only listed origins are echoed back and others get no headers,
// which makes the browser block the response.
func CORS(cfg CORSConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowOrigin := "*"
			if len(cfg.AllowedOrigins) > 0 {
				origin := r.Header.Get("Origin")
				if !OriginAllowed(origin, cfg.AllowedOrigins) {
					if r.Method == http.MethodOptions {
						w.WriteHeader(http.StatusForbidden)
						return
					}
					next.ServeHTTP(w, r)
					return
				}
				allowOrigin = origin
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowOrigin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
			if allowOrigin != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSP is a Content-Security-Policy as ordered directive/source pairs.
type CSP [][2]string

// APICSP is the policy for JSON endpoints: nothing may be loaded or framed.
func APICSP() CSP {
	return CSP{
		{"default-src", "'none'"},
		{"frame-ancestors", "'none'"},
		{"base-uri", "'none'"},
		{"form-action", "'none'"},
	}
}

// String renders the header value.
func (c CSP) String() string {
	parts := make([]string, 0, len(c))
	for _, d := range c {
		if d[1] == "" {
			parts = append(parts, d[0])
			continue
		}
		parts = append(parts, d[0]+" "+d[1])
	}
	return strings.Join(parts, "; ")
}

// SecurityHeaders sets the standard hardening headers and the given policy.
func SecurityHeaders(csp CSP) Middleware {
	policy := csp.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if policy != "" {
				h.Set("Content-Security-Policy", policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address, preferring a valid leftmost
// X-Forwarded-For entry, then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return "unknown"
}

// MaxInputLength bounds user-supplied query strings.
const MaxInputLength = 256

// SanitizeInput trims s, drops control characters and truncates it to
// MaxInputLength bytes.
func SanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if len(s) > MaxInputLength {
		s = s[:MaxInputLength]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}
