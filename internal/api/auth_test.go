package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthMiddleware(t *testing.T) {
	quiet(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		cfg    AuthConfig
		path   string
		header string
		query  string
		want   int
	}{
		{"disabled", AuthConfig{}, "/books", "", "", http.StatusOK},
		{"valid header", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/books", testAPIKey, "", http.StatusOK},
		{"valid query", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/ws/random", "", "?api_key=" + testAPIKey, http.StatusOK},
		{"missing key", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/books", "", "", http.StatusUnauthorized},
		{"wrong key", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/books", "wrong-key-0123456789", "", http.StatusUnauthorized},
		{"case sensitive", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/books", "TEST-API-KEY-0123456789", "", http.StatusUnauthorized},
		{"public root", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/", "", "", http.StatusOK},
		{"public health", AuthConfig{Enabled: true, APIKey: testAPIKey}, "/health", "", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(tt.cfg)(ok).ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestValidateAuthConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{}, false},
		{"disabled with short key", AuthConfig{APIKey: "x"}, false},
		{"enabled", AuthConfig{Enabled: true, APIKey: testAPIKey}, false},
		{"enabled no key", AuthConfig{Enabled: true}, true},
		{"enabled short key", AuthConfig{Enabled: true, APIKey: "0123456789"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAuthConfig(tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("ValidateAuthConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthThroughServer(t *testing.T) {
	srv, _ := newTestServer(t, Config{Auth: AuthConfig{Enabled: true, APIKey: testAPIKey}})
	h := srv.Handler()

	w, env := do(t, h, http.MethodGet, "/books", nil)
	if w.Code != http.StatusUnauthorized || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("status = %d, error = %+v", w.Code, env.Error)
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("rejected requests should still carry security headers")
	}

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authorized status = %d", rec.Code)
	}
}
