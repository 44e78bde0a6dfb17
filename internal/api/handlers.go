package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/cache"
	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/sqlite"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/server"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
)

// maxEventBytes bounds POST /theme bodies.
const maxEventBytes = 4 << 10

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status   string      `json:"status"`
	Version  string      `json:"version"`
	Driver   string      `json:"driver"`
	Uptime   string      `json:"uptime"`
	Clients  int         `json:"feed_clients"`
	Database string      `json:"database"`
	Cache    cache.Stats `json:"count_cache"`
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	respondMeta(w, status, data, 0)
}

func respondMeta(w http.ResponseWriter, status int, data interface{}, total int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status < 400,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// respondErr maps the error taxonomy onto HTTP statuses.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, errors.ErrNoVerseData):
		respondError(w, http.StatusServiceUnavailable, "NO_VERSE_DATA", err.Error())
	case errors.Is(err, errors.ErrStorageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "verse data is unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func pathInt(r *http.Request, name string) (int, error) {
	v := r.PathValue(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.NewValidation(name, "must be a number: "+server.SanitizeInput(v))
	}
	return n, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "Juniper Reader API",
		"version": s.cfg.Version,
		"endpoints": []string{
			"GET /health",
			"GET /books",
			"GET /books/{number}",
			"GET /books/{number}/chapters",
			"GET /chapters/{book}/{chapter}",
			"GET /passage?ref=",
			"GET /random",
			"GET /info",
			"GET /theme",
			"POST /theme",
			"GET /ws/random",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	database := "ok"
	if len(s.lib.Info(r.Context())) == 0 {
		database = "unavailable"
	}
	respond(w, http.StatusOK, HealthStatus{
		Status:   "healthy",
		Version:  s.cfg.Version,
		Driver:   sqlite.DriverType(),
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
		Clients:  s.hub.Clients(),
		Database: database,
		Cache:    s.lib.CacheStats(),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	books := s.lib.Books()
	if q := r.URL.Query().Get("testament"); q != "" {
		t, ok := catalog.ParseTestament(q)
		if !ok {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT",
				"testament must be old or new, got "+strconv.Quote(server.SanitizeInput(q)))
			return
		}
		books = s.lib.BooksByTestament(t)
	}
	respondMeta(w, http.StatusOK, books, len(books))
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "number")
	if err != nil {
		respondErr(w, err)
		return
	}
	b, err := s.lib.Book(n)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, b)
}

func (s *Server) handleBookChapters(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "number")
	if err != nil {
		respondErr(w, err)
		return
	}
	counts, err := s.lib.VerseCounts(r.Context(), n)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondMeta(w, http.StatusOK, counts, len(counts))
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	book, err := pathInt(r, "book")
	if err != nil {
		respondErr(w, err)
		return
	}
	chapter, err := pathInt(r, "chapter")
	if err != nil {
		respondErr(w, err)
		return
	}
	sel, err := s.lib.Select(book, chapter)
	if err != nil {
		respondErr(w, err)
		return
	}
	p := s.lib.Chapter(r.Context(), sel)
	respondMeta(w, http.StatusOK, p, len(p.Verses))
}

func (s *Server) handlePassage(w http.ResponseWriter, r *http.Request) {
	ref := server.SanitizeInput(r.URL.Query().Get("ref"))
	if ref == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "ref query parameter is required")
		return
	}
	p, err := s.lib.Passage(r.Context(), ref)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondMeta(w, http.StatusOK, p, len(p.Verses))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	p, err := s.lib.Random(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if p.Unavailable {
		respondErr(w, errors.ErrStorageUnavailable)
		return
	}
	respondMeta(w, http.StatusOK, p, len(p.Verses))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := s.lib.Info(r.Context())
	respondMeta(w, http.StatusOK, info, len(info))
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.Theme())
}

func (s *Server) handlePostTheme(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "failed to read request body")
		return
	}
	if len(body) > maxEventBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "TOO_LARGE", "theme event too large")
		return
	}
	ev, err := theme.ParseEvent(body, s.Theme().Palette)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, s.ApplyTheme(ev))
}
