// Package server exposes the HTTP surface: auth endpoints, book CRUD, and
// static serving of uploaded images.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"bookvault/internal/app"
	"bookvault/internal/domain"
	"bookvault/internal/ratelimit"
	"bookvault/internal/storage"
	"bookvault/internal/util"
)

const defaultMaxUploadBytes = 5 * 1024 * 1024

// Config wires required dependencies for the HTTP server.
type Config struct {
	App    *app.App
	Images storage.ImageStore

	// StaticDir/StaticPath enable static serving of disk-stored uploads.
	StaticDir  string
	StaticPath string

	MaxUploadBytes         int64
	AllowedImageExtensions []string

	// Limiters are optional; nil disables rate limiting for that route.
	LoginLimiter    *ratelimit.FixedWindowLimiter
	RegisterLimiter *ratelimit.FixedWindowLimiter
}

// Server handles HTTP requests for the backend.
type Server struct {
	app               *app.App
	images            storage.ImageStore
	mux               *http.ServeMux
	maxUploadBytes    int64
	allowedExtensions map[string]struct{}
	loginLimiter      *ratelimit.FixedWindowLimiter
	registerLimiter   *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:               cfg.App,
		images:            cfg.Images,
		mux:               http.NewServeMux(),
		maxUploadBytes:    normalizeMaxBytes(cfg.MaxUploadBytes),
		allowedExtensions: normalizeExtensions(cfg.AllowedImageExtensions),
		loginLimiter:      cfg.LoginLimiter,
		registerLimiter:   cfg.RegisterLimiter,
	}
	s.routes(cfg.StaticDir, cfg.StaticPath)
	return s
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes(staticDir, staticPath string) {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/auth/register", s.handleRegister)
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.Handle("/auth/profile", s.authenticated(s.handleProfile))

	// books (auth required)
	s.mux.Handle("/book", s.authenticated(s.handleBooks))
	s.mux.Handle("/book/", s.authenticated(s.handleBookByID))

	// uploaded images
	if staticDir != "" && staticPath != "" {
		prefix := "/" + strings.Trim(staticPath, "/") + "/"
		s.mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(staticDir))))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrapper
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

// authenticated enforces the bearer-token contract: 403 with a token-missing
// message when the header is absent or malformed, 403 with an unauthorized
// message when verification fails.
func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.audit(r, "auth.token.verify", "fail", "reason", "missing_token")
			writeMessage(w, http.StatusForbidden, msgTokenMissing)
			return
		}
		user, err := s.app.UserFromToken(token)
		if err != nil {
			if app.IsInvalidToken(err) {
				s.audit(r, "auth.token.verify", "fail", "reason", "invalid_signature_or_claims")
				writeMessage(w, http.StatusForbidden, msgUnauthorized)
				return
			}
			s.audit(r, "auth.token.verify", "fail", "reason", "lookup_failed")
			writeMessage(w, http.StatusInternalServerError, msgGenericError)
			return
		}
		next(w, r, user)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, limiter *ratelimit.FixedWindowLimiter, msg string) bool {
	if limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r)
	if limiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeMessage(w, http.StatusTooManyRequests, msg)
	return false
}

func (s *Server) audit(r *http.Request, event, outcome string, attrs ...any) {
	logAttrs := []any{
		"event", event,
		"outcome", outcome,
		"path", r.URL.Path,
		"method", r.Method,
		"ip", util.ClientIP(r),
	}
	logAttrs = append(logAttrs, attrs...)
	logger := util.LoggerFromContext(r.Context())
	if outcome == "success" {
		logger.Info("security_event", logAttrs...)
		return
	}
	logger.Warn("security_event", logAttrs...)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", "err", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeMessages(w http.ResponseWriter, status int, msgs []string) {
	writeJSON(w, status, map[string]any{"message": msgs})
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return defaultMaxUploadBytes
	}
	return value
}

func normalizeExtensions(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
	}
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}
