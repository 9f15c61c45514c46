package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"bookvault/internal/app"
	"bookvault/internal/domain"
	"bookvault/internal/storage"
	"bookvault/internal/util"
	"bookvault/internal/validation"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.registerLimiter, msgTooManyRegisters) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidForm)
		return
	}

	stored, ok := s.saveUploadedImage(w, r)
	if !ok {
		return
	}

	in := validation.RegisterInput{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		Gender:          r.FormValue("gender"),
		Interest:        interestValues(r),
	}
	if msgs := validation.ValidateRegister(in); len(msgs) > 0 {
		s.discardImage(r.Context(), stored)
		s.audit(r, "auth.register", "fail", "reason", "validation")
		writeMessages(w, http.StatusBadRequest, msgs)
		return
	}

	user, err := s.app.Register(in, stored.URL)
	if err != nil {
		s.discardImage(r.Context(), stored)
		if errors.Is(err, app.ErrEmailTaken) {
			s.audit(r, "auth.register", "fail", "reason", "duplicate_email")
			writeMessage(w, http.StatusBadRequest, msgDuplicateEmail)
			return
		}
		util.LoggerFromContext(r.Context()).Error("register user", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return
	}

	s.audit(r, "auth.register", "success", "user_id", user.ID)
	writeMessage(w, http.StatusCreated, msgSignUpSuccess)
}

// saveUploadedImage stores the optional profile image before validation so a
// later validation failure can clean it up. The bool result is false when a
// response has already been written.
func (s *Server) saveUploadedImage(w http.ResponseWriter, r *http.Request) (storage.StoredImage, bool) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return storage.StoredImage{}, true
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidForm)
		return storage.StoredImage{}, false
	}
	defer file.Close()

	if !s.extensionAllowed(header) {
		writeMessage(w, http.StatusBadRequest, msgUnsupportedFile)
		return storage.StoredImage{}, false
	}
	if s.images == nil {
		writeMessage(w, http.StatusBadRequest, msgUnsupportedFile)
		return storage.StoredImage{}, false
	}
	stored, err := s.images.Save(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("store upload", "err", err)
		writeMessage(w, http.StatusInternalServerError, msgGenericError)
		return storage.StoredImage{}, false
	}
	return stored, true
}

func (s *Server) extensionAllowed(header *multipart.FileHeader) bool {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	_, ok := s.allowedExtensions[ext]
	return ok
}

// discardImage removes a stored upload best-effort; failures are logged, not
// surfaced.
func (s *Server) discardImage(ctx context.Context, stored storage.StoredImage) {
	if stored.Key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, stored.Key); err != nil {
		util.LoggerFromContext(ctx).Warn("discard upload", "key", stored.Key, "err", err)
	}
}

// interestValues accepts both repeated form fields and a single
// comma-separated value.
func interestValues(r *http.Request) []string {
	raw := r.Form["interest"]
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}
	return out
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.loginLimiter, msgTooManyLogins) {
		return
	}

	var in validation.LoginInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if msgs := validation.ValidateLogin(in); len(msgs) > 0 {
		writeMessages(w, http.StatusBadRequest, msgs)
		return
	}

	user, token, err := s.app.Login(in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			s.audit(r, "auth.login", "fail", "reason", "unknown_email")
			writeMessage(w, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, app.ErrWrongPassword):
			s.audit(r, "auth.login", "fail", "reason", "wrong_password")
			writeMessage(w, http.StatusBadRequest, msgWrongPassword)
		default:
			util.LoggerFromContext(r.Context()).Error("login", "err", err)
			writeMessage(w, http.StatusInternalServerError, msgGenericError)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(4 * time.Hour),
	})
	s.audit(r, "auth.login", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msgLoginSuccess,
		"token":   token,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msgProfileRetrieved,
		"profile": user,
	})
}
