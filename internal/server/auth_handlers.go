package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/todoboard/internal/auth"
	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// handleRegister creates a new account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("hashing password", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	user := model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeMessage(w, http.StatusConflict, "Email already registered")
			return
		}
		s.log.Error("creating user", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	created, err := s.store.GetUserByEmail(r.Context(), user.Email)
	if err != nil {
		s.log.Error("loading created user", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleLogin verifies credentials and issues a session token. The
// token is returned in the body and mirrored in an HttpOnly cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.log.Error("loading user for login", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		s.log.Error("issuing session token", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: *user})
}

// handleLogout clears the session cookie. Tokens are stateless, so the
// bearer copy simply expires.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeMessage(w, http.StatusOK, "Logged out")
}

// handleSession returns the authenticated caller's account.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		s.log.Error("loading session user", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
