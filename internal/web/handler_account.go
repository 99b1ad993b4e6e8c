package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arwisata/oratorio/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("failed to parse request body: %w", domain.ErrValidation))
		return
	}

	user, err := s.accounts.Register(r.Context(), body.Email, body.Password, body.Name)
	if err != nil {
		s.logger.Error("registration failed", "email", body.Email, "error", err)
		s.writeError(w, err)
		return
	}
	s.writeOK(w, http.StatusCreated, "Registered", map[string]any{"user_id": user.UserID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("failed to parse request body: %w", domain.ErrValidation))
		return
	}

	session, err := s.accounts.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.logger.Warn("login failed", "email", body.Email, "error", err)
		s.writeError(w, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Login successful", map[string]any{"user": session})
}
