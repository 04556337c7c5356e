package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sqlfleet/pkg/auth"
	"sqlfleet/pkg/model"
)

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister only allows the first user to be created (admin).
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "user accounts not configured", http.StatusServiceUnavailable)
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	var count int64
	s.DB.Model(&model.User{}).Count(&count)
	if count > 0 {
		http.Error(w, "registration closed", http.StatusForbidden)
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	user := model.User{Username: req.Username, PasswordHash: string(hash), IsAdmin: true}
	if err := s.DB.Create(&user).Error; err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	token, _ := auth.Generate(user.ID, user.Username, user.IsAdmin, 24*time.Hour)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "user accounts not configured", http.StatusServiceUnavailable)
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	var user model.User
	if err := s.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, _ := auth.Generate(user.ID, user.Username, user.IsAdmin, 24*time.Hour)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// requireAuth accepts the static bootstrap token or a valid JWT bearer.
// With neither configured the daemon is open (dev mode).
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Token == "" && s.DB == nil {
			next(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(h, "Bearer ")
		if s.Token != "" && token == s.Token {
			next(w, r)
			return
		}
		if _, err := auth.Parse(token); err == nil {
			next(w, r)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
}
