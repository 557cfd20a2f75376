package http

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AuthHandler implements the single-password signin. A bcrypt hash is the
// normal configuration; a plain password is accepted as a fallback and
// compared in constant time.
type AuthHandler struct {
	passwordHash string
	password     string
}

func NewAuthHandler(passwordHash, password string) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, password: password}
}

type SignInRequest struct {
	Password string `json:"password"`
}

type SignInResponse struct {
	Success bool `json:"success"`
}

// HandleSignIn verifies the application password.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding signin request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !h.verify(req.Password) {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignInResponse{Success: true})
}

func (h *AuthHandler) verify(password string) bool {
	if h.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(password)) == nil
	}
	if h.password != "" {
		return subtle.ConstantTimeCompare([]byte(h.password), []byte(password)) == 1
	}
	return false
}
