package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dutytrack-backend/internal/auth"
	"dutytrack-backend/internal/middleware"
	"dutytrack-backend/internal/store"
	"dutytrack-backend/pkg/utils"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Login checks the credentials against the seeded users and issues a
// short-lived token.
// POST /login
func Login(users store.UserStore, tokens *auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Username)

		user, err := users.FindByCredentials(r.Context(), req.Username, req.Password)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("❌ Invalid credentials for: %s", req.Username)
			utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if err != nil {
			log.Printf("❌ Error looking up user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error logging in")
			return
		}

		token, err := tokens.IssueLoginToken(user.ID, user.Username)
		if err != nil {
			log.Printf("❌ Failed to create token: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		log.Printf("✅ Login successful: %s", user.Username)
		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			Message:  "Login successful!",
			Username: user.Username,
			Token:    token,
		})
	}
}

// Dashboard is the token-protected probe: it echoes the verified claims
// back to the caller. Must sit behind middleware.Auth.
// GET /dashboard
func Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Welcome to the dashboard",
			"user": map[string]string{
				"user_id":  claims.UserID,
				"username": claims.Username,
			},
		})
	}
}
