package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"campusride-backend/internal/models"
	"campusride-backend/internal/store"
	"campusride-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool                 `json:"ok"`
	Token string               `json:"token,omitempty"`
	User  *models.UserResponse `json:"user,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login authenticates against the user collection and issues a JWT
func Login(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		log.Printf("🔐 Login attempt for: %s", req.Email)

		// Get JWT secret
		jwtSecret := os.Getenv("APP_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("❌ JWT secret not configured")
			utils.RespondJSON(w, http.StatusInternalServerError, LoginResponse{OK: false})
			return
		}

		// Find user by email
		user, err := db.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			log.Printf("❌ User not found: %s", req.Email)
			utils.RespondJSON(w, http.StatusUnauthorized, LoginResponse{OK: false})
			return
		}

		// Verify password
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Printf("❌ Invalid password for: %s", req.Email)
			utils.RespondJSON(w, http.StatusUnauthorized, LoginResponse{OK: false})
			return
		}

		// Create JWT token with user info
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.UserID,
			"email":   user.Email,
			"role":    user.Role,
			"iat":     time.Now().Unix(),
			"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		})

		tokenString, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			log.Println("❌ Failed to create token")
			http.Error(w, "Failed to create token", http.StatusInternalServerError)
			return
		}

		userResponse := user.ToUserResponse()
		log.Printf("✅ Login successful: %s (%s)", user.Email, user.Role)

		utils.RespondJSON(w, http.StatusOK, LoginResponse{
			OK:    true,
			Token: tokenString,
			User:  &userResponse,
		})
	}
}

// Register creates a rider account. Driver and admin accounts are
// provisioned by the seed tooling, not through this endpoint.
func Register(db *store.Firestore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			utils.RespondError(w, http.StatusBadRequest, "A valid email is required")
			return
		}
		if len(req.Password) < 8 {
			utils.RespondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			utils.RespondError(w, http.StatusBadRequest, "Name is required")
			return
		}

		if _, err := db.GetUserByEmail(r.Context(), req.Email); err == nil {
			utils.RespondError(w, http.StatusConflict, "An account with this email already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash password: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create account")
			return
		}

		user := &models.User{
			UserID:       uuid.New().String(),
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Role:         "rider",
			CreatedAt:    time.Now(),
		}

		if err := db.SaveUser(r.Context(), user); err != nil {
			log.Printf("❌ Failed to save user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create account")
			return
		}

		log.Printf("✅ Account created: %s", user.Email)
		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"user":    user.ToUserResponse(),
		})
	}
}
