package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

type AuthService struct {
	users     *repository.UserRepository
	redis     *redis.Client
	validator *ValidationHelper
	logger    *zap.Logger
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SetAuthDefaults registers the jwt and argon2 defaults.
func SetAuthDefaults() {
	viper.SetDefault("jwt.secret_key", "change-me")
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
}

func NewAuthService(users *repository.UserRepository, redisClient *redis.Client, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		redis:     redisClient,
		validator: NewValidationHelper(),
		logger:    logger.Named("auth"),
	}
}

// Login handles user authentication
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.logger.Info("login rejected, invalid request", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	email := strings.ToLower(req.Email)
	user, err := s.users.FindByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("user lookup failed", zap.String("email", email), zap.Error(err))
			SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
			return
		}
		s.logger.Info("login failed, unknown user", zap.String("email", email))
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	if !user.IsActive || !VerifyPassword(req.Password, user.PasswordHash) {
		s.logger.Info("login failed, bad password or inactive user", zap.String("user_id", user.ID))
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	token, err := generateJWT(user)
	if err != nil {
		s.logger.Error("jwt generation failed", zap.String("user_id", user.ID), zap.Error(err))
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	s.logger.Info("login successful", zap.String("user_id", user.ID))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: user})
}

// Logout blacklists the bearer token until it would have expired.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" && s.redis != nil {
		expiry := time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour
		if err := s.redis.Set(r.Context(), blacklistKey(token), "1", expiry).Err(); err != nil {
			s.logger.Warn("failed to blacklist token", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logout successful"})
}

// IsBlacklisted reports whether token was logged out. Without redis nothing
// is blacklisted.
func (s *AuthService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	if s.redis == nil {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

func generateJWT(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

// HashPassword returns an argon2id hash encoded as base64(salt)$base64(hash).
func HashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s$%s",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(argon2Key(password, salt))), nil
}

func VerifyPassword(password, hashedPassword string) bool {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(hash, argon2Key(password, salt)) == 1
}

func argon2Key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
}
