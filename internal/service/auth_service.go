package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// Domain errors for auth flows.
var (
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles registration, login and token issuing/parsing.
type AuthService struct {
	users      repository.Users
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.Users, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		users:      users,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
	}
}

// Claims defines the JWT payload: identity plus role.
type Claims struct {
	jwt.RegisteredClaims
	UserID int         `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// Register hashes the password and creates a new user with the user role.
// Fails with ErrEmailTaken if the email is already stored (case-sensitive).
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(ctx, email, hash, models.RoleUser)
	if err != nil {
		return models.User{}, err
	}

	return models.User{ID: id, Email: email, Role: models.RoleUser}, nil
}

// Login validates credentials and returns a signed token with the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, err
	}
	if u == nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(*u)
	if err != nil {
		return "", models.User{}, err
	}
	return token, *u, nil
}

// ParseToken verifies signature and expiry and returns the embedded claims.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// UserByID re-resolves a token subject against the store. Returns (nil, nil)
// if the user no longer exists.
func (s *AuthService) UserByID(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT carrying identity and role claims
func (s *AuthService) issueToken(u models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
	return token.SignedString(s.signingKey)
}
