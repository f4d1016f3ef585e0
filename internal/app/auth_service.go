package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quizhub/internal/domain"
)

const minPasswordLen = 8

// AuthService handles registration, login and session resolution. Sessions
// are opaque tokens stored server-side with a TTL.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
}

func NewAuthService(users UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates an account. The email must be unused.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	var fields []domain.FieldError
	if strings.TrimSpace(name) == "" {
		fields = append(fields, domain.FieldError{Path: "name", Message: "Name is required"})
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, domain.FieldError{Path: "email", Message: "A valid email is required"})
	}
	if len(password) < minPasswordLen {
		fields = append(fields, domain.FieldError{Path: "password", Message: "Password must contain at least 8 characters"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, user.ID); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}
	return user, token, nil
}

// Logout discards the session. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// UserFromToken resolves the session token to its account.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
