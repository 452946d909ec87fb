package app

import (
	"context"
	"fmt"

	"github.com/cimillas/ticketline/internal/auth"
	"github.com/cimillas/ticketline/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, userID string) (domain.User, error)
}

// AuthService handles registration and login. Passwords are stored as
// bcrypt hashes; the issued token is opaque to the rest of the system.
type AuthService struct {
	repo UserRepository
}

func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

type Credentials struct {
	UserID   string
	Password string
}

type Session struct {
	Token  string
	UserID string
}

func (s *AuthService) Register(ctx context.Context, cred Credentials) (Session, error) {
	if cred.UserID == "" || cred.Password == "" {
		return Session{}, domain.ErrCredentialsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.CreateUser(ctx, domain.User{ID: cred.UserID, PasswordHash: string(hash)}); err != nil {
		return Session{}, err
	}

	return Session{Token: auth.Token(cred.UserID), UserID: cred.UserID}, nil
}

func (s *AuthService) Login(ctx context.Context, cred Credentials) (Session, error) {
	if cred.UserID == "" || cred.Password == "" {
		return Session{}, domain.ErrCredentialsRequired
	}

	user, err := s.repo.GetUser(ctx, cred.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)) != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	return Session{Token: auth.Token(cred.UserID), UserID: cred.UserID}, nil
}
