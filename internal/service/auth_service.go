package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"super-tasks/internal/model"
	"super-tasks/internal/repository"
)

const (
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes.
	maxPasswordBytes = 72
)

// SignUpInput is the registration payload.
type SignUpInput struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation *string `json:"password_confirmation"`
}

// AuthService registers and authenticates users.
type AuthService struct {
	users *repository.UserRepository
	cost  int
}

// NewAuthService uses bcrypt.DefaultCost when cost is zero.
func NewAuthService(users *repository.UserRepository, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cost: cost}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	var v ValidationError
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		v.Add("email", msgBlank)
	case !validEmail.MatchString(email):
		v.Add("email", "is invalid")
	default:
		taken, err := s.users.EmailTaken(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			v.Add("email", "has already been taken")
		}
	}
	switch {
	case in.Password == "":
		v.Add("password", msgBlank)
	case len(in.Password) < minPasswordLength:
		v.Add("password", fmt.Sprintf("is too short (minimum is %d characters)", minPasswordLength))
	case len(in.Password) > maxPasswordBytes:
		v.Add("password", fmt.Sprintf("is too long (maximum is %d characters)", maxPasswordBytes))
	}
	if in.PasswordConfirmation != nil && *in.PasswordConfirmation != in.Password {
		v.Add("password_confirmation", "doesn't match Password")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		PasswordDigest: string(digest),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			v.Add("email", "has already been taken")
			return nil, &v
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate returns ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) User(ctx context.Context, id uint) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// LinkTelegram stores the chat that receives digests; nil unlinks.
func (s *AuthService) LinkTelegram(ctx context.Context, userID uint, chatID *int64) (*model.User, error) {
	if err := s.users.SetTelegramChatID(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}
