package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
	"rental-marketplace-backend/internal/repository"
	"rental-marketplace-backend/internal/security"
)

var ErrInvalidCredentials = domain.Unauthenticated("invalid email or password")

const minPasswordLength = 8

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role domain.UserRole) (user *domain.User, err error) {
	defer logger.Tracked("authService.Register", &err, "email", email)()

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, domain.InvalidInput("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.InvalidInput("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, domain.InvalidInput("password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = domain.UserRoleUser
	}
	// admins are provisioned out of band
	if role != domain.UserRoleUser && role != domain.UserRoleLandlord {
		return nil, domain.InvalidInput("role must be user or landlord")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user = &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", domain.PreconditionFailed("user account is not active")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
