package service

import (
	"context"
	"errors"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/repository"
	"keyportal-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	operatorRepo repository.OperatorRepository
	tokens       security.TokenManager
}

func NewAuthService(operatorRepo repository.OperatorRepository, tokens security.TokenManager) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		tokens:       tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	op, err := s.operatorRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateAccessToken(op.ID, op.Email, string(op.Role))
}

func (s *authService) CreateOperator(ctx context.Context, name, email, password string, role domain.OperatorRole) (*domain.Operator, error) {
	if email == "" || password == "" {
		return nil, domain.Validationf("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	op := &domain.Operator{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.operatorRepo.Create(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}
