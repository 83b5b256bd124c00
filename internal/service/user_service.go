package service

import (
	"context"
	"fmt"
	"log"

	"orbitdrive/internal/auth"
	"orbitdrive/internal/domain"
	"orbitdrive/internal/repository"
)

// UserService связывает внешний identity provider и локальный профиль:
// провайдер хранит учетные данные, мы — только email и имя.
type UserService struct {
	userRepo     *repository.UserRepository
	authClient   *auth.Client
	tokenManager *auth.TokenManager
}

func NewUserService(
	userRepo *repository.UserRepository,
	authClient *auth.Client,
	tokenManager *auth.TokenManager,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		authClient:   authClient,
		tokenManager: tokenManager,
	}
}

// Signup регистрирует учетную запись у провайдера и заводит профиль.
func (s *UserService) Signup(ctx context.Context, email, password, name, lastname string, countryID *int64) (*domain.User, error) {
	externalID, err := s.authClient.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	log.Printf("[Signup] Identity provider account created: %s", externalID)

	user := &domain.User{
		Email:     email,
		Name:      name,
		Lastname:  lastname,
		CountryID: countryID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login проверяет пару email/пароль у провайдера и выпускает сессионный
// токен с идентификатором и email пользователя.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if _, err := s.authClient.VerifyCredentials(ctx, email, password); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokenManager.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}
