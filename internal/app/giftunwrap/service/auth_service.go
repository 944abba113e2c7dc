package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/util"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService обрабатывает регистрацию, вход и управление паролями
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// Register регистрирует нового пользователя
// Пароль хранится только в виде bcrypt-хэша
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Гонка двух одновременных регистраций ловится уникальным индексом email
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.AuthRegistrations.Inc()
	logger.Info().Str("email", user.Email).Msg("User registered")

	return user, nil
}

// Login проверяет учетные данные и выпускает JWT
// Ответ одинаков для неизвестного email и неверного пароля
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()

	return &entity.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    *user,
	}, nil
}

// ForgotPassword выпускает короткоживущий токен сброса пароля
// Токен возвращается в ответе; почтовая рассылка пока не подключена
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.jwtManager.GenerateResetToken(email)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return token, nil
}

// ResetPassword устанавливает новый пароль по email
func (s *AuthService) ResetPassword(ctx context.Context, req *entity.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if util.CheckPassword(req.Password, user.PasswordHash) {
		return ErrSamePassword
	}

	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, req.Email, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info().Str("email", req.Email).Msg("Password reset")

	return nil
}

// ChangePassword меняет пароль после проверки текущего
func (s *AuthService) ChangePassword(ctx context.Context, req *entity.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !util.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return ErrIncorrectPassword
	}

	if req.NewPassword == req.CurrentPassword {
		return ErrSamePassword
	}

	passwordHash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, req.Email, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// GetAllUsers возвращает всех пользователей для админ-портала
func (s *AuthService) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя по ID
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrInvalidUserID
	}

	if err := s.userRepo.Delete(ctx, userOID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
