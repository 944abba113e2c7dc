package service

import (
	"context"
	"testing"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository/mocks"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthServiceWithMocks() (*AuthService, *mocks.MockUserRepository) {
	userRepo := new(mocks.MockUserRepository)
	jwtManager := util.NewJWTManager("test-secret", time.Hour, 15*time.Minute)
	return NewAuthService(userRepo, jwtManager), userRepo
}

func registerRequest() *entity.RegisterRequest {
	return &entity.RegisterRequest{
		Email:           "anna@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Name:            "Anna",
		PhoneNumber:     "+1234567890",
	}
}

func TestRegister_Success(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(nil, repository.ErrUserNotFound)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil).Run(func(args mock.Arguments) {
		user := args.Get(1).(*entity.User)
		user.ID = primitive.NewObjectID()
	})

	user, err := svc.Register(ctx, registerRequest())

	assert.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, util.CheckPassword("secret123", user.PasswordHash))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()

	req := registerRequest()
	req.ConfirmPassword = "different"

	_, err := svc.Register(context.Background(), req)

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	existing := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com"}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(existing, nil)

	_, err := svc.Register(ctx, registerRequest())

	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin_Success(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("secret123")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash, Name: "Anna"}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)

	resp, err := svc.Login(ctx, &entity.LoginRequest{Email: "anna@example.com", Password: "secret123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Anna", resp.User.Name)
}

// Неизвестный email и неверный пароль дают одинаковую ошибку
func TestLogin_InvalidCredentials(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("secret123")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)
	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, wrongPassword := svc.Login(ctx, &entity.LoginRequest{Email: "anna@example.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, &entity.LoginRequest{Email: "ghost@example.com", Password: "secret123"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestForgotPassword_IssuesToken(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com"}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)

	token, err := svc.ForgotPassword(ctx, "anna@example.com")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := svc.ForgotPassword(ctx, "ghost@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword_SamePasswordRejected(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("secret123")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)

	err := svc.ResetPassword(ctx, &entity.ResetPasswordRequest{Email: "anna@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrSamePassword)
	userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("old-secret")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)
	userRepo.On("UpdatePassword", ctx, "anna@example.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.ResetPassword(ctx, &entity.ResetPasswordRequest{Email: "anna@example.com", Password: "new-secret"})

	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("secret123")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)

	err := svc.ChangePassword(ctx, &entity.ChangePasswordRequest{
		Email:           "anna@example.com",
		CurrentPassword: "wrong",
		NewPassword:     "new-secret",
	})

	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestChangePassword_Success(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	hash, _ := util.HashPassword("secret123")
	user := &entity.User{ID: primitive.NewObjectID(), Email: "anna@example.com", PasswordHash: hash}
	userRepo.On("GetByEmail", ctx, "anna@example.com").Return(user, nil)
	userRepo.On("UpdatePassword", ctx, "anna@example.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.ChangePassword(ctx, &entity.ChangePasswordRequest{
		Email:           "anna@example.com",
		CurrentPassword: "secret123",
		NewPassword:     "new-secret",
	})

	assert.NoError(t, err)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	svc, _ := newAuthServiceWithMocks()

	err := svc.DeleteUser(context.Background(), "garbage")

	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, userRepo := newAuthServiceWithMocks()
	ctx := context.Background()

	userID := primitive.NewObjectID()
	userRepo.On("Delete", ctx, userID).Return(repository.ErrUserNotFound)

	err := svc.DeleteUser(ctx, userID.Hex())

	assert.ErrorIs(t, err, ErrUserNotFound)
}
