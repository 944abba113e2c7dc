package util

import (
	"testing"
	"time"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/entity"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser() *entity.User {
	return &entity.User{
		ID:          primitive.NewObjectID(),
		Email:       "anna@example.com",
		Name:        "Anna",
		PhoneNumber: "+1234567890",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 15*time.Minute)
	user := testUser()

	token, err := manager.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, 15*time.Minute)

	token, err := manager.GenerateToken(testUser())
	assert.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTManager("one-secret", time.Hour, 15*time.Minute)
	verifier := NewJWTManager("other-secret", time.Hour, 15*time.Minute)

	token, err := issuer.GenerateToken(testUser())
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 15*time.Minute)

	_, err := manager.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateResetToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 15*time.Minute)

	token, err := manager.GenerateResetToken("anna@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}
