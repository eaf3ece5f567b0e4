package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"academy/internal/auth"
	apperrors "academy/internal/errors"
	"academy/internal/model"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("password123")))
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	admin := &model.User{
		ID:           "u1",
		Email:        "pablo@visualgrowth.info",
		PasswordHash: string(hashedPassword),
		FullName:     "Pablo Admin",
		Role:         "Admin",
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "pablo@visualgrowth.info",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "pablo@visualgrowth.info").Return(admin, nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "pablo@visualgrowth.info",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "pablo@visualgrowth.info").Return(admin, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService)

			token, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				require.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, "u1", claims.UserID)
				assert.Equal(t, "Admin", claims.Role)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginRepositoryFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@b.c").Return(nil, errors.New("connection refused"))

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour))
	_, _, err := service.Login(context.Background(), "a@b.c", "x")

	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrUserNotFound))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Me(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, "u2").Return(&model.User{ID: "u2", Email: "catherine@sustainable-luxury.com"}, nil)
	mockRepo.On("FindByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour))

	user, err := service.Me(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "catherine@sustainable-luxury.com", user.Email)

	_, err = service.Me(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	mockRepo.AssertExpectations(t)
}
