package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"parkshare/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64) (string, error) { return "token", nil }

func TestRegisterSuccess(t *testing.T) {
	users := new(MockUserRepository)
	users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := NewService(users, stubJWT{})

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "New User",
		Email:    "New@Example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

	svc := NewService(users, stubJWT{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dup",
		Email:    "dup@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           5,
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := NewService(users, stubJWT{})

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", result.AccessToken)
	assert.Equal(t, int64(5), result.User.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           5,
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := NewService(users, stubJWT{})

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
