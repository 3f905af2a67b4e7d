package service

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*model.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	user := &model.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	// 测试成功注册，密码必须被哈希
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	err := service.Register(context.Background(), user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// 测试邮箱已存在
	mockRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{}, nil)

	err = service.Register(context.Background(), &model.User{
		Username: "other",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmailExists))
}

// TestRegisterDuplicateKeyRace 先查后插之间被并发注册抢先时，
// 唯一索引的重复键错误也要映射为邮箱已存在
func TestRegisterDuplicateKeyRace(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	dupErr := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	mockRepo.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(dupErr)

	err := service.Register(context.Background(), &model.User{
		Username: "racer",
		Email:    "raced@example.com",
		Password: "password123",
	})
	assert.True(t, errors.Is(err, errors.ErrEmailExists))
	mockRepo.AssertExpectations(t)
}

// TestLogin 测试用户登录功能
func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	storedUser := &model.User{
		ID:       primitive.NewObjectID(),
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
	}

	// 测试成功登录
	mockRepo.On("FindByUsername", mock.Anything, "testuser").Return(storedUser, nil)

	user, err := service.Login(context.Background(), "testuser", "password123")
	assert.NoError(t, err)
	assert.Equal(t, storedUser.ID, user.ID)

	// 测试密码错误
	_, err = service.Login(context.Background(), "testuser", "wrongpassword")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	// 测试用户不存在
	mockRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, nil)

	_, err = service.Login(context.Background(), "nobody", "password123")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

// TestResetPassword 测试密码重置功能
func TestResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	storedUser := &model.User{
		ID:       primitive.NewObjectID(),
		Username: "testuser",
		Email:    "test@example.com",
	}

	// 用户名加邮箱匹配时重置成功，存储的是新密码的哈希
	mockRepo.On("FindByUsernameAndEmail", mock.Anything, "testuser", "test@example.com").Return(storedUser, nil)
	mockRepo.On("UpdatePassword", mock.Anything, storedUser.ID.Hex(), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
	})).Return(nil)

	err := service.ResetPassword(context.Background(), "testuser", "test@example.com", "newpassword")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// 找不到匹配的用户时按契约返回 400
	mockRepo.On("FindByUsernameAndEmail", mock.Anything, "testuser", "wrong@example.com").Return(nil, nil)

	err = service.ResetPassword(context.Background(), "testuser", "wrong@example.com", "newpassword")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}
