package service

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/model"
	"bano-backend/internal/repository/interfaces"
	"bano-backend/internal/util"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// UserServiceInterface 定义用户服务的行为，便于在处理器测试中模拟
type UserServiceInterface interface {
	Register(ctx context.Context, user *model.User) error
	Login(ctx context.Context, username, password string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ResetPassword(ctx context.Context, username, email, newPassword string) error
}

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register 注册新用户，邮箱必须唯一
func (s *UserService) Register(ctx context.Context, user *model.User) error {
	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while registering user.", err)
	}
	if existing != nil {
		return errors.New(errors.ErrEmailExists, "Email already exists.")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "Something went wrong while registering user.", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 先查后插有竞争窗口，重复邮箱最终由唯一索引兜底
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrEmailExists, "Email already exists.")
		}
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while registering user.", err)
	}
	return nil
}

// Login 用用户名加密码登录
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while logging in.", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "Invalid credentials.")
	}
	return user, nil
}

// GetUserByID 通过ID获取用户
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while getting user data.", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found.")
	}
	return user, nil
}

// ResetPassword 重置用户名加邮箱匹配的用户的密码
func (s *UserService) ResetPassword(ctx context.Context, username, email, newPassword string) error {
	user, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while resetting password.", err)
	}
	if user == nil {
		// 按契约该场景返回 400
		return errors.New(errors.ErrBadRequest, "User not found.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "Something went wrong while resetting password.", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID.Hex(), string(hashedPassword)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while resetting password.", err)
	}
	util.Logger.Info("密码重置成功", zap.String("user_id", user.ID.Hex()))
	return nil
}
