package interfaces

import (
	"bano-backend/internal/model"
	"context"
)

// UserRepository 定义了用户相关的数据库操作接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
