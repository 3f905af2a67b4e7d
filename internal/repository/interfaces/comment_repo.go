package interfaces

import (
	"bano-backend/internal/model"
	"context"
)

// CommentRepository 定义了评论相关的数据库操作接口
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByPostID(ctx context.Context, postID string, page, limit int) ([]*model.CommentView, error)
}
