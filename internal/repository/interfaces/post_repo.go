package interfaces

import (
	"bano-backend/internal/model"
	"context"
)

// PostRepository 定义了帖子相关的数据库操作接口。
// List 系列返回反规范化的 PostView，isLiked 相对 viewerID 计算。
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	Update(ctx context.Context, id string, title, caption string, images []model.Media) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, viewerID string, page, limit int) ([]*model.PostView, error)
	ListByUserID(ctx context.Context, viewerID, userID string, page, limit int) ([]*model.PostView, error)
	IsLikedBy(ctx context.Context, postID, userID string) (bool, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	IncCommentsCount(ctx context.Context, postID string, delta int) error
}
