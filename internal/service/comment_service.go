package service

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/model"
	"bano-backend/internal/repository/interfaces"
	"bano-backend/internal/util"
	"context"

	"go.uber.org/zap"
)

// CommentService 处理评论的增删和列表逻辑
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
	userRepo    interfaces.UserRepository
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(commentRepo interfaces.CommentRepository, postRepo interfaces.PostRepository, userRepo interfaces.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// AddComment 校验用户和帖子存在后插入评论，
// 然后单独递增父帖子的 commentsCount（两步写入，不是原子的）。
func (s *CommentService) AddComment(ctx context.Context, userID, postID, text string) (*model.CommentView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding comment.", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found.")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding comment.", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}

	comment := &model.Comment{
		UserID:  userID,
		PostID:  postID,
		Comment: text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding comment.", err)
	}

	// 评论已持久化，计数器失败会留下漂移
	if err := s.postRepo.IncCommentsCount(ctx, postID, 1); err != nil {
		util.Logger.Error("递增评论计数失败", zap.Error(err), zap.String("post_id", postID))
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding comment.", err)
	}

	return &model.CommentView{
		ID:     comment.ID,
		UserID: comment.UserID,
		PostID: comment.PostID,
		UserInfo: model.UserInfo{
			ID:       user.ID,
			Username: user.Username,
		},
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}, nil
}

// ListComments 返回某帖子按创建时间倒序的分页评论视图
func (s *CommentService) ListComments(ctx context.Context, postID string, page, limit int) ([]*model.CommentView, error) {
	views, err := s.commentRepo.ListByPostID(ctx, postID, page, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while getting comments.", err)
	}
	return views, nil
}

// DeleteComment 只有作者可以删除，之后单独递减父帖子的计数器
func (s *CommentService) DeleteComment(ctx context.Context, requesterID, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while deleting comment.", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "Comment not found.")
	}
	if comment.UserID != requesterID {
		return errors.New(errors.ErrForbidden, "Unauthorized.")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while deleting comment.", err)
	}

	if err := s.postRepo.IncCommentsCount(ctx, comment.PostID, -1); err != nil {
		util.Logger.Error("递减评论计数失败", zap.Error(err), zap.String("post_id", comment.PostID))
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while deleting comment.", err)
	}
	return nil
}
