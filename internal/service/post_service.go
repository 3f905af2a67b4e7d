package service

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/model"
	"bano-backend/internal/repository/interfaces"
	"bano-backend/internal/storage"
	"bano-backend/internal/util"
	"context"
	"mime/multipart"

	"go.uber.org/zap"
)

const (
	// MaxImageSize 单张图片大小上限 3MB
	MaxImageSize = 3 << 20
	// MaxImagesPerPost 每个帖子最多3张图片
	MaxImagesPerPost = 3
	// 图床上的帖子图片目录
	postImageFolder = "bano/posts"
)

// PostService 处理帖子的创建、修改、列表和点赞逻辑
type PostService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
	blob     storage.BlobStorage
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository, blob storage.BlobStorage) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		blob:     blob,
	}
}

// CreatePost 上传所有图片后插入帖子，计数器从0开始
func (s *PostService) CreatePost(ctx context.Context, ownerID, title, caption string, files []*multipart.FileHeader) (*model.PostView, error) {
	if title == "" || caption == "" || len(files) == 0 {
		return nil, errors.New(errors.ErrValidation, "All fields are required.")
	}
	if err := validateImages(files); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding post.", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found.")
	}

	images, err := s.uploadImages(files)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:  ownerID,
		Title:   title,
		Caption: caption,
		Images:  images,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while adding post.", err)
	}

	return postView(post, user, false), nil
}

// ListPosts 返回按最近活跃倒序的分页帖子视图
func (s *PostService) ListPosts(ctx context.Context, viewerID string, page, limit int) ([]*model.PostView, error) {
	views, err := s.postRepo.ListAll(ctx, viewerID, page, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while getting posts.", err)
	}
	return views, nil
}

// ListPostsByUserID 返回某个用户的分页帖子视图
func (s *PostService) ListPostsByUserID(ctx context.Context, viewerID, userID string, page, limit int) ([]*model.PostView, error) {
	views, err := s.postRepo.ListByUserID(ctx, viewerID, userID, page, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while getting posts by userId.", err)
	}
	return views, nil
}

// UpdatePost 只有作者可以更新。提供了新图片时先全部上传新图、
// 再删除全部旧图；中途失败直接中止，已上传的新图不回收。
func (s *PostService) UpdatePost(ctx context.Context, requesterID, postID, title, caption string, files []*multipart.FileHeader) (*model.PostView, error) {
	if err := validateImages(files); err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while updating post.", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "Post not found.")
	}
	if post.UserID != requesterID {
		return nil, errors.New(errors.ErrForbidden, "You can only update your own posts.")
	}

	user, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while updating post.", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "User not found.")
	}

	images := post.Images
	if len(files) > 0 {
		newImages, err := s.uploadImages(files)
		if err != nil {
			return nil, err
		}
		for _, old := range post.Images {
			if err := s.blob.Delete(old.PublicID); err != nil {
				util.Logger.Error("删除旧图片失败", zap.Error(err), zap.String("public_id", old.PublicID))
				return nil, errors.Wrap(errors.ErrDependency, "Something went wrong while updating post.", err)
			}
		}
		images = newImages
	}

	updated, err := s.postRepo.Update(ctx, postID, title, caption, images)
	if err != nil || updated == nil {
		return nil, errors.Wrap(errors.ErrDatabase, "Something went wrong while updating post.", err)
	}

	isLiked := false
	for _, id := range updated.Likes {
		if id == requesterID {
			isLiked = true
			break
		}
	}
	return postView(updated, user, isLiked), nil
}

// DeletePost 只有作者可以删除。先逐张请求图床删除图片，
// 任何一张失败就中止，帖子保留；已删除的图片不恢复。
// 帖子的评论不级联删除。
func (s *PostService) DeletePost(ctx context.Context, requesterID, postID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while deleting post.", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "Post not found.")
	}
	if post.UserID != requesterID {
		return errors.New(errors.ErrForbidden, "You can only delete your own posts.")
	}

	for _, image := range post.Images {
		if err := s.blob.Delete(image.PublicID); err != nil {
			util.Logger.Error("删除图片失败", zap.Error(err), zap.String("public_id", image.PublicID))
			return errors.Wrap(errors.ErrDependency, "Something went wrong while deleting post.", err)
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "Something went wrong while deleting post.", err)
	}
	return nil
}

// ToggleLike 读取当前成员关系后决定加或减。
// 读和写是两步，同一用户从两个连接并发切换可能双重生效，
// 这是已知并保留的竞态窗口；计数器本身由存储层原子更新。
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "Something went wrong while liking/unliking post.", err)
	}
	if post == nil {
		return false, errors.New(errors.ErrPostNotFound, "Post not found.")
	}

	isLiked, err := s.postRepo.IsLikedBy(ctx, postID, userID)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "Something went wrong while liking/unliking post.", err)
	}

	if isLiked {
		err = s.postRepo.RemoveLike(ctx, postID, userID)
	} else {
		err = s.postRepo.AddLike(ctx, postID, userID)
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "Something went wrong while liking/unliking post.", err)
	}
	return !isLiked, nil
}

func (s *PostService) uploadImages(files []*multipart.FileHeader) ([]model.Media, error) {
	images := make([]model.Media, 0, len(files))
	for _, file := range files {
		media, err := s.blob.Upload(file, postImageFolder)
		if err != nil {
			util.Logger.Error("图片上传失败", zap.Error(err), zap.String("filename", file.Filename))
			return nil, errors.Wrap(errors.ErrDependency, "Something went wrong while uploading image.", err)
		}
		images = append(images, *media)
	}
	return images, nil
}

func validateImages(files []*multipart.FileHeader) error {
	if len(files) > MaxImagesPerPost {
		return errors.New(errors.ErrValidation, "A post can have at most 3 images.")
	}
	for _, file := range files {
		if file.Size > MaxImageSize {
			return errors.New(errors.ErrValidation, "Image size must not exceed 3MB.")
		}
	}
	return nil
}

func postView(post *model.Post, user *model.User, isLiked bool) *model.PostView {
	return &model.PostView{
		ID: post.ID,
		UserInfo: model.UserInfo{
			ID:       user.ID,
			Username: user.Username,
		},
		Title:         post.Title,
		Caption:       post.Caption,
		Images:        post.Images,
		IsLiked:       isLiked,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}
