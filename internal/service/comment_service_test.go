package service

import (
	"bano-backend/internal/errors"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCommentServiceFixture() (*CommentService, *PostService, *fakeUserRepo, *fakePostRepo, *fakeCommentRepo) {
	userRepo := newFakeUserRepo()
	postRepo := newFakePostRepo(userRepo)
	commentRepo := newFakeCommentRepo()
	postService := NewPostService(postRepo, userRepo, &fakeBlob{})
	return NewCommentService(commentRepo, postRepo, userRepo), postService, userRepo, postRepo, commentRepo
}

func createTestPost(t *testing.T, postService *PostService, ownerID string) string {
	view, err := postService.CreatePost(context.Background(), ownerID, "title", "caption",
		[]*multipart.FileHeader{imageFile("a.jpg", 1024)})
	assert.NoError(t, err)
	return view.ID.Hex()
}

// TestAddComment 评论插入后父帖子的计数器加一
func TestAddComment(t *testing.T) {
	service, postService, userRepo, postRepo, _ := newCommentServiceFixture()
	owner := userRepo.addUser("alice")
	commenter := userRepo.addUser("bob")
	postID := createTestPost(t, postService, owner.ID.Hex())

	view, err := service.AddComment(context.Background(), commenter.ID.Hex(), postID, "nice post")
	assert.NoError(t, err)
	assert.Equal(t, "nice post", view.Comment)
	assert.Equal(t, "bob", view.UserInfo.Username)
	assert.Equal(t, postID, view.PostID)

	post, _ := postRepo.FindByID(context.Background(), postID)
	assert.Equal(t, 1, post.CommentsCount)
}

// TestAddCommentPostNotFound 评论不存在的帖子返回404，不碰任何计数器
func TestAddCommentPostNotFound(t *testing.T) {
	service, postService, userRepo, postRepo, _ := newCommentServiceFixture()
	owner := userRepo.addUser("alice")
	otherPostID := createTestPost(t, postService, owner.ID.Hex())

	_, err := service.AddComment(context.Background(), owner.ID.Hex(), "652d1c000000000000000000", "hello")
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))

	// 其他帖子的计数器不受影响
	post, _ := postRepo.FindByID(context.Background(), otherPostID)
	assert.Equal(t, 0, post.CommentsCount)
}

// TestAddCommentUserNotFound 用户不存在时返回404
func TestAddCommentUserNotFound(t *testing.T) {
	service, postService, userRepo, _, _ := newCommentServiceFixture()
	owner := userRepo.addUser("alice")
	postID := createTestPost(t, postService, owner.ID.Hex())

	_, err := service.AddComment(context.Background(), "652d1c000000000000000000", postID, "hello")
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

// TestListComments 按创建时间倒序分页
func TestListComments(t *testing.T) {
	service, postService, userRepo, _, _ := newCommentServiceFixture()
	owner := userRepo.addUser("alice")
	postID := createTestPost(t, postService, owner.ID.Hex())

	for _, text := range []string{"one", "two", "three"} {
		_, err := service.AddComment(context.Background(), owner.ID.Hex(), postID, text)
		assert.NoError(t, err)
	}

	page1, err := service.ListComments(context.Background(), postID, 1, 2)
	assert.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, "three", page1[0].Comment)
	assert.Equal(t, "two", page1[1].Comment)

	page2, err := service.ListComments(context.Background(), postID, 2, 2)
	assert.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Equal(t, "one", page2[0].Comment)

	// 越界页返回空
	page3, err := service.ListComments(context.Background(), postID, 3, 2)
	assert.NoError(t, err)
	assert.Empty(t, page3)
}

// TestDeleteComment 只有作者能删除，删除后计数器减一
func TestDeleteComment(t *testing.T) {
	service, postService, userRepo, postRepo, commentRepo := newCommentServiceFixture()
	owner := userRepo.addUser("alice")
	intruder := userRepo.addUser("mallory")
	postID := createTestPost(t, postService, owner.ID.Hex())

	view, err := service.AddComment(context.Background(), owner.ID.Hex(), postID, "mine")
	assert.NoError(t, err)

	// 非作者删除被拒绝，评论和计数器都不变
	err = service.DeleteComment(context.Background(), intruder.ID.Hex(), view.ID.Hex())
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	comment, _ := commentRepo.FindByID(context.Background(), view.ID.Hex())
	assert.NotNil(t, comment)
	post, _ := postRepo.FindByID(context.Background(), postID)
	assert.Equal(t, 1, post.CommentsCount)

	// 作者删除成功
	err = service.DeleteComment(context.Background(), owner.ID.Hex(), view.ID.Hex())
	assert.NoError(t, err)

	comment, _ = commentRepo.FindByID(context.Background(), view.ID.Hex())
	assert.Nil(t, comment)
	post, _ = postRepo.FindByID(context.Background(), postID)
	assert.Equal(t, 0, post.CommentsCount)
}

// TestDeleteCommentNotFound 删除不存在的评论返回404
func TestDeleteCommentNotFound(t *testing.T) {
	service, _, userRepo, _, _ := newCommentServiceFixture()
	user := userRepo.addUser("alice")

	err := service.DeleteComment(context.Background(), user.ID.Hex(), "652d1c000000000000000000")
	assert.True(t, errors.Is(err, errors.ErrCommentNotFound))
}
