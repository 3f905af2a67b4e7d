package service

import (
	"bano-backend/internal/model"
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 本文件提供内存版的存储实现，用于验证计数器不变量和分页语义。

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) addUser(username string) *model.User {
	user := &model.User{
		ID:       primitive.NewObjectID(),
		Username: username,
		Email:    username + "@example.com",
	}
	r.users[user.ID.Hex()] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = primitive.NewObjectID()
	r.users[user.ID.Hex()] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsernameAndEmail(ctx context.Context, username, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if u := r.users[id]; u != nil {
		u.Password = passwordHash
	}
	return nil
}

type fakePostRepo struct {
	users *fakeUserRepo
	posts map[string]*model.Post
	// 单调递增的时钟，保证 updatedAt 排序稳定
	clock time.Time
}

func newFakePostRepo(users *fakeUserRepo) *fakePostRepo {
	return &fakePostRepo{
		users: users,
		posts: make(map[string]*model.Post),
		clock: time.Now().UTC(),
	}
}

func (r *fakePostRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	now := r.tick()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.LikesCount = 0
	post.CommentsCount = 0
	if post.Likes == nil {
		post.Likes = []string{}
	}
	r.posts[post.ID.Hex()] = post
	return nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return r.posts[id], nil
}

func (r *fakePostRepo) Update(ctx context.Context, id string, title, caption string, images []model.Media) (*model.Post, error) {
	post := r.posts[id]
	if post == nil {
		return nil, nil
	}
	post.Title = title
	post.Caption = caption
	post.Images = images
	post.UpdatedAt = r.tick()
	return post, nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListAll(ctx context.Context, viewerID string, page, limit int) ([]*model.PostView, error) {
	return r.list(viewerID, "", page, limit), nil
}

func (r *fakePostRepo) ListByUserID(ctx context.Context, viewerID, userID string, page, limit int) ([]*model.PostView, error) {
	return r.list(viewerID, userID, page, limit), nil
}

func (r *fakePostRepo) list(viewerID, userID string, page, limit int) []*model.PostView {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	all := []*model.Post{}
	for _, p := range r.posts {
		if userID == "" || p.UserID == userID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})

	start := (page - 1) * limit
	if start >= len(all) {
		return []*model.PostView{}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	views := []*model.PostView{}
	for _, p := range all[start:end] {
		isLiked := false
		for _, id := range p.Likes {
			if id == viewerID {
				isLiked = true
				break
			}
		}
		info := model.UserInfo{}
		if u := r.users.users[p.UserID]; u != nil {
			info = model.UserInfo{ID: u.ID, Username: u.Username}
		}
		views = append(views, &model.PostView{
			ID:            p.ID,
			UserInfo:      info,
			Title:         p.Title,
			Caption:       p.Caption,
			Images:        p.Images,
			IsLiked:       isLiked,
			LikesCount:    p.LikesCount,
			CommentsCount: p.CommentsCount,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return views
}

func (r *fakePostRepo) IsLikedBy(ctx context.Context, postID, userID string) (bool, error) {
	post := r.posts[postID]
	if post == nil {
		return false, nil
	}
	for _, id := range post.Likes {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) AddLike(ctx context.Context, postID, userID string) error {
	post := r.posts[postID]
	post.Likes = append(post.Likes, userID)
	post.LikesCount++
	post.UpdatedAt = r.tick()
	return nil
}

func (r *fakePostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	post := r.posts[postID]
	likes := post.Likes[:0]
	for _, id := range post.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	post.Likes = likes
	post.LikesCount--
	post.UpdatedAt = r.tick()
	return nil
}

func (r *fakePostRepo) IncCommentsCount(ctx context.Context, postID string, delta int) error {
	post := r.posts[postID]
	if post == nil {
		return nil
	}
	post.CommentsCount += delta
	post.UpdatedAt = r.tick()
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
	order    []string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	r.comments[comment.ID.Hex()] = comment
	r.order = append(r.order, comment.ID.Hex())
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return r.comments[id], nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByPostID(ctx context.Context, postID string, page, limit int) ([]*model.CommentView, error) {
	views := []*model.CommentView{}
	// 倒序遍历，最新的在前
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.comments[r.order[i]]
		if c == nil || c.PostID != postID {
			continue
		}
		views = append(views, &model.CommentView{
			ID:        c.ID,
			UserID:    c.UserID,
			PostID:    c.PostID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	start := (page - 1) * limit
	if start >= len(views) {
		return []*model.CommentView{}, nil
	}
	end := start + limit
	if end > len(views) {
		end = len(views)
	}
	return views[start:end], nil
}

// fakeBlob 记录上传和删除调用，可按需要模拟删除失败
type fakeBlob struct {
	uploaded   []string
	deleted    []string
	failDelete bool
}

func (b *fakeBlob) Upload(file *multipart.FileHeader, folder string) (*model.Media, error) {
	publicID := folder + "/" + file.Filename
	b.uploaded = append(b.uploaded, publicID)
	return &model.Media{
		PublicID: publicID,
		URL:      "https://blob.example.com/" + publicID,
	}, nil
}

func (b *fakeBlob) Delete(publicID string) error {
	if b.failDelete {
		return fmt.Errorf("blob unavailable")
	}
	b.deleted = append(b.deleted, publicID)
	return nil
}

func imageFile(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}
