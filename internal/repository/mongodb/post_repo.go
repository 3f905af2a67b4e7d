package mongodb

import (
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *mongo.Database) *postRepository {
	return &postRepository{coll: db.Collection("posts")}
}

// Create 插入帖子，计数器从0开始
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.LikesCount = 0
	post.CommentsCount = 0
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.Images == nil {
		post.Images = []model.Media{}
	}

	result, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	util.Logger.Info("帖子创建成功", zap.String("post_id", post.ID.Hex()))
	return nil
}

// FindByID 通过ID查找帖子，未找到时返回 (nil, nil)
func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var post model.Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		util.Logger.Error("查找帖子失败", zap.Error(err), zap.String("post_id", id))
		return nil, err
	}
	return &post, nil
}

// Update 更新标题、描述和图片，返回更新后的帖子
func (r *postRepository) Update(ctx context.Context, id string, title, caption string, images []model.Media) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	update := bson.M{"$set": bson.M{
		"title":     title,
		"caption":   caption,
		"images":    images,
		"updatedAt": time.Now().UTC(),
	}}

	var post model.Post
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.String("post_id", id))
		return nil, err
	}
	return &post, nil
}

// Delete 删除帖子记录，评论不级联删除
func (r *postRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return err
	}
	util.Logger.Info("帖子删除成功", zap.String("post_id", id))
	return nil
}

// ListAll 返回按 updatedAt 倒序的分页帖子视图
func (r *postRepository) ListAll(ctx context.Context, viewerID string, page, limit int) ([]*model.PostView, error) {
	return r.list(ctx, nil, viewerID, page, limit)
}

// ListByUserID 返回某个用户的分页帖子视图
func (r *postRepository) ListByUserID(ctx context.Context, viewerID, userID string, page, limit int) ([]*model.PostView, error) {
	return r.list(ctx, bson.D{{Key: "userId", Value: userID}}, viewerID, page, limit)
}

// list 构造聚合管道：关联作者信息、计算观察者的 isLiked、
// 按 updatedAt 倒序做偏移分页。超出末尾的页返回空列表。
func (r *postRepository) list(ctx context.Context, match bson.D, viewerID string, page, limit int) ([]*model.PostView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	pipeline = append(pipeline,
		lookupUserInfo("userInfo"),
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$userInfo",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"userInfo": bson.M{
				"_id":      "$userInfo._id",
				"username": "$userInfo.username",
			},
			"title":   1,
			"caption": 1,
			"images":  1,
			"isLiked": bson.M{
				"$in": bson.A{viewerID, "$likes"},
			},
			"likesCount":    1,
			"commentsCount": 1,
			"createdAt":     1,
			"updatedAt":     1,
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "updatedAt", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64((page - 1) * limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		util.Logger.Error("获取帖子列表失败", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	views := []*model.PostView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// IsLikedBy 判断用户是否已点赞该帖子
func (r *postRepository) IsLikedBy(ctx context.Context, postID, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, nil
	}
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid, "likes": userID})
	if err != nil {
		util.Logger.Error("检查点赞状态失败", zap.Error(err), zap.String("post_id", postID))
		return false, err
	}
	return count > 0, nil
}

// AddLike 把用户加入 likes 集合并原子地递增 likesCount。
// 成员检查和这次写入是两个操作，同一用户并发点赞可能重复生效。
func (r *postRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateLikes(ctx, postID, bson.M{
		"$push": bson.M{"likes": userID},
		"$inc":  bson.M{"likesCount": 1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// RemoveLike 把用户移出 likes 集合并原子地递减 likesCount
func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateLikes(ctx, postID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$inc":  bson.M{"likesCount": -1},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *postRepository) updateLikes(ctx context.Context, postID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		util.Logger.Error("更新点赞失败", zap.Error(err), zap.String("post_id", postID))
	}
	return err
}

// IncCommentsCount 原子地调整评论计数器。
// 与评论文档的插入/删除是分开的两步写入，中途失败会造成计数漂移。
func (r *postRepository) IncCommentsCount(ctx context.Context, postID string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{
		"$inc": bson.M{"commentsCount": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		util.Logger.Error("更新评论计数失败", zap.Error(err), zap.String("post_id", postID))
	}
	return err
}

// lookupUserInfo 生成关联 users 集合取作者信息的 $lookup 阶段，
// userId 存的是十六进制字符串，关联前须转成 ObjectID。
func lookupUserInfo(as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": "users",
		"let":  bson.M{"userId": "$userId"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{
				"$expr": bson.M{
					"$eq": bson.A{"$_id", bson.M{"$toObjectId": "$$userId"}},
				},
			}},
			bson.M{"$project": bson.M{
				"_id":      1,
				"username": 1,
			}},
		},
		"as": as,
	}}}
}
