package mongodb

import (
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// commentRepository 实现了 CommentRepository 接口
type commentRepository struct {
	coll *mongo.Collection
}

// NewCommentRepository 创建一个新的 commentRepository 实例
func NewCommentRepository(db *mongo.Database) *commentRepository {
	return &commentRepository{coll: db.Collection("comments")}
}

// Create 插入评论，父帖子的计数器由调用方单独更新
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	result, err := r.coll.InsertOne(ctx, comment)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}
	comment.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID 通过ID查找评论，未找到时返回 (nil, nil)
func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var comment model.Comment
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		util.Logger.Error("查找评论失败", zap.Error(err), zap.String("comment_id", id))
		return nil, err
	}
	return &comment, nil
}

// Delete 删除评论记录
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.String("comment_id", id))
	}
	return err
}

// ListByPostID 返回某帖子按创建时间倒序的分页评论视图，带作者信息
func (r *commentRepository) ListByPostID(ctx context.Context, postID string, page, limit int) ([]*model.CommentView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"postId": postID}}},
		lookupUserInfo("userInfo"),
		bson.D{{Key: "$unwind", Value: "$userInfo"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":       1,
			"userId":    1,
			"postId":    1,
			"comment":   1,
			"createdAt": 1,
			"updatedAt": 1,
			"userInfo": bson.M{
				"_id":      "$userInfo._id",
				"username": "$userInfo.username",
			},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$skip", Value: int64((page - 1) * limit)}},
		bson.D{{Key: "$limit", Value: int64(limit)}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		util.Logger.Error("获取评论列表失败", zap.Error(err), zap.String("post_id", postID))
		return nil, err
	}
	defer cursor.Close(ctx)

	views := []*model.CommentView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	return views, nil
}
