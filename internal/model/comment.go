package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment 结构体表示评论文档。postId 是字符串外键，
// 没有引用约束，删除帖子不会级联删除评论。
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	PostID    string             `bson:"postId" json:"postId"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CommentView 是评论的反规范化读投影，带作者信息
type CommentView struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	PostID    string             `bson:"postId" json:"postId"`
	Comment   string             `bson:"comment" json:"comment"`
	UserInfo  UserInfo           `bson:"userInfo" json:"userInfo"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
