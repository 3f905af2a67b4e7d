package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media 表示上传到图床的一张图片，public_id 用于删除
type Media struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// Post 结构体表示帖子文档。
// likesCount 与 likes 集合成对维护，likesCount == len(likes) 是
// 每次点赞/取消点赞后的不变量（并发下可能漂移，见 toggleLike）。
// commentsCount 是独立计数器，与评论的插入/删除分两步更新。
type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        string             `bson:"userId" json:"userId"`
	Title         string             `bson:"title" json:"title"`
	Caption       string             `bson:"caption" json:"caption"`
	Images        []Media            `bson:"images" json:"images"`
	LikesCount    int                `bson:"likesCount" json:"likesCount"`
	CommentsCount int                `bson:"commentsCount" json:"commentsCount"`
	Likes         []string           `bson:"likes" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PostView 是帖子的反规范化读投影，带作者信息和当前观察者的点赞状态
type PostView struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	UserInfo      UserInfo           `bson:"userInfo" json:"userInfo"`
	Title         string             `bson:"title" json:"title"`
	Caption       string             `bson:"caption" json:"caption"`
	Images        []Media            `bson:"images" json:"images"`
	IsLiked       bool               `bson:"isLiked" json:"isLiked"`
	LikesCount    int                `bson:"likesCount" json:"likesCount"`
	CommentsCount int                `bson:"commentsCount" json:"commentsCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
