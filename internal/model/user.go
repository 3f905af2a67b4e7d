package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User 结构体表示用户文档
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"` // 密码哈希不应在JSON中暴露
}

// UserInfo 是嵌入在帖子和评论视图中的作者信息
type UserInfo struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
}
