package mongodb

import (
	"bano-backend/internal/model"
	"bano-backend/internal/util"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{coll: db.Collection("users")}
}

// EnsureIndexes 创建 email 唯一索引
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create 创建一个新用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	result, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	util.Logger.Info("用户创建成功", zap.String("user_id", user.ID.Hex()))
	return nil
}

// FindByID 通过ID查找用户，未找到时返回 (nil, nil)
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByUsernameAndEmail 通过用户名加邮箱查找用户，用于密码重置
func (r *userRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "email": email})
}

// UpdatePassword 更新用户的密码哈希
func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"password": passwordHash},
	})
	if err != nil {
		util.Logger.Error("更新密码失败", zap.Error(err), zap.String("user_id", id))
	}
	return err
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		util.Logger.Error("查找用户失败", zap.Error(err))
		return nil, err
	}
	return &user, nil
}
