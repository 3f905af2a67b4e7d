package util

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidateObjectID 验证字段是否为合法的 ObjectID 十六进制串
func ValidateObjectID(fl validator.FieldLevel) bool {
	id, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
