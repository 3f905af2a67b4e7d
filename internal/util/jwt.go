package util

import (
	"bano-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenDuration 会话令牌有效期为3天
const TokenDuration = 3 * 24 * time.Hour

func GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(TokenDuration).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["id"].(string)
		if !ok {
			return "", errors.New("无效的用户ID")
		}
		return userID, nil
	}

	return "", errors.New("无效的令牌")
}
