package middleware

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/service"
	"bano-backend/internal/util"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthCookieName 会话Cookie的名称
const AuthCookieName = "auth_token"

// AuthMiddleware 从会话Cookie解析调用者身份。
// 令牌缺失、无效、过期或指向已不存在的用户都返回 401。
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authToken, err := c.Cookie(AuthCookieName)
		if err != nil || authToken == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(authToken)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Unauthorized", err))
			c.Abort()
			return
		}

		// 令牌有效但用户可能已被删除。
		// 数据库故障原样上报，不能当成会话失效
		if _, err := userService.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, errors.ErrUserNotFound) {
				util.Logger.Warn("令牌指向不存在的用户", zap.String("user_id", userID))
				errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			} else {
				errors.HandleError(c, err)
			}
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
