package middleware

import (
	"bano-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware 把请求期间记录的错误喂给错误分析器并写日志
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		userID := c.GetString("user_id")
		for _, e := range c.Errors {
			traced := errors.NewTracedError(e.Err, errors.ErrorContext{
				UserID: userID,
				Path:   c.Request.URL.Path,
				Method: c.Request.Method,
			})
			analytics.Record(traced)

			zap.L().Error("请求处理错误",
				zap.Int("error_code", int(traced.Code)),
				zap.String("error_message", traced.Message),
				zap.Error(traced.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
		}
	}
}
