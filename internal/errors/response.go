package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义错误响应结构。
// 边界上只输出静态的 message，不暴露内部错误细节和堆栈。
type ErrorResponse struct {
	Message string `json:"message"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	// 系统错误 (1000-1999)
	ErrInternal:   http.StatusInternalServerError,
	ErrDatabase:   http.StatusInternalServerError,
	ErrDependency: http.StatusInternalServerError,
	ErrTimeout:    http.StatusRequestTimeout,

	// 认证错误 (2000-2999)
	ErrUnauthorized: http.StatusUnauthorized,
	ErrForbidden:    http.StatusForbidden,
	ErrInvalidToken: http.StatusUnauthorized,
	ErrTokenExpired: http.StatusUnauthorized,
	// 登录密码错误按契约返回 400 而不是 401
	ErrInvalidCredentials: http.StatusBadRequest,

	// 请求错误 (3000-3999)
	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,

	// 业务错误 (4000-4999)
	ErrUserNotFound: http.StatusNotFound,
	// 注册时邮箱已存在按契约返回 400 而不是 409
	ErrEmailExists:     http.StatusBadRequest,
	ErrPostNotFound:    http.StatusNotFound,
	ErrCommentNotFound: http.StatusNotFound,
}

// HandleError 统一处理错误响应
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		status := errorStatusMap[appErr.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}

		c.Error(appErr)
		c.JSON(status, ErrorResponse{Message: appErr.Message})
		return
	}

	// 处理非 AppError 类型的错误
	c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Something went wrong.",
	})
}
