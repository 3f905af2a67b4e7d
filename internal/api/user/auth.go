package user

import (
	"bano-backend/config"
	"bano-backend/internal/errors"
	"bano-backend/internal/middleware"
	"bano-backend/internal/model"
	"bano-backend/internal/service"
	"bano-backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求，成功后直接建立会话
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "username, Email and password are required.", err))
		return
	}

	user := &model.User{
		Username: registerData.Username,
		Email:    registerData.Email,
		Password: registerData.Password,
	}

	if err := h.userService.Register(c.Request.Context(), user); err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.setAuthCookie(c, user.ID.Hex()); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Something went wrong while registering user.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"userId":   user.ID.Hex(),
	})
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Username and password are required.", err))
		return
	}

	user, err := h.userService.Login(c.Request.Context(), loginData.Username, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	if err := h.setAuthCookie(c, user.ID.Hex()); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "Something went wrong while logging in.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"userId":   user.ID.Hex(),
	})
}

// Logout 清除会话Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if config.IsProduction() {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// ForgotPassword 重置用户名加邮箱匹配的用户的密码
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var resetData struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&resetData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Email and username is required.", err))
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), resetData.Username, resetData.Email, resetData.Password); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed."})
}

// VerifyToken 会话有效时返回调用者的用户ID
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"userId": c.GetString("user_id")})
}

// GetMyUserData 返回当前用户的资料
func (h *AuthHandler) GetMyUserData(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// setAuthCookie 签发3天有效期的HTTP-only会话Cookie
func (h *AuthHandler) setAuthCookie(c *gin.Context, userID string) error {
	token, err := util.GenerateToken(userID)
	if err != nil {
		util.Logger.Error("生成令牌失败", zap.Error(err))
		return err
	}

	if config.IsProduction() {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(middleware.AuthCookieName, token, int(util.TokenDuration.Seconds()), "/", "", config.IsProduction(), true)
	return nil
}
