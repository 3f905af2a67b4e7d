package comment

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/service"
	"bano-backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddComment 在帖子下新增一条评论
func (h *CommentHandler) AddComment(c *gin.Context) {
	var commentData struct {
		Comment string `json:"comment" binding:"required"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		util.Logger.Warn("评论失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "Comment is required.", err))
		return
	}

	view, err := h.commentService.AddComment(c.Request.Context(), c.GetString("user_id"), c.Param("postId"), commentData.Comment)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetComments 返回某帖子的分页评论列表
func (h *CommentHandler) GetComments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	views, err := h.commentService.ListComments(c.Request.Context(), c.Param("postId"), page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// DeleteComment 删除自己的评论
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully."})
}
