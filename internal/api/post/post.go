package post

import (
	"bano-backend/internal/errors"
	"bano-backend/internal/service"
	"bano-backend/internal/util"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理帖子相关的HTTP请求
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePost 处理多部分表单的发帖请求，最多3张图、每张不超过3MB
func (h *PostHandler) CreatePost(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		util.Logger.Warn("无法解析表单数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "All fields are required.", err))
		return
	}

	title := c.PostForm("title")
	caption := c.PostForm("caption")

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["imageFiles"]
	}

	view, err := h.postService.CreatePost(c.Request.Context(), c.GetString("user_id"), title, caption, files)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetAllPosts 返回分页的全量帖子流
func (h *PostHandler) GetAllPosts(c *gin.Context) {
	page, limit := pagination(c)

	views, err := h.postService.ListPosts(c.Request.Context(), c.GetString("user_id"), page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetPostsByUserID 返回某个用户的分页帖子流，userId 缺省为调用者
func (h *PostHandler) GetPostsByUserID(c *gin.Context) {
	page, limit := pagination(c)

	userID := c.Query("userId")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	views, err := h.postService.ListPostsByUserID(c.Request.Context(), c.GetString("user_id"), userID, page, limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// UpdatePost 处理多部分表单的帖子更新，提供了新图片时整组替换
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var updateData struct {
		PostID  string `form:"postId" binding:"required,objectid"`
		Title   string `form:"title" binding:"required"`
		Caption string `form:"caption" binding:"required"`
	}

	if err := c.ShouldBind(&updateData); err != nil {
		util.Logger.Warn("更新帖子失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "All fields are required.", err))
		return
	}

	var imageFiles []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		imageFiles = form.File["imageFiles"]
	}

	view, err := h.postService.UpdatePost(c.Request.Context(), c.GetString("user_id"),
		updateData.PostID, updateData.Title, updateData.Caption, imageFiles)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeletePost 删除帖子及其图床上的图片
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully."})
}

// LikeUnlikePost 切换调用者对帖子的点赞状态
func (h *PostHandler) LikeUnlikePost(c *gin.Context) {
	isLiked, err := h.postService.ToggleLike(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isLiked": isLiked})
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}
