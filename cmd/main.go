package main

import (
	"bano-backend/config"
	"bano-backend/internal/api/comment"
	"bano-backend/internal/api/post"
	"bano-backend/internal/api/user"
	"bano-backend/internal/common"
	apperrors "bano-backend/internal/errors"
	"bano-backend/internal/middleware"
	"bano-backend/internal/repository/mongodb"
	"bano-backend/internal/service"
	"bano-backend/internal/storage"
	"bano-backend/internal/util"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接 MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	// 测试数据库连接，网络抖动时重试
	err = common.WithRetry(func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx, nil)
	}, 3)
	if err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db := client.Database(config.AppConfig.MongoDBName)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("objectid", util.ValidateObjectID)
	}

	// 初始化图床存储
	blob, err := newBlobStorage()
	if err != nil {
		util.Logger.Fatal("初始化存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		util.Logger.Fatal("创建索引失败", zap.Error(err))
	}
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, blob)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)

	authHandler := user.NewAuthHandler(userService)
	postHandler := post.NewPostHandler(postService)
	commentHandler := comment.NewCommentHandler(commentService)

	// 初始化错误分析器
	errorAnalytics := apperrors.NewErrorAnalytics()

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorAnalytics))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	// 本地存储时通过静态路由提供图片访问
	if config.AppConfig.StorageDriver == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	authRequired := middleware.AuthMiddleware(userService)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		auth := api.Group("/auth")
		{
			auth.POST("/registration", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.GET("/verify-token", authRequired, authHandler.VerifyToken)
			auth.GET("/get-my-userdata", authRequired, authHandler.GetMyUserData)
		}

		// 帖子相关路由，全部需要会话
		posts := api.Group("/post", authRequired)
		{
			posts.POST("/", postHandler.CreatePost)
			posts.GET("/all", postHandler.GetAllPosts)
			posts.GET("/by-userId", postHandler.GetPostsByUserID)
			posts.PATCH("/", postHandler.UpdatePost)
			posts.DELETE("/:id", postHandler.DeletePost)
			posts.POST("/:id/likeUnlike", postHandler.LikeUnlikePost)
		}

		// 评论相关路由，全部需要会话
		comments := api.Group("/comment", authRequired)
		{
			comments.POST("/:postId", commentHandler.AddComment)
			comments.GET("/:postId", commentHandler.GetComments)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// 调试模式下暴露错误统计
		if config.AppConfig.Debug {
			api.GET("/debug/errors", func(c *gin.Context) {
				c.JSON(http.StatusOK, errorAnalytics.GetStats())
			})
		}
	}

	// 创建 http.Server 以支持优雅关闭
	srv := &http.Server{
		Addr:    ":" + config.AppConfig.Port,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("port", config.AppConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newBlobStorage 按配置选择图床后端
func newBlobStorage() (storage.BlobStorage, error) {
	switch config.AppConfig.StorageDriver {
	case "s3":
		return storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
	case "gcs":
		return storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
	default:
		return storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
	}
}
