package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nsxzhou1114/author-blog/internal/config"
	"github.com/nsxzhou1114/author-blog/internal/database"
	"github.com/nsxzhou1114/author-blog/internal/logger"
	"github.com/nsxzhou1114/author-blog/internal/model"
	"github.com/nsxzhou1114/author-blog/internal/policy"
	"github.com/nsxzhou1114/author-blog/internal/router"
	"github.com/nsxzhou1114/author-blog/internal/storage"
	"github.com/nsxzhou1114/author-blog/pkg/auth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "author-blog",
	Short: "作者博客API服务",
	Long:  `博客后端服务，提供用户认证、分类、文章、评论、图片上传与点赞功能`,
}

// serveCmd 启动服务命令
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	Long:  `启动博客API的HTTP服务器`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	// 添加全局标志
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件路径")

	// 添加子命令
	rootCmd.AddCommand(serveCmd)
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initializeSystem 初始化配置、日志与数据库
func initializeSystem() (*gorm.DB, error) {
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("配置初始化失败: %v", err)
	}
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("日志初始化失败: %v", err)
	}

	db, err := database.Open(&config.GlobalConfig.Database)
	if err != nil {
		return nil, err
	}
	if err := model.InitTables(db); err != nil {
		return nil, fmt.Errorf("初始化数据库表失败: %v", err)
	}
	return db, nil
}

// newBlacklist 按配置创建令牌黑名单，redis 不可用时退回内存实现
func newBlacklist(cfg *config.Config) auth.Blacklist {
	if auth.BlacklistType(cfg.Auth.Blacklist) != auth.RedisBlacklist {
		return auth.NewBlacklist(auth.MemoryBlacklist, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		logger.Warn("redis不可用，令牌黑名单使用内存实现", zap.Error(err))
		return auth.NewBlacklist(auth.MemoryBlacklist, nil)
	}
	return auth.NewBlacklist(auth.RedisBlacklist, client)
}

// startServer 启动HTTP服务
func startServer() {
	db, err := initializeSystem()
	if err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.GlobalConfig
	gin.SetMode(cfg.App.Mode)

	authz, err := policy.NewAuthorizer(logger.GetSugaredLogger())
	if err != nil {
		logger.Fatal("权限模块初始化失败", zap.Error(err))
	}
	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("存储初始化失败", zap.Error(err))
	}

	r := router.New(router.Dependencies{
		Config:     cfg,
		DB:         db,
		Logger:     logger.GetSugaredLogger(),
		Tokens:     auth.NewTokenManager(cfg.JWT, newBlacklist(cfg)),
		Authorizer: authz,
		Storage:    store,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: r,
	}

	// 优雅关闭
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP服务启动失败", zap.Error(err))
		}
	}()

	logger.Info("服务已启动", zap.String("addr", srv.Addr))

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("服务关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}
