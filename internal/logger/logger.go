package logger

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/nsxzhou1114/author-blog/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger 全局日志实例，Init 之前为空实现
	Logger = zap.NewNop()
	// SugaredLogger 语法糖日志实例
	SugaredLogger = Logger.Sugar()
	initOnce      sync.Once
)

// Init 按全局配置初始化日志，仅生效一次
func Init() error {
	initOnce.Do(func() {
		Setup(config.GlobalConfig.Log)
	})
	return nil
}

// Setup 按给定配置替换全局日志实例
func Setup(cfg config.LogConfig) {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		writeSyncer(cfg),
		parseLevel(cfg.Level),
	)
	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SugaredLogger = Logger.Sugar()
}

// Sync 刷新缓冲
func Sync() error {
	return Logger.Sync()
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	return ec
}

// writeSyncer 配置了文件名时写入lumberjack轮转文件，可同时输出到stdout
func writeSyncer(cfg config.LogConfig) zapcore.WriteSyncer {
	if cfg.Filename == "" {
		return zapcore.AddSync(os.Stdout)
	}
	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	})
	if !cfg.Stdout {
		return file
	}
	return zapcore.NewMultiWriteSyncer(file, zapcore.AddSync(os.Stdout))
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// GetSugaredLogger 获取语法糖日志实例
func GetSugaredLogger() *zap.SugaredLogger {
	return SugaredLogger
}

// GinLogger 请求日志中间件，5xx记为error，4xx记为warn
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.Duration("cost", time.Since(start)),
		}
		if rid := c.GetString("request_id"); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if uid, ok := c.Get("userID"); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}

		switch {
		case status >= http.StatusInternalServerError:
			Logger.Error("HTTP请求", fields...)
		case status >= http.StatusBadRequest:
			Logger.Warn("HTTP请求", fields...)
		default:
			Logger.Info("HTTP请求", fields...)
		}
	}
}

// GinRecovery 捕获panic并返回统一错误响应
func GinRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger.Error("请求处理发生panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "服务器内部错误", "data": nil})
	})
}

// Info 信息日志
func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

// Warn 警告日志
func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

// Error 错误日志
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// Fatal 记录后退出进程
func Fatal(msg string, fields ...zap.Field) { Logger.Fatal(msg, fields...) }

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) { SugaredLogger.Warnf(format, args...) }

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) { SugaredLogger.Errorf(format, args...) }
