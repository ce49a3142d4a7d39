// Package metrics 定义Prometheus指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "author_blog"

var (
	// HTTPRequestsTotal 按方法、路由和状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuthorizationDenied 权限拒绝次数，reason 为 unauthenticated 或 forbidden
	AuthorizationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "denied_total",
			Help:      "被拒绝的请求数",
		},
		[]string{"reason", "requirement"},
	)

	// LikesToggled 点赞操作次数，action 为 add 或 remove
	LikesToggled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "article",
			Name:      "likes_toggled_total",
			Help:      "文章点赞/取消点赞次数",
		},
		[]string{"action"},
	)

	// ImagesUploaded 文章图片上传次数，result 为 success、invalid 或 error
	ImagesUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "article",
			Name:      "images_uploaded_total",
			Help:      "文章图片上传次数",
		},
		[]string{"result"},
	)
)
