package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 记录：请求总数（按method/path/status）、请求耗时、并发请求数
// 注意：path使用路由模板（c.FullPath()）而非原始URL，避免标签爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
		}

		c.Next()

		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Dec()
		}

		path := c.FullPath()
		if path == "" {
			// 未匹配路由（404），统一归类避免产生大量标签
			path = "unmatched"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})

		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
				Observe(time.Since(start).Seconds())
		}
	}
}
