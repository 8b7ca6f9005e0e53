package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// RequestIDHeader 请求ID头,客户端未传时服务端生成
const RequestIDHeader = "X-Request-ID"

// RequestLogger 请求日志中间件
// 为每个请求派生一个带request_id的子logger并放入request context,
// 下游代码通过zerolog.Ctx(ctx)取用;请求结束后输出一条访问日志
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		lc := base.With().Str("request_id", requestID)
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			lc = lc.Str("trace_id", traceID)
		}
		l := lc.Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		// 用户ID等字段可能由后续中间件追加,这里重新从context取logger
		ev := zerolog.Ctx(c.Request.Context()).Info()
		switch {
		case status >= 500:
			ev = zerolog.Ctx(c.Request.Context()).Error()
		case status >= 400:
			ev = zerolog.Ctx(c.Request.Context()).Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote", c.ClientIP()).
			Str("ua", c.Request.UserAgent()).
			Msg("http_request")
	}
}
