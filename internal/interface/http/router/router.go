package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User   *handler.UserHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
}

// New 创建Gin引擎并注册路由
// 中间件顺序:Recovery → Tracing → RequestLogger → Metrics → 业务中间件
// limiter为nil时登录接口不限流
func New(
	cfg *config.Config,
	log zerolog.Logger,
	h Handlers,
	auth *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}
	handler.RegisterValidator()

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.RequestLogger(log),
	)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Swagger文档,访问 /swagger/index.html;生产环境不暴露
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()

	v1 := r.Group("/api/v1")
	{
		// 管理员账号
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", limiter.Middleware(), h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", requireAuth, h.User.Logout)
			users.GET("/profile", requireAuth, h.User.Profile)
		}

		// 图书目录:浏览公开,写操作需要登录
		books := v1.Group("/books")
		{
			books.GET("", h.Book.List)
			books.GET("/search", h.Book.Search)
			books.GET("/statistics", h.Book.Statistics)
			books.GET("/export", requireAuth, h.Book.Export)
			books.GET("/:id", h.Book.Detail)

			books.POST("", requireAuth, h.Book.Create)
			books.PUT("/:id", requireAuth, h.Book.Update)
			books.DELETE("/:id", requireAuth, h.Book.Delete)
			books.POST("/availability", requireAuth, h.Book.SetAvailability)

			// 读者评论,无需登录
			books.POST("/:id/reviews", h.Review.Create)
		}

		v1.GET("/genres", h.Book.Genres)
		v1.GET("/genres/:genre/books", h.Book.GenreBooks)
		v1.GET("/price-ranges", h.Book.PriceRanges)
		v1.GET("/authors/:author/books", h.Book.AuthorBooks)

		// 评论审核
		reviews := v1.Group("/reviews")
		reviews.Use(requireAuth)
		{
			reviews.PATCH("/:id/approval", h.Review.Moderate)
			reviews.DELETE("/:id", h.Review.Delete)
		}
	}

	return r
}
