// Package api 组装 gin 引擎与路由
package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/recommend-course/config"
	_ "github.com/d60-Lab/recommend-course/docs"
	"github.com/d60-Lab/recommend-course/internal/api/handler"
	"github.com/d60-Lab/recommend-course/internal/middleware"
	"github.com/d60-Lab/recommend-course/pkg/monitoring"
)

// Options 由 main 根据初始化结果决定是否挂载
type Options struct {
	Sentry  bool
	Tracing bool
}

func NewRouter(cfg *config.Config, h *handler.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	if opts.Tracing {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if opts.Sentry {
		r.Use(monitoring.Middleware())
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", h.Health)
	if cfg.Swagger.Enabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer))

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	search := v1.Group("/search", limiter.Middleware())
	{
		search.GET("/courses", h.SearchCourses)
		search.GET("/users", h.SearchUsers)
	}

	recs := v1.Group("/recommendations")
	{
		recs.POST("", h.Recommend)
		recs.GET("/widget", h.Widget)
		recs.GET("/mine", h.Mine)
		recs.GET("/history", h.History)
		recs.GET("/stats", h.Stats)
	}

	privacy := v1.Group("/privacy")
	{
		privacy.GET("/metadata", h.PrivacyMetadata)
		privacy.GET("/users/:user_id/contexts", h.UserContexts)
		privacy.POST("/users/:user_id/export", h.ExportUser)
		privacy.DELETE("/users/:user_id", h.DeleteUser)
		privacy.POST("/users/delete", h.DeleteUsers)
		privacy.GET("/contexts/:context/users", h.ContextUsers)
		privacy.DELETE("/contexts/:context", h.DeleteContext)
	}
	return r
}
