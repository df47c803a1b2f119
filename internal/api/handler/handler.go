package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recommend-course/internal/middleware"
	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/response"
)

const (
	msgNoPermission  = "You do not have permission to view this page."
	msgBackDashboard = "Back to dashboard"
)

// Handler 聚合各个服务，路由在 api 包中注册
type Handler struct {
	search  service.SearchService
	recs    service.RecommendationService
	reader  service.ReaderService
	stats   service.StatsService
	privacy service.PrivacyService
	authz   service.Authorizer
	links   service.Links
	ping    func(ctx context.Context) error
}

// Services 构造 Handler 所需的依赖
type Services struct {
	Search          service.SearchService
	Recommendations service.RecommendationService
	Reader          service.ReaderService
	Stats           service.StatsService
	Privacy         service.PrivacyService
	Authorizer      service.Authorizer
	Links           service.Links
	// Ping 数据库探活，nil 表示跳过
	Ping func(ctx context.Context) error
}

func NewHandler(s Services) *Handler {
	return &Handler{
		search:  s.Search,
		recs:    s.Recommendations,
		reader:  s.Reader,
		stats:   s.Stats,
		privacy: s.Privacy,
		authz:   s.Authorizer,
		links:   s.Links,
		ping:    s.Ping,
	}
}

// NoticeView 无权限时页面展示的提示
type NoticeView struct {
	Notice    string `json:"notice"`
	BackURL   string `json:"back_url"`
	BackLabel string `json:"back_label"`
}

func (h *Handler) caller(c *gin.Context) (service.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Unauthorized(c, "")
	}
	return caller, ok
}

func (h *Handler) can(caller service.Caller, capability string) (bool, error) {
	if h.authz == nil {
		return false, nil
	}
	return h.authz.Can(caller, capability)
}

// requirePage 页面型接口无权限时返回 200 + 提示
func (h *Handler) requirePage(c *gin.Context, capability string) (service.Caller, bool) {
	caller, ok := h.caller(c)
	if !ok {
		return caller, false
	}
	allowed, err := h.can(caller, capability)
	if err != nil {
		response.InternalError(c, err)
		return caller, false
	}
	if !allowed {
		response.Success(c, NoticeView{Notice: msgNoPermission, BackURL: h.links.Dashboard(), BackLabel: msgBackDashboard})
		return caller, false
	}
	return caller, true
}

// requireAPI 运维接口无权限时返回 403
func (h *Handler) requireAPI(c *gin.Context, capability string) (service.Caller, bool) {
	caller, ok := h.caller(c)
	if !ok {
		return caller, false
	}
	allowed, err := h.can(caller, capability)
	if err != nil {
		response.InternalError(c, err)
		return caller, false
	}
	if !allowed {
		response.Forbidden(c, msgNoPermission)
		return caller, false
	}
	return caller, true
}
