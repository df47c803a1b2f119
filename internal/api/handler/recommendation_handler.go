package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/logger"
	"github.com/d60-Lab/recommend-course/pkg/response"
)

const (
	msgAddError   = "Invalid data. Please select at least one user and course."
	msgAddSuccess = "Recommendation has been successfully submitted."
)

type recommendRequest struct {
	CourseID int64   `json:"course_id" form:"course_id" binding:"required,gt=0"`
	UserIDs  []int64 `json:"user_ids" form:"user_ids" binding:"required,min=1,dive,gt=0"`
}

// Notification 表单提交后的提示
type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RecommendResult 提交结果，前端据 redirect_url 回到表单页
type RecommendResult struct {
	Notification Notification `json:"notification"`
	RedirectURL  string       `json:"redirect_url"`
	Created      int          `json:"created"`
}

// Recommend 向多个用户推荐一门课程
// @Summary 推荐课程
// @Tags 推荐
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body recommendRequest true "课程与接收人"
// @Success 201 {object} response.Response{data=RecommendResult}
// @Failure 400 {object} response.Response{data=RecommendResult}
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/recommendations [post]
func (h *Handler) Recommend(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req recommendRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				logger.Debug("recommend validation", zap.String("field", fe.Field()), zap.String("tag", fe.Tag()))
			}
		}
		h.recommendInvalid(c)
		return
	}

	n, err := h.recs.Recommend(c.Request.Context(), caller, service.RecommendInput{CourseID: req.CourseID, ReceiverIDs: req.UserIDs})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecommendation) || errors.Is(err, service.ErrInvalidUserID) {
			h.recommendInvalid(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, RecommendResult{
		Notification: Notification{Type: "success", Message: msgAddSuccess},
		RedirectURL:  service.PathRecommend,
		Created:      n,
	})
}

func (h *Handler) recommendInvalid(c *gin.Context) {
	response.BadRequestWithData(c, msgAddError, RecommendResult{
		Notification: Notification{Type: "error", Message: msgAddError},
		RedirectURL:  service.PathRecommend,
	})
}

// Widget 最近推荐小部件
// @Summary 最近收到的推荐
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Param layout query string false "compact 或 expanded" Enums(compact, expanded) default(expanded)
// @Success 200 {object} response.Response{data=service.WidgetView}
// @Failure 401 {object} response.Response
// @Router /api/v1/recommendations/widget [get]
func (h *Handler) Widget(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	view, err := h.reader.Widget(c.Request.Context(), caller, service.ParseLayout(c.Query("layout")))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// Mine 收到的全部推荐
// @Summary 全部推荐
// @Tags 推荐
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.AllView}
// @Failure 401 {object} response.Response
// @Router /api/v1/recommendations/mine [get]
func (h *Handler) Mine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	view, err := h.reader.All(c.Request.Context(), caller)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// History 全站推荐历史
// @Summary 推荐历史（需 viewstats）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.HistoryView}
// @Failure 401 {object} response.Response
// @Router /api/v1/recommendations/history [get]
func (h *Handler) History(c *gin.Context) {
	if _, ok := h.requirePage(c, service.CapabilityViewStats); !ok {
		return
	}
	view, err := h.reader.History(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// Stats 最受欢迎与最冷门课程
// @Summary 推荐统计（需 viewstats）
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.StatsView}
// @Failure 401 {object} response.Response
// @Router /api/v1/recommendations/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	if _, ok := h.requirePage(c, service.CapabilityViewStats); !ok {
		return
	}
	view, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}
