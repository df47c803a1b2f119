package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recommend-course/pkg/response"
)

// SearchCourses 课程自动补全
// @Summary 搜索可推荐的课程
// @Tags 搜索
// @Produce json
// @Security BearerAuth
// @Param query query string false "名称关键字"
// @Success 200 {object} response.Response{data=[]service.SearchHit}
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/search/courses [get]
func (h *Handler) SearchCourses(c *gin.Context) {
	if _, ok := h.caller(c); !ok {
		return
	}
	hits, err := h.search.SearchCourses(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, hits)
}

// SearchUsers 接收人自动补全，不含调用方本人
// @Summary 搜索接收人
// @Tags 搜索
// @Produce json
// @Security BearerAuth
// @Param query query string false "姓名或用户名关键字"
// @Success 200 {object} response.Response{data=[]service.SearchHit}
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/search/users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	hits, err := h.search.SearchUsers(c.Request.Context(), caller, c.Query("query"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, hits)
}
