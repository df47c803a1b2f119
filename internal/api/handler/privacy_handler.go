package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/recommend-course/internal/service"
	"github.com/d60-Lab/recommend-course/pkg/response"
)

type deleteUsersRequest struct {
	Context string  `json:"context"`
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,dive,gt=0"`
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, service.ErrInvalidUserID.Error())
		return 0, false
	}
	return id, true
}

// PrivacyMetadata 本组件保存的个人数据说明
// @Summary 个人数据说明
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.Metadata}
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/metadata [get]
func (h *Handler) PrivacyMetadata(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	response.Success(c, h.privacy.Metadata())
}

// UserContexts 用户有数据的上下文
// @Summary 用户数据所在上下文
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/users/{user_id}/contexts [get]
func (h *Handler) UserContexts(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	contexts, err := h.privacy.ContextsForUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "contexts": contexts})
}

// ContextUsers 上下文中有数据的用户
// @Summary 上下文中的用户
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Param context path string true "上下文，目前只有 system"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/contexts/{context}/users [get]
func (h *Handler) ContextUsers(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	name := c.Param("context")
	ids, err := h.privacy.UsersInContext(c.Request.Context(), name)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"context": name, "user_ids": ids})
}

// ExportUser 导出用户数据
// @Summary 导出用户的推荐数据
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=service.ExportResult}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/users/{user_id}/export [post]
func (h *Handler) ExportUser(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	res, err := h.privacy.Export(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteUser 删除用户作为发送人或接收人的全部推荐
// @Summary 删除用户数据
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/users/{user_id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	n, err := h.privacy.DeleteForUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": n})
}

// DeleteUsers 批量删除
// @Summary 批量删除用户数据
// @Tags 隐私
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body deleteUsersRequest true "上下文（默认 system）与用户列表"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/users/delete [post]
func (h *Handler) DeleteUsers(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	var req deleteUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Context == "" {
		req.Context = service.ContextSystem
	}
	n, err := h.privacy.DeleteForUsers(c.Request.Context(), req.Context, req.UserIDs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": n})
}

// DeleteContext 清空上下文中的全部数据
// @Summary 清空上下文
// @Tags 隐私
// @Produce json
// @Security BearerAuth
// @Param context path string true "上下文，只有 system 会实际删除"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 403 {object} response.Response
// @Router /api/v1/privacy/contexts/{context} [delete]
func (h *Handler) DeleteContext(c *gin.Context) {
	if _, ok := h.requireAPI(c, service.CapabilityPrivacy); !ok {
		return
	}
	n, err := h.privacy.DeleteAllInContext(c.Request.Context(), c.Param("context"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": n})
}
