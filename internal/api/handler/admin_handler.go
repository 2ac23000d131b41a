package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/response"
)

type adminBoostRequest struct {
	AccountID         string `json:"account_id" binding:"required,max=64"`
	ExternalRef       string `json:"external_ref" binding:"required,max=512"`
	CostOverride      *int64 `json:"cost_override" binding:"omitempty,gt=0"`
	TargetEngagements *int   `json:"target_engagements" binding:"omitempty,min=0,max=100000"`
	Type              string `json:"type" binding:"omitempty,oneof=tweet profile"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin"`
}

// AdminArchivePost 审核侧门强制归档
// @Summary 强制归档帖子
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/posts/{id}/archive [post]
func (h *Handler) AdminArchivePost(c *gin.Context) {
	if err := h.posts.AdminArchive(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AdminBoost 代指定账户推广，可覆盖费用
// @Summary 管理员推广
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body adminBoostRequest true "推广参数"
// @Success 200 {object} response.Response{data=service.BoostResult}
// @Failure 400 {object} response.Response
// @Failure 402 {object} response.Response
// @Router /api/v1/admin/boosts [post]
func (h *Handler) AdminBoost(c *gin.Context) {
	var req adminBoostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.boosts.Boost(c.Request.Context(), service.BoostRequest{
		AccountID:         req.AccountID,
		ExternalRef:       req.ExternalRef,
		CostOverride:      req.CostOverride,
		TargetEngagements: req.TargetEngagements,
		Type:              model.PostType(req.Type),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// SearchAccounts 按 handle 或用户名查找账户
// @Summary 查找账户
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param q query string true "handle（可省略 @）或用户名"
// @Success 200 {object} response.Response{data=model.Account}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/accounts/search [get]
func (h *Handler) SearchAccounts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	acct, err := h.accounts.Search(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, acct)
}

// DeactivateAccount 停用账户
// @Summary 停用账户
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/accounts/{id}/deactivate [post]
func (h *Handler) DeactivateAccount(c *gin.Context) {
	if err := h.accounts.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// SetAccountRole 修改账户角色
// @Summary 修改角色
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户ID"
// @Param request body setRoleRequest true "角色"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/accounts/{id}/role [post]
func (h *Handler) SetAccountRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.accounts.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// AuditAccount 对账：比较余额快照与流水之和
// @Summary 账户对账
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户ID"
// @Success 200 {object} response.Response{data=service.AuditReport}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/accounts/{id}/audit [get]
func (h *Handler) AuditAccount(c *gin.Context) {
	rep, err := h.audit.AuditAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, rep)
}

// AuditPost 对账：比较帖子互动计数与领取记录数
// @Summary 帖子对账
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostAuditReport}
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id}/audit [get]
func (h *Handler) AuditPost(c *gin.Context) {
	rep, err := h.audit.AuditPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, rep)
}
