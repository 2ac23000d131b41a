package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/boost-ledger/internal/api/middleware"
	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/response"
)

type claimRequest struct {
	PostID string `json:"post_id" binding:"required,max=64"`
}

type boostRequest struct {
	ExternalRef       string `json:"external_ref" binding:"required,max=512"`
	TargetEngagements *int   `json:"target_engagements" binding:"omitempty,min=0,max=100000"`
	Type              string `json:"type" binding:"omitempty,oneof=tweet profile"`
}

type linkHandleRequest struct {
	Handle string `json:"handle" binding:"required,xhandle"`
}

// ClaimEngagementCredit 领取互动奖励
// @Summary 领取互动积分
// @Description 每个 (账户, 帖子) 只能领取一次；不能领取自己的帖子
// @Tags RPC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body claimRequest true "帖子"
// @Success 200 {object} response.Response{data=service.ClaimResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/rpc/claim_engagement_credit [post]
func (h *Handler) ClaimEngagementCredit(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.claims.Claim(c.Request.Context(), middleware.AccountID(c), req.PostID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// CreatePostSecure 消耗积分推广帖子
// @Summary 推广帖子
// @Description 扣除固定费用并登记帖子；余额不足时不产生任何写入
// @Tags RPC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body boostRequest true "外部帖子链接或 id"
// @Success 200 {object} response.Response{data=service.BoostResult}
// @Failure 400 {object} response.Response
// @Failure 402 {object} response.Response
// @Router /api/v1/rpc/create_post_secure [post]
func (h *Handler) CreatePostSecure(c *gin.Context) {
	var req boostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.boosts.Boost(c.Request.Context(), service.BoostRequest{
		AccountID:         middleware.AccountID(c),
		ExternalRef:       req.ExternalRef,
		TargetEngagements: req.TargetEngagements,
		Type:              model.PostType(req.Type),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// ClaimSignupBonus 领取注册奖励
// @Summary 领取注册奖励
// @Description 重复调用返回 granted=false，不是错误
// @Tags RPC
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.BonusResult}
// @Failure 409 {object} response.Response
// @Router /api/v1/rpc/claim_signup_bonus [post]
func (h *Handler) ClaimSignupBonus(c *gin.Context) {
	res, err := h.bonuses.ClaimBonus(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}

// LinkHandle 绑定 X handle 并领取注册奖励
// @Summary 绑定 handle
// @Tags RPC
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body linkHandleRequest true "以 @ 开头的 handle"
// @Success 200 {object} response.Response{data=service.BonusResult}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/rpc/link_handle [post]
func (h *Handler) LinkHandle(c *gin.Context) {
	var req linkHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_handle", service.ErrInvalidHandle.Msg)
		return
	}
	res, err := h.bonuses.LinkHandleAndClaim(c.Request.Context(), middleware.AccountID(c), req.Handle)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, res)
}
