package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/boost-ledger/internal/api/middleware"
	"github.com/d60-Lab/boost-ledger/internal/cache"
	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/response"
)

func (h *Handler) profile(c *gin.Context, id string) {
	var (
		snap *cache.ProfileSnapshot
		err  error
	)
	if c.Query("refresh") == "true" {
		snap, err = h.profiles.Refresh(c.Request.Context(), id)
	} else {
		snap, err = h.profiles.Get(c.Request.Context(), id)
	}
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, snap)
}

// GetProfile 查询账户资料
// @Summary 账户资料
// @Description 余额、累计获得与 handle；refresh=true 时绕过缓存
// @Tags 资料
// @Produce json
// @Param id path string true "账户ID"
// @Param refresh query bool false "绕过缓存"
// @Success 200 {object} response.Response{data=cache.ProfileSnapshot}
// @Failure 404 {object} response.Response
// @Router /api/v1/profiles/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	h.profile(c, c.Param("id"))
}

// Me 当前账户资料
// @Summary 当前账户资料
// @Tags 资料
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "绕过缓存"
// @Success 200 {object} response.Response{data=cache.ProfileSnapshot}
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	h.profile(c, middleware.AccountID(c))
}

// ListAccountPosts 账户发布的帖子，按创建时间倒序
// @Summary 账户帖子
// @Tags 资料
// @Produce json
// @Param id path string true "账户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/profiles/{id}/posts [get]
func (h *Handler) ListAccountPosts(c *gin.Context) {
	page, pageSize := paging(c)
	list, err := h.posts.ListByAccount(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListAccountLedger 账户流水，按创建时间倒序；仅本人或版主/管理员可见
// @Summary 账户流水
// @Tags 资料
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 403 {object} response.Response
// @Router /api/v1/profiles/{id}/ledger [get]
func (h *Handler) ListAccountLedger(c *gin.Context) {
	id := c.Param("id")
	if acct := middleware.CurrentAccount(c); acct == nil || (acct.ID != id && !acct.IsPrivileged()) {
		fail(c, service.ErrForbidden)
		return
	}
	page, pageSize := paging(c)
	list, err := h.accounts.Ledger(c.Request.Context(), id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListAccountClaims 互动领取记录；可见范围同流水
// @Summary 领取记录
// @Tags 资料
// @Produce json
// @Security BearerAuth
// @Param id path string true "账户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 403 {object} response.Response
// @Router /api/v1/profiles/{id}/claims [get]
func (h *Handler) ListAccountClaims(c *gin.Context) {
	id := c.Param("id")
	if acct := middleware.CurrentAccount(c); acct == nil || (acct.ID != id && !acct.IsPrivileged()) {
		fail(c, service.ErrForbidden)
		return
	}
	page, pageSize := paging(c)
	list, err := h.accounts.Claims(c.Request.Context(), id, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// Leaderboard 按累计获得排序
// @Summary 排行榜
// @Tags 资料
// @Produce json
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]cache.ProfileSnapshot}
// @Router /api/v1/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultLeaderboardLimit)))
	rows, err := h.profiles.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, rows)
}

// Feed 可互动的帖子：活跃且不属于自己，按创建时间倒序
// @Summary 帖子流
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	page, pageSize := paging(c)
	list, err := h.posts.Feed(c.Request.Context(), middleware.AccountID(c), page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ArchivePost 帖子所有者归档
// @Summary 归档帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/posts/{id}/archive [post]
func (h *Handler) ArchivePost(c *gin.Context) {
	if err := h.posts.Archive(c.Request.Context(), middleware.AccountID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}
