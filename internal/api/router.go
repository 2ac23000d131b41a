// Package api 组装 gin 路由
package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/boost-ledger/docs"
	"github.com/d60-Lab/boost-ledger/internal/api/handler"
	"github.com/d60-Lab/boost-ledger/internal/api/middleware"
	"github.com/d60-Lab/boost-ledger/internal/model"
)

// Options 路由参数
type Options struct {
	JWTSecret   string
	JWTIssuer   string
	RateLimiter *middleware.RateLimiter
	// ServiceName 非空时启用 otelgin
	ServiceName string
}

// NewRouter 注册全部路由
func NewRouter(h *handler.Handler, accounts middleware.AccountEnsurer, opts Options) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), gzip.Gzip(gzip.DefaultCompression))
	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/leaderboard", h.Leaderboard)
		v1.GET("/profiles/:id", h.GetProfile)
		v1.GET("/profiles/:id/posts", h.ListAccountPosts)
	}

	authed := v1.Group("", middleware.Auth(opts.JWTSecret, opts.JWTIssuer, accounts))
	{
		authed.GET("/me", h.Me)
		authed.GET("/feed", h.Feed)
		authed.GET("/profiles/:id/ledger", h.ListAccountLedger)
		authed.GET("/profiles/:id/claims", h.ListAccountClaims)
		authed.POST("/posts/:id/archive", h.ArchivePost)
	}

	rpc := authed.Group("/rpc")
	if opts.RateLimiter != nil {
		rpc.Use(opts.RateLimiter.Handler())
	}
	{
		rpc.POST("/claim_engagement_credit", h.ClaimEngagementCredit)
		rpc.POST("/create_post_secure", h.CreatePostSecure)
		rpc.POST("/claim_signup_bonus", h.ClaimSignupBonus)
		rpc.POST("/link_handle", h.LinkHandle)
	}

	moderation := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin, model.RoleModerator))
	{
		moderation.POST("/posts/:id/archive", h.AdminArchivePost)
		moderation.GET("/posts/:id/audit", h.AuditPost)
	}

	admin := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/boosts", h.AdminBoost)
		admin.GET("/accounts/search", h.SearchAccounts)
		admin.POST("/accounts/:id/deactivate", h.DeactivateAccount)
		admin.POST("/accounts/:id/role", h.SetAccountRole)
		admin.GET("/accounts/:id/audit", h.AuditAccount)
	}
	return r, nil
}
