package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/response"
)

// Services handler 依赖的业务服务
type Services struct {
	Claims   service.ClaimService
	Boosts   service.BoostService
	Bonuses  service.BonusService
	Profiles service.ProfileService
	Posts    service.PostService
	Accounts service.AccountService
	Audit    service.AuditService
}

// Handler HTTP 处理器集合
type Handler struct {
	claims   service.ClaimService
	boosts   service.BoostService
	bonuses  service.BonusService
	profiles service.ProfileService
	posts    service.PostService
	accounts service.AccountService
	audit    service.AuditService
}

func New(s Services) *Handler {
	return &Handler{
		claims:   s.Claims,
		boosts:   s.Boosts,
		bonuses:  s.Bonuses,
		profiles: s.Profiles,
		posts:    s.Posts,
		accounts: s.Accounts,
		audit:    s.Audit,
	}
}

// RegisterValidators 注册自定义校验标签 xhandle
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("xhandle", func(fl validator.FieldLevel) bool {
		return service.ValidHandle(fl.Field().String())
	})
}

// fail 把业务错误映射为 HTTP 状态码
func fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrForbidden) {
		response.Error(c, http.StatusForbidden, service.ReasonOf(err), err.Error())
		return
	}
	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindStateConflict:
		status = http.StatusConflict
	case service.KindResource:
		status = http.StatusPaymentRequired
	default:
		response.InternalError(c, err)
		return
	}
	response.Error(c, status, service.ReasonOf(err), err.Error())
}

func paging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
