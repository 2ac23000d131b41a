// Package response 统一 JSON 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应体
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Reason  string      `json:"reason,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Error 自定义状态码与业务原因
func Error(c *gin.Context, status int, reason, msg string) {
	c.JSON(status, Response{Code: status, Message: msg, Reason: reason})
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, "bad_request", msg)
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: msg, Reason: "unauthorized"})
}

// Forbidden 无权限
func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{Code: http.StatusForbidden, Message: msg, Reason: "forbidden"})
}

// TooManyRequests 限流
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Message: "rate limit exceeded", Reason: "rate_limited"})
}

// InternalError 服务器内部错误，不向调用方暴露细节
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, "internal", "internal server error")
}
