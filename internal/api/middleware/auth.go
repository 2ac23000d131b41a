// Package middleware gin 中间件：认证、权限、限流、访问日志
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/response"
)

const (
	ctxAccountID = "account_id"
	ctxAccount   = "account"

	// 与 accounts.id / accounts.username 列宽一致
	maxSubjectLen  = 36
	maxUsernameLen = 64
)

// Claims sub 为账户 id，name 在首次登录时作为用户名
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AccountEnsurer 首次认证时创建账户
type AccountEnsurer interface {
	EnsureAccount(ctx context.Context, accountID, username string) (*model.Account, error)
}

// IssueToken 签发 HS256 令牌（开发与测试用，生产由外部身份服务签发）
func IssueToken(secret, issuer, subject, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken 校验签名、算法、过期时间与签发者；sub 超出账户 id 列宽视为无效，name 超长截断
func ParseToken(secret, issuer, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	if len(claims.Subject) > maxSubjectLen {
		return nil, errors.New("subject too long")
	}
	if r := []rune(claims.Name); len(r) > maxUsernameLen {
		claims.Name = string(r[:maxUsernameLen])
	}
	return &claims, nil
}

// Auth 解析 Bearer 令牌，确保账户存在并写入上下文
func Auth(secret, issuer string, accounts AccountEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "missing or malformed Authorization header")
			return
		}

		claims, err := ParseToken(secret, issuer, strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("token rejected", zap.Error(err), zap.String("path", c.FullPath()))
			response.Unauthorized(c, "invalid token")
			return
		}

		name := claims.Name
		if name == "" {
			name = claims.Subject
		}
		acct, err := accounts.EnsureAccount(c.Request.Context(), claims.Subject, name)
		if err != nil {
			response.InternalError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxAccountID, acct.ID)
		c.Set(ctxAccount, acct)
		c.Next()
	}
}

// AccountID 当前认证账户 id
func AccountID(c *gin.Context) string {
	return c.GetString(ctxAccountID)
}

// CurrentAccount 当前认证账户（认证时的快照）
func CurrentAccount(c *gin.Context) *model.Account {
	v, ok := c.Get(ctxAccount)
	if !ok {
		return nil
	}
	acct, _ := v.(*model.Account)
	return acct
}

// RequireRole 仅允许指定角色访问
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		acct := CurrentAccount(c)
		if acct == nil || !acct.Active || !allowed[acct.Role] {
			response.Forbidden(c, "insufficient role")
			return
		}
		c.Next()
	}
}
