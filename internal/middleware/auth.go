package middleware

import (
	"context"
	"net/http"
	"strings"

	"Fundingift/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextConsumerIDKey = "consumer_id"

// SessionStore 身份服务写入的登录会话，为 nil 时只校验 JWT
type SessionStore interface {
	GetToken(ctx context.Context, consumerID uint64) (string, error)
	ExtendToken(ctx context.Context, consumerID uint64) error
}

func AuthMiddleware(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "msg": "invalid authorization format"})
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "msg": "invalid or expired token"})
			return
		}

		if sessions != nil {
			// redis校验是否是正确的token
			origin, err := sessions.GetToken(c.Request.Context(), claims.ConsumerID)
			if err != nil || origin != tokenStr {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "msg": "account has been logged in elsewhere"})
				return
			}
			// 校验通过后更新过期时间
			if err := sessions.ExtendToken(c.Request.Context(), claims.ConsumerID); err != nil {
				// 原始错误只进访问日志
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "msg": "internal error"})
				return
			}
		}

		c.Set(ContextConsumerIDKey, claims.ConsumerID)
		c.Next()
	}
}

// ConsumerID 取出鉴权中间件注入的 consumer id
func ConsumerID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextConsumerIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
