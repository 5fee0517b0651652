package middleware

import (
	"errors"
	"strings"

	"podlab_backend/internal/service"
	"podlab_backend/internal/util"
	"podlab_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth 解析 Authorization: Bearer <token> 并把身份写入请求上下文。
// 身份服务通过构造参数注入，方便测试时替换。
func Auth(identity *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			util.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		id, err := identity.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				util.Unauthorized(c, "Invalid or expired token")
			} else {
				logger.Log.Error("身份解析失败", zap.Error(err))
				util.InternalServerError(c)
			}
			c.Abort()
			return
		}

		util.SetIdentity(c, id)
		c.Next()
	}
}

// RequireAdmin 管理端路由的准入。
// TODO: 接入 user_profiles.role 后在这里校验 role == "admin"，
// 目前与旧版行为保持一致，只要求携带有效身份。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetIdentity(c) == nil {
			util.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}
		c.Next()
	}
}
