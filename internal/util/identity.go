package util

import "github.com/gin-gonic/gin"

const identityKey = "identity"

// Identity 身份服务解析出的当前请求用户
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
}

func GetIdentity(c *gin.Context) *Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	id, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return id
}
