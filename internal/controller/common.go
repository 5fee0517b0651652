package controller

import (
	"errors"
	"strconv"

	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// parsePagination 解析 page/limit 查询参数，带默认值和上限
func parsePagination(ctx *gin.Context) (int, int) {
	page := 1
	limit := 20
	if v := ctx.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// respondError 业务错误到状态码的统一映射
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsNotFound(err):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidTier),
		errors.Is(err, service.ErrInvalidDifficulty),
		errors.Is(err, service.ErrInvalidPhase),
		errors.Is(err, service.ErrInvalidStageType),
		errors.Is(err, service.ErrInvalidArtefactType):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
