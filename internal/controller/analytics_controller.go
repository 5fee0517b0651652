package controller

import (
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 用户分析
// @Description 用户总数、活跃数、月度增长和订阅分布
// @Tags 管理端-分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserAnalytics
// @Router /api/admin/analytics/users [get]
func (c *AnalyticsController) Users(ctx *gin.Context) {
	result, err := c.AnalyticsService.UserAnalytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Problem 分析
// @Description Problem 数量、难度分布和按 Problem 的完成率
// @Tags 管理端-分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProblemAnalytics
// @Router /api/admin/analytics/problems [get]
func (c *AnalyticsController) Problems(ctx *gin.Context) {
	result, err := c.AnalyticsService.ProblemAnalytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Pod 分析
// @Description Pod 数量、阶段分布和按 Pod 的尝试统计
// @Tags 管理端-分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PodAnalytics
// @Router /api/admin/analytics/pods [get]
func (c *AnalyticsController) Pods(ctx *gin.Context) {
	result, err := c.AnalyticsService.PodAnalytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Stage 分析
// @Description Stage 数量、类型分布和按 Stage 的进度统计
// @Tags 管理端-分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StageAnalytics
// @Router /api/admin/analytics/stages [get]
func (c *AnalyticsController) Stages(ctx *gin.Context) {
	result, err := c.AnalyticsService.StageAnalytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 学习进度分析
// @Description Problem attempt 的完成率、放弃率和平均完成时长
// @Tags 管理端-分析
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProgressAnalytics
// @Router /api/admin/analytics/progress [get]
func (c *AnalyticsController) Progress(ctx *gin.Context) {
	result, err := c.AnalyticsService.ProgressAnalytics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
