package controller

import (
	"podlab_backend/internal/repository"
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StageController struct {
	StageService    *service.StageService
	ProgressService *service.ProgressService
}

func NewStageController(stageService *service.StageService, progressService *service.ProgressService) *StageController {
	return &StageController{
		StageService:    stageService,
		ProgressService: progressService,
	}
}

// @Summary 获取 Pod 下的 Stage 列表
// @Description 按 order 升序返回 Pod 的全部 Stage 及当前用户进度
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Success 200 {object} service.PodStagesView
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages [get]
func (c *StageController) ListForPod(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	view, err := c.StageService.ListForUser(identity.UserID, ctx.Param("podId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 获取 Stage 详情
// @Description 返回 Stage 内容、当前用户进度及外部内容文件
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Success 200 {object} service.StageDetailView
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId} [get]
func (c *StageController) Get(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	view, err := c.StageService.GetForUser(ctx.Request.Context(), identity.UserID, ctx.Param("podId"), ctx.Param("stageId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 开始 Stage
// @Description 进度 locked → in_progress，按需创建 attempt 链，重复调用无副作用
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId}/start [post]
func (c *StageController) Start(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	progress, err := c.ProgressService.StartStage(identity.UserID, ctx.Param("podId"), ctx.Param("stageId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":       "Stage started successfully",
		"stageProgress": progress,
	})
}

// @Summary 完成 Stage
// @Description 进度置为 completed，可附带评估分数和笔记。要求进度记录已存在
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Param body body service.CompleteStageInput false "评估分数与笔记"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId}/complete [post]
func (c *StageController) Complete(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.CompleteStageInput
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	progress, err := c.ProgressService.CompleteStage(identity.UserID, ctx.Param("podId"), ctx.Param("stageId"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":       "Stage completed successfully",
		"stageProgress": progress,
	})
}

// @Summary 更新 Stage 进度
// @Description 部分更新进度字段，lastAccessedAt 每次刷新，状态不变
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Param body body service.ProgressUpdateInput true "进度字段"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId}/progress [patch]
func (c *StageController) UpdateProgress(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.ProgressUpdateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.UpdateProgress(identity.UserID, ctx.Param("podId"), ctx.Param("stageId"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":       "Progress updated successfully",
		"stageProgress": progress,
	})
}

// @Summary 提交练习题答案
// @Description 判定答案并记录作答，答对时回显参考答案
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Param body body service.PracticeSubmissionInput true "作答内容"
// @Success 200 {object} service.PracticeResult
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId}/practice/submit [post]
func (c *StageController) SubmitPractice(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.PracticeSubmissionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitPractice(identity.UserID, ctx.Param("podId"), ctx.Param("stageId"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交选择题答案
// @Description 按所选选项的正确性判定，答对返回解析，答错返回正确选项 ID
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Param body body service.MCQSubmissionInput true "作答内容"
// @Success 200 {object} service.MCQResult
// @Failure 404 {object} util.ErrorBody
// @Router /api/pods/{podId}/stages/{stageId}/assessment/submit [post]
func (c *StageController) SubmitMCQ(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.MCQSubmissionInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitMCQ(identity.UserID, ctx.Param("podId"), ctx.Param("stageId"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 获取 Stage 列表
// @Description 管理端分页获取 Stage，支持按 Pod 和类型过滤
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param podId query string false "Pod 过滤"
// @Param type query string false "类型过滤"
// @Success 200 {object} util.PagedResponse
// @Router /api/admin/stages [get]
func (c *StageController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx)

	filter := repository.StageFilter{
		PodID: ctx.Query("podId"),
		Type:  ctx.Query("type"),
	}

	stages, total, err := c.StageService.List(page, limit, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, stages, page, limit, total)
}

// @Summary 创建 Stage
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param stage body service.StageInput true "Stage 内容"
// @Success 201 {object} model.PodStage
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/stages [post]
func (c *StageController) Create(ctx *gin.Context) {
	var input service.StageInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stage, err := c.StageService.Create(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, stage)
}

// @Summary 更新 Stage
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stage ID"
// @Param stage body service.StageInput true "Stage 内容"
// @Success 200 {object} model.PodStage
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/stages/{id} [put]
func (c *StageController) Update(ctx *gin.Context) {
	var input service.StageInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stage, err := c.StageService.Update(ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stage)
}

// @Summary 删除 Stage
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Stage ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/stages/{id} [delete]
func (c *StageController) Delete(ctx *gin.Context) {
	if err := c.StageService.Delete(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Stage deleted successfully"})
}
