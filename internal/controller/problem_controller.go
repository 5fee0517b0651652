package controller

import (
	"podlab_backend/internal/repository"
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	ProblemService *service.ProblemService
}

func NewProblemController(problemService *service.ProblemService) *ProblemController {
	return &ProblemController{ProblemService: problemService}
}

// @Summary 获取 Problem 详情
// @Description 按 slug 获取公开 Problem 的完整内容树及当前用户进度
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Problem slug"
// @Success 200 {object} service.ProblemDetail
// @Failure 404 {object} util.ErrorBody
// @Router /api/problems/{slug} [get]
func (c *ProblemController) GetBySlug(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	detail, err := c.ProblemService.GetBySlug(ctx.Request.Context(), identity.UserID, ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 获取 Problem 列表
// @Description 管理端分页获取 Problem，支持按难度和可见性过滤
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param difficulty query string false "难度过滤"
// @Param isPublic query bool false "可见性过滤"
// @Success 200 {object} util.PagedResponse
// @Router /api/admin/problems [get]
func (c *ProblemController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx)

	filter := repository.ProblemFilter{Difficulty: ctx.Query("difficulty")}
	if v := ctx.Query("isPublic"); v != "" {
		isPublic := v == "true"
		filter.IsPublic = &isPublic
	}

	problems, total, err := c.ProblemService.List(page, limit, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, problems, page, limit, total)
}

// @Summary 获取单个 Problem
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Problem ID"
// @Success 200 {object} model.Problem
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/problems/{id} [get]
func (c *ProblemController) Get(ctx *gin.Context) {
	problem, err := c.ProblemService.Get(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// @Summary 创建 Problem
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param problem body service.ProblemInput true "Problem 内容"
// @Success 201 {object} model.Problem
// @Failure 400 {object} util.ErrorBody
// @Router /api/admin/problems [post]
func (c *ProblemController) Create(ctx *gin.Context) {
	var input service.ProblemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.ProblemService.Create(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, problem)
}

// @Summary 更新 Problem
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Problem ID"
// @Param problem body service.ProblemInput true "Problem 内容"
// @Success 200 {object} model.Problem
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/problems/{id} [put]
func (c *ProblemController) Update(ctx *gin.Context) {
	var input service.ProblemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.ProblemService.Update(ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, problem)
}

// @Summary 删除 Problem
// @Description 删除 Problem 并级联删除下属 Pod 和 Stage
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Problem ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/problems/{id} [delete]
func (c *ProblemController) Delete(ctx *gin.Context) {
	if err := c.ProblemService.Delete(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Problem deleted successfully"})
}
