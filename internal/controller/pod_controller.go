package controller

import (
	"podlab_backend/internal/repository"
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PodController struct {
	PodService *service.PodService
}

func NewPodController(podService *service.PodService) *PodController {
	return &PodController{PodService: podService}
}

// @Summary 获取 Pod 列表
// @Description 管理端分页获取 Pod，支持按阶段过滤和标题搜索
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param phase query string false "阶段过滤"
// @Param search query string false "标题搜索"
// @Success 200 {object} util.PagedResponse
// @Router /api/admin/pods [get]
func (c *PodController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx)

	filter := repository.PodFilter{
		Phase:  ctx.Query("phase"),
		Search: ctx.Query("search"),
	}

	pods, total, err := c.PodService.List(page, limit, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, pods, page, limit, total)
}

// @Summary 获取单个 Pod
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pod ID"
// @Success 200 {object} model.Pod
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/pods/{id} [get]
func (c *PodController) Get(ctx *gin.Context) {
	pod, err := c.PodService.Get(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, pod)
}

// @Summary 创建 Pod
// @Description 创建 Pod 并把引用追加到父 Problem
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pod body service.PodInput true "Pod 内容"
// @Success 201 {object} model.Pod
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/pods [post]
func (c *PodController) Create(ctx *gin.Context) {
	var input service.PodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pod, err := c.PodService.Create(input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, pod)
}

// @Summary 更新 Pod
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pod ID"
// @Param pod body service.PodInput true "Pod 内容"
// @Success 200 {object} model.Pod
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/pods/{id} [put]
func (c *PodController) Update(ctx *gin.Context) {
	var input service.PodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	pod, err := c.PodService.Update(ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, pod)
}

// @Summary 删除 Pod
// @Description 删除 Pod、级联删除下属 Stage 并摘除父 Problem 的引用
// @Tags 管理端-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Pod ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/pods/{id} [delete]
func (c *PodController) Delete(ctx *gin.Context) {
	if err := c.PodService.Delete(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Pod deleted successfully"})
}
