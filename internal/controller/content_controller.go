package controller

import (
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	StageService *service.StageService
}

func NewContentController(stageService *service.StageService) *ContentController {
	return &ContentController{StageService: stageService}
}

// @Summary 获取 Pod 内容
// @Description 返回 Pod 的 Markdown 正文，优先外部内容文件
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/content/pods/{podId}/content [get]
func (c *ContentController) PodContent(ctx *gin.Context) {
	content, err := c.StageService.PodContent(ctx.Request.Context(), ctx.Param("podId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"content":     content,
		"contentType": "markdown",
	})
}

// @Summary 获取 Stage 内容
// @Description 返回 Stage 的 Markdown 正文和结构化内容包
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param podId path string true "Pod ID"
// @Param stageId path string true "Stage ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} util.ErrorBody
// @Router /api/content/pods/{podId}/stages/{stageId}/content [get]
func (c *ContentController) StageContent(ctx *gin.Context) {
	content, stageContent, err := c.StageService.StageMarkdown(ctx.Request.Context(), ctx.Param("podId"), ctx.Param("stageId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"content":      content,
		"contentType":  "markdown",
		"stageContent": stageContent,
	})
}
