package controller

import (
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ArtefactController struct {
	ArtefactService *service.ArtefactService
}

func NewArtefactController(artefactService *service.ArtefactService) *ArtefactController {
	return &ArtefactController{ArtefactService: artefactService}
}

// @Summary 获取 attempt 的产物列表
// @Tags 产物
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "Pod attempt ID"
// @Success 200 {array} model.Artefact
// @Failure 404 {object} util.ErrorBody
// @Router /api/attempts/{attemptId}/artefacts [get]
func (c *ArtefactController) List(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	artefacts, err := c.ArtefactService.List(identity.UserID, ctx.Param("attemptId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, artefacts)
}

// @Summary 提交产物
// @Tags 产物
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path string true "Pod attempt ID"
// @Param artefact body service.ArtefactInput true "产物内容"
// @Success 201 {object} model.Artefact
// @Failure 404 {object} util.ErrorBody
// @Router /api/attempts/{attemptId}/artefacts [post]
func (c *ArtefactController) Create(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.ArtefactInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	artefact, err := c.ArtefactService.Create(identity.UserID, ctx.Param("attemptId"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, artefact)
}

// @Summary 更新产物
// @Tags 产物
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "产物 ID"
// @Param artefact body service.ArtefactInput true "产物内容"
// @Success 200 {object} model.Artefact
// @Failure 404 {object} util.ErrorBody
// @Router /api/artefacts/{id} [put]
func (c *ArtefactController) Update(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.ArtefactInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	artefact, err := c.ArtefactService.Update(identity.UserID, ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, artefact)
}

// @Summary 删除产物
// @Tags 产物
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "产物 ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/artefacts/{id} [delete]
func (c *ArtefactController) Delete(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	if err := c.ArtefactService.Delete(identity.UserID, ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Artefact deleted successfully"})
}
