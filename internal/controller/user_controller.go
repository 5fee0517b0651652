package controller

import (
	"podlab_backend/internal/model"
	"podlab_backend/internal/repository"
	"podlab_backend/internal/service"
	"podlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	ProfileService *service.ProfileService
}

func NewUserController(profileService *service.ProfileService) *UserController {
	return &UserController{ProfileService: profileService}
}

// @Summary 获取个人资料
// @Description 获取当前用户的资料，不存在时返回 404
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserProfile
// @Failure 404 {object} util.ErrorBody
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	profile, err := c.ProfileService.GetOwn(identity.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 更新个人资料
// @Description 更新当前用户的资料，不存在则创建
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body service.ProfileInput true "资料内容"
// @Success 200 {object} model.UserProfile
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	var input service.ProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpsertOwn(identity.UserID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 签发 API key
// @Description 生成新的 API key，明文只返回这一次
// @Tags 个人资料
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/profile/api-key [post]
func (c *UserController) IssueAPIKey(ctx *gin.Context) {
	identity := util.GetIdentity(ctx)
	if identity == nil {
		util.Unauthorized(ctx, "Authorization header required")
		return
	}

	key, err := c.ProfileService.IssueAPIKey(identity.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"apiKey": key})
}

// @Summary 获取用户列表
// @Description 管理端分页获取用户，支持按订阅档位过滤和关键词搜索
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param tier query string false "订阅档位过滤"
// @Param search query string false "邮箱/用户名/姓名搜索"
// @Success 200 {object} util.PagedResponse
// @Router /api/admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := parsePagination(ctx)

	filter := repository.UserFilter{
		Tier:   ctx.Query("tier"),
		Search: ctx.Query("search"),
	}

	users, total, err := c.ProfileService.ListUsers(page, limit, filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Paged(ctx, users, page, limit, total)
}

// @Summary 获取用户详情
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Success 200 {object} model.UserProfile
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	user, err := c.ProfileService.GetUser(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type subscriptionUpdateRequest struct {
	SubscriptionTier model.SubscriptionTier `json:"subscriptionTier" binding:"required"`
}

// @Summary 更新用户订阅档位
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Param body body subscriptionUpdateRequest true "订阅档位"
// @Success 200 {object} model.UserProfile
// @Failure 400 {object} util.ErrorBody
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/users/{id}/subscription [put]
func (c *UserController) UpdateSubscription(ctx *gin.Context) {
	var req subscriptionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.ProfileService.UpdateSubscription(ctx.Param("id"), req.SubscriptionTier)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 删除用户
// @Tags 管理端-用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} util.ErrorBody
// @Router /api/admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	if err := c.ProfileService.DeleteUser(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "User deleted successfully"})
}
