package api

import (
	"log"
	"strconv"

	"financetracker/config"
	"financetracker/database"
	"financetracker/models"
	"financetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler 用户审批处理器
type AdminHandler struct {
	emailService *service.EmailService
}

// NewAdminHandler 创建用户审批处理器
func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// ProfileLinkRequest 审批时授予的单条档案权限
type ProfileLinkRequest struct {
	ProfileID  uint   `json:"profileId" binding:"required" example:"1"`
	Permission string `json:"permission" binding:"required" example:"read"` // read/edit
}

// ApproveUserRequest 审批请求
// profileLinks 可为空：用户审核通过后不持有任何档案权限，需自行创建档案
type ApproveUserRequest struct {
	Role         string               `json:"role" binding:"required" example:"approved"` // admin/approved
	ProfileLinks []ProfileLinkRequest `json:"profileLinks"`
}

// PendingUsers 获取待审核用户列表
// @Summary 获取待审核用户列表
// @Description 按注册时间升序返回全部待审核用户
// @Tags 用户审批
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/admin/users/pending [get]
func (h *AdminHandler) PendingUsers(c *gin.Context) {
	users := []models.User{}
	if err := database.DB.Where("role = ?", models.RolePending).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		log.Printf("查询待审核用户失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, gin.H{"users": users})
}

// AllProfiles 获取全部档案
// @Summary 获取全部档案
// @Description 返回系统内全部档案，供审批时分配权限使用
// @Tags 用户审批
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要管理员权限"
// @Router /api/admin/profiles [get]
func (h *AdminHandler) AllProfiles(c *gin.Context) {
	profiles := []models.Profile{}
	if err := database.DB.Order("name").Find(&profiles).Error; err != nil {
		log.Printf("查询档案列表失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, gin.H{"profiles": profiles})
}

// Approve 审批通过用户
// @Summary 审批通过用户
// @Description 将待审核用户置为 approved 或 admin，并可同时授予若干档案权限
// @Tags 用户审批
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body ApproveUserRequest true "审批内容"
// @Success 200 {object} Response{data=models.User} "审批成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要管理员权限"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/admin/users/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的用户ID")
		return
	}

	var req ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if req.Role != models.RoleApproved && req.Role != models.RoleAdmin {
		BadRequest(c, "角色只能为 approved 或 admin")
		return
	}
	for _, pl := range req.ProfileLinks {
		if !models.ValidPermission(pl.Permission) {
			BadRequest(c, "权限只能为 read 或 edit")
			return
		}
	}

	var user models.User
	if err := database.DB.First(&user, uint(userID)).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	if user.Role != models.RolePending {
		BadRequest(c, "该用户已完成审核")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("role", req.Role).Error; err != nil {
			return err
		}
		for _, pl := range req.ProfileLinks {
			var profile models.Profile
			if err := tx.First(&profile, pl.ProfileID).Error; err != nil {
				return err
			}
			link := models.Link{
				UserID:     user.ID,
				ProfileID:  pl.ProfileID,
				Permission: pl.Permission,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("审批用户失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "审批失败，请确认授权的档案存在"))
		return
	}

	user.Role = req.Role

	// 通知用户审核结果，失败只记日志
	if h.emailService.Enabled() && user.Email != "" {
		go func(email, username string) {
			if err := h.emailService.NotifyUserApproved(email, username); err != nil {
				log.Printf("通知用户失败: %v", err)
			}
		}(user.Email, user.Username)
	}

	SuccessWithMessage(c, "审批成功", user)
}

// Reject 拒绝用户
// @Summary 拒绝用户
// @Description 将待审核用户置为 rejected，该用户将无法登录
// @Tags 用户审批
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response{data=models.User} "已拒绝"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要管理员权限"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/admin/users/{id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的用户ID")
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(userID)).Error; err != nil {
		NotFound(c, "用户不存在")
		return
	}
	if user.Role != models.RolePending {
		BadRequest(c, "该用户已完成审核")
		return
	}

	if err := database.DB.Model(&user).Update("role", models.RoleRejected).Error; err != nil {
		log.Printf("拒绝用户失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "操作失败"))
		return
	}

	user.Role = models.RoleRejected
	SuccessWithMessage(c, "已拒绝", user)
}
