package api

import (
	"log"
	"strings"
	"unicode/utf8"

	"financetracker/database"
	"financetracker/models"
	"financetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileHandler 档案处理器
type ProfileHandler struct{}

// NewProfileHandler 创建档案处理器
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// ProfileRequest 创建/更新档案请求
type ProfileRequest struct {
	Name string `json:"name" binding:"required" example:"家庭资产"`
}

// ProfileWithPermission 档案及当前用户的权限
type ProfileWithPermission struct {
	models.Profile
	Permission string `json:"permission"`
}

// validateProfileName 校验并整理档案名称
func validateProfileName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	// 上限按字符数计，不按字节数：varchar(100) 存 100 个汉字没有问题
	if name == "" || utf8.RuneCountInString(name) > models.MaxProfileNameLen {
		return "", false
	}
	return name, true
}

// Create 创建档案
// @Summary 创建档案
// @Description 已审核用户创建自己的档案，创建者自动获得编辑权限
// @Tags 档案
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "档案信息"
// @Success 200 {object} Response{data=models.Profile} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "账号未审核"
// @Router /api/profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "请先登录")
		return
	}
	if !user.IsAdmin() && user.Role != models.RoleApproved {
		Forbidden(c, "账号待管理员审核，暂无法创建档案")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	name, ok := validateProfileName(req.Name)
	if !ok {
		BadRequest(c, "档案名称不能为空且不超过100字符")
		return
	}

	profile := models.Profile{Name: name}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		// 管理员本就绕过授权，不必落 Link
		if user.IsAdmin() {
			return nil
		}
		link := models.Link{
			UserID:     user.ID,
			ProfileID:  profile.ID,
			Permission: models.PermissionEdit,
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		log.Printf("创建档案失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "创建档案失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", profile)
}

// List 获取可访问的档案列表
// @Summary 获取可访问的档案列表
// @Description 管理员返回全部档案（edit 权限）；其他用户返回被授权的档案及权限级别
// @Tags 档案
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "请先登录")
		return
	}

	result := []ProfileWithPermission{}

	if user.IsAdmin() {
		var profiles []models.Profile
		if err := database.DB.Order("name").Find(&profiles).Error; err != nil {
			log.Printf("查询档案列表失败: %v", err)
			InternalError(c, SafeErrorMessage(err, "查询失败"))
			return
		}
		for _, p := range profiles {
			result = append(result, ProfileWithPermission{Profile: p, Permission: models.PermissionEdit})
		}
		Success(c, gin.H{"profiles": result})
		return
	}

	var links []models.Link
	if err := database.DB.Where("user_id = ?", user.ID).Find(&links).Error; err != nil {
		log.Printf("查询授权记录失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	for _, link := range links {
		var profile models.Profile
		if err := database.DB.First(&profile, link.ProfileID).Error; err != nil {
			continue
		}
		result = append(result, ProfileWithPermission{Profile: profile, Permission: link.Permission})
	}

	Success(c, gin.H{"profiles": result})
}

// Update 更新档案
// @Summary 更新档案
// @Description 修改档案名称，需要编辑权限
// @Tags 档案
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Param request body ProfileRequest true "档案信息"
// @Success 200 {object} Response{data=models.Profile} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要编辑权限"
// @Failure 404 {object} Response "档案不存在"
// @Router /api/profiles/{id} [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelEdit)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	name, valid := validateProfileName(req.Name)
	if !valid {
		BadRequest(c, "档案名称不能为空且不超过100字符")
		return
	}

	profile.Name = name
	if err := database.DB.Save(profile).Error; err != nil {
		log.Printf("更新档案失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "更新档案失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", profile)
}

// Delete 删除档案
// @Summary 删除档案
// @Description 删除档案并级联删除其全部快照与授权记录，需要编辑权限
// @Tags 档案
// @Produce json
// @Security BearerAuth
// @Param id path int true "档案ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "需要编辑权限"
// @Failure 404 {object} Response "档案不存在"
// @Router /api/profiles/{id} [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	_, profile, ok := authorizeProfile(c, service.LevelEdit)
	if !ok {
		return
	}

	// 级联删除快照与授权，保证不会留下引用已删档案的孤儿记录
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := service.NewEntryStore(tx).DeleteForProfile(profile.ID); err != nil {
			return err
		}
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Link{}).Error; err != nil {
			return err
		}
		return tx.Delete(profile).Error
	})
	if err != nil {
		log.Printf("删除档案失败: %v", err)
		InternalError(c, SafeErrorMessage(err, "删除档案失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
