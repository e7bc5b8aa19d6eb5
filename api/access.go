package api

import (
	"errors"
	"log"
	"strconv"

	"financetracker/database"
	"financetracker/middleware"
	"financetracker/models"
	"financetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// getCurrentUser 加载当前登录用户
func getCurrentUser(c *gin.Context) (*models.User, error) {
	userID := middleware.GetCurrentUserID(c)
	if userID == 0 {
		return nil, errors.New("未登录")
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// findLink 查询用户对档案的授权记录，无则返回 nil
func findLink(userID, profileID uint) (*models.Link, error) {
	var link models.Link
	err := database.DB.Where("user_id = ? AND profile_id = ?", userID, profileID).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// authorizeProfile 档案级请求的统一门禁：
// 解析 :id → 加载当前用户 → 确认档案存在 → 按 AccessPolicy 判定
// 失败时已写入响应并返回 ok=false。授权与数据查询是两次独立访问，中途撤销授权的
// 窗口按设计接受
func authorizeProfile(c *gin.Context, required service.Level) (*models.User, *models.Profile, bool) {
	profileID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的档案ID")
		return nil, nil, false
	}

	user, err := getCurrentUser(c)
	if err != nil {
		Unauthorized(c, "请先登录")
		return nil, nil, false
	}

	var profile models.Profile
	if err := database.DB.First(&profile, uint(profileID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "档案不存在")
		} else {
			log.Printf("查询档案失败: %v", err)
			InternalError(c, SafeErrorMessage(err, "查询档案失败"))
		}
		return nil, nil, false
	}

	var link *models.Link
	if !user.IsAdmin() {
		link, err = findLink(user.ID, profile.ID)
		if err != nil {
			log.Printf("查询授权记录失败: %v", err)
			InternalError(c, SafeErrorMessage(err, "查询授权失败"))
			return nil, nil, false
		}
	}

	decision := service.Authorize(user, link, required)
	if !decision.Allowed {
		Forbidden(c, decision.Reason)
		return nil, nil, false
	}

	return user, &profile, true
}
