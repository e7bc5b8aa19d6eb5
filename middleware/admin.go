package middleware

import (
	"net/http"

	"financetracker/database"
	"financetracker/models"

	"github.com/gin-gonic/gin"
)

// RequireAdmin 管理员权限校验中间件
// 需在 JWTAuth 之后使用。角色是管理员判定的唯一依据
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			abortUnauthorized(c, "请先登录")
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			abortUnauthorized(c, "用户不存在")
			return
		}

		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "需要管理员权限",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
