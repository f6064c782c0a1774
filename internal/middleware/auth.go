package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz_web/pkg/utils"
)

// AuthMiddleware 是一個 Gin 中間件，用於驗證請求的 JWT token
// 沒有憑證或憑證無效的請求在進入任何房間操作之前就被拒絕
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 從請求頭中獲取 Authorization 字段
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 檢查 Authorization 頭的格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		// 解析 JWT token
		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// 將驗證過的身份設置到上下文中，後續處理一律使用這組身份
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Set("displayName", claims.DisplayName)
		c.Next() // 繼續處理請求
	}
}
