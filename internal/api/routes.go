package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz_web/internal/api/handlers"
	"quiz_web/internal/middleware"
	"quiz_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.UserService)
	roomHandler := handlers.NewRoomHandler(services.RoomService, services.RoundService, services.LeaderboardService)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.RoomService)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 問答房間相關
		rooms := authorized.Group("/rooms")
		{
			// 基本操作
			rooms.GET("", roomHandler.ListRooms)   // 獲取公開房間列表
			rooms.POST("", roomHandler.CreateRoom) // 創建房間
			rooms.GET("/:id", roomHandler.GetRoom) // 獲取房間信息

			// 房間參與
			rooms.POST("/:id/join", roomHandler.JoinRoom)   // 加入房間
			rooms.POST("/:id/leave", roomHandler.LeaveRoom) // 離開房間

			// 回合與排行榜
			rooms.POST("/:id/start", roomHandler.StartRound)          // 開始回合（僅房主）
			rooms.GET("/:id/leaderboard", roomHandler.GetLeaderboard) // 獲取排行榜

			// WebSocket 連接點，即時指令與事件都走這裡
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}
	}
}
