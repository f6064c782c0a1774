package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quiz_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager   *service.WebSocketManager
	roomService *service.RoomService
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager, roomService *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		roomService: roomService,
	}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 身份來自驗證過的 token，必須先透過 REST 加入房間才能連上房間頻道
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	// 解析房間 ID
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "錯誤的房間ID"})
		return
	}

	// 從上下文中獲取驗證過的身份
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userIDUint := userID.(uint)
	role, _ := c.Get("userRole")
	displayName, _ := c.Get("displayName")

	// 檢查用戶是否已加入此房間
	isMember, err := h.roomService.IsMember(uint(roomID), userIDUint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法確定用戶身份"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "用戶未加入此房間"})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "升級WebSocket失敗"})
		return
	}

	// 創建客戶端
	client := &service.Client{
		Conn:        conn,
		UserID:      userIDUint,
		RoomID:      uint(roomID),
		Role:        role.(string),
		DisplayName: displayName.(string),
	}

	// 處理客戶端連接，阻塞直到連線關閉
	h.wsManager.HandleClient(client)
}
