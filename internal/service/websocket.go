package service

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"quiz_web/internal/models"
)

// Client 代表一個 WebSocket 客戶端連接
// 身份欄位在連線建立時由驗證過的 token 填入，整個連線生命週期不變
type Client struct {
	Conn        *websocket.Conn    // WebSocket 連接
	UserID      uint               // 用戶 ID
	RoomID      uint               // 房間 ID
	Role        string             // 用戶角色
	DisplayName string             // 顯示名稱
	SendChan    chan *models.Event // 事件發送通道，用於異步傳送事件
}

// WebSocketManager 管理所有的 WebSocket 連接和事件傳遞
// 收到的客戶端指令交給回合引擎處理，處理結果私下回覆或向房間廣播
type WebSocketManager struct {
	clients      map[uint]map[*Client]bool // 兩層 map: roomID -> client -> bool
	clientsMux   sync.RWMutex              // 用於保護 clients map 的讀寫鎖
	roundService *RoundService
}

// NewWebSocketManager 創建並初始化新的 WebSocket 管理器
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[uint]map[*Client]bool),
	}
}

// BindRoundService 綁定回合引擎，必須在處理任何連線之前完成
func (s *WebSocketManager) BindRoundService(roundService *RoundService) {
	s.roundService = roundService
}

// HandleClient 處理新的 WebSocket 連接，阻塞直到連線關閉
// 斷線不影響房間與回合狀態，成績保留，之後重連視同一般的重新加入
func (s *WebSocketManager) HandleClient(client *Client) {
	client.SendChan = make(chan *models.Event, 256) // 設置緩衝大小為 256 的事件通道

	s.addClient(client)

	// 確保連接關閉時清理資源
	defer func() {
		s.removeClient(client)
		client.Conn.Close()
		close(client.SendChan)
	}()

	// 啟動讀寫處理
	go s.writePump(client)
	s.readPump(client)
}

// readPump 持續監聽客戶端指令並分派給回合引擎
func (s *WebSocketManager) readPump(client *Client) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close error: %v", err)
			}
			break
		}

		var cmd models.Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.Printf("command parse error: %v", err)
			continue
		}

		s.dispatch(client, &cmd)
	}
}

// dispatch 分派客戶端指令
// 業務錯誤只回覆給發出指令的連線，不會廣播給房間內其他成員
func (s *WebSocketManager) dispatch(client *Client, cmd *models.Command) {
	switch cmd.Type {
	case models.CommandStartRound:
		if _, err := s.roundService.StartRound(client.RoomID, client.UserID); err != nil {
			s.sendError(client, err)
		}

	case models.CommandSubmitAnswer:
		result, err := s.roundService.SubmitAnswer(client.RoomID, client.UserID,
			cmd.QuestionID, cmd.ChosenIndex, cmd.ElapsedSeconds)
		ack := models.AnswerAckPayload{QuestionID: cmd.QuestionID}
		if err != nil {
			ack.Reason = err.Error()
		} else {
			ack.Accepted = true
			ack.IsCorrect = result.IsCorrect
			ack.PointsAwarded = result.PointsAwarded
			ack.CorrectIndex = result.CorrectIndex
		}
		// 回執送給該用戶在本房間的所有連線，多裝置同時在線也能收到
		s.SendToUser(client.RoomID, client.UserID, models.NewEvent(models.EventAnswerAck, ack))

	default:
		s.sendError(client, errUnknownCommand)
	}
}

// writePump 處理向客戶端發送事件的邏輯
func (s *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.SendChan:
			// 設置寫入超時
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// 獲取寫入器並發送事件
			w, err := client.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			// JSON 編碼
			eventBytes, err := json.Marshal(event)
			if err != nil {
				log.Printf("event encoding error: %v", err)
				continue
			}

			if _, err := w.Write(eventBytes); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// BroadcastToRoom 向房間內的所有客戶端廣播事件，不會送到其他房間
// 發送期間持有讀鎖：斷線清理要先取得寫鎖，
// 因此發送通道不會在發送途中被關閉
func (s *WebSocketManager) BroadcastToRoom(roomID uint, event *models.Event) {
	var stale []*Client

	s.clientsMux.RLock()
	for client := range s.clients[roomID] {
		select {
		case client.SendChan <- event:
			// 事件成功加入發送隊列
		default:
			// 客戶端事件隊列已滿，稍後關閉連接
			stale = append(stale, client)
		}
	}
	s.clientsMux.RUnlock()

	s.dropClients(stale)
}

// SendToUser 只向房間內指定用戶的連線發送事件
func (s *WebSocketManager) SendToUser(roomID, userID uint, event *models.Event) {
	var stale []*Client

	s.clientsMux.RLock()
	for client := range s.clients[roomID] {
		if client.UserID != userID {
			continue
		}
		select {
		case client.SendChan <- event:
		default:
			stale = append(stale, client)
		}
	}
	s.clientsMux.RUnlock()

	s.dropClients(stale)
}

// dropClients 移除隊列已滿的客戶端，必須在釋放讀鎖後呼叫
// 通道的關閉仍由 HandleClient 的清理流程負責
func (s *WebSocketManager) dropClients(stale []*Client) {
	for _, client := range stale {
		s.removeClient(client)
		client.Conn.Close()
	}
}

func (s *WebSocketManager) sendToClient(client *Client, event *models.Event) {
	select {
	case client.SendChan <- event:
	default:
		s.removeClient(client)
		client.Conn.Close()
	}
}

func (s *WebSocketManager) sendError(client *Client, err error) {
	s.sendToClient(client, models.NewEvent(models.EventError, map[string]string{
		"error": err.Error(),
	}))
}

// addClient 安全地添加新的客戶端連接
func (s *WebSocketManager) addClient(client *Client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if s.clients[client.RoomID] == nil {
		s.clients[client.RoomID] = make(map[*Client]bool)
	}
	s.clients[client.RoomID][client] = true
}

// removeClient 安全地移除客戶端連接
func (s *WebSocketManager) removeClient(client *Client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	if clients, ok := s.clients[client.RoomID]; ok {
		delete(clients, client)
		// 如果房間空了，刪除房間
		if len(clients) == 0 {
			delete(s.clients, client.RoomID)
		}
	}
}

// GetRoomClients 獲取指定房間的在線客戶端數量
func (s *WebSocketManager) GetRoomClients(roomID uint) int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	return len(s.clients[roomID])
}
