package service

import (
	"quiz_web/internal/models"
	"quiz_web/internal/repository"
	"quiz_web/pkg/config"
)

// Broadcaster 將事件推送給房間內的成員，由 WebSocketManager 實作
// 回合引擎透過這個介面廣播，不依賴任何傳輸細節
type Broadcaster interface {
	BroadcastToRoom(roomID uint, event *models.Event)
	SendToUser(roomID, userID uint, event *models.Event)
}

type Services struct {
	UserService        *UserService
	RoomService        *RoomService
	RoundService       *RoundService
	LeaderboardService *LeaderboardService
	WebSocketManager   *WebSocketManager
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	wsManager := NewWebSocketManager()

	userService := NewUserService(repos.User)
	leaderboardService := NewLeaderboardService(repos.Score, repos.User)
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, wsManager)
	roundService := NewRoundService(repos.Room, repos.Round, repos.Question, repos.Answer,
		repos.Score, leaderboardService, wsManager, cfg.Game)

	// 網關把收到的指令交給回合引擎，引擎透過網關廣播，
	// 兩者都建好之後才綁定
	wsManager.BindRoundService(roundService)

	return &Services{
		UserService:        userService,
		RoomService:        roomService,
		RoundService:       roundService,
		LeaderboardService: leaderboardService,
		WebSocketManager:   wsManager,
	}
}
