package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quiz_web/internal/models"
	"quiz_web/internal/service"
)

// RoomHandler 處理與問答房間相關的請求
type RoomHandler struct {
	roomService        *service.RoomService
	roundService       *service.RoundService
	leaderboardService *service.LeaderboardService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService, roundService *service.RoundService, leaderboardService *service.LeaderboardService) *RoomHandler {
	return &RoomHandler{
		roomService:        roomService,
		roundService:       roundService,
		leaderboardService: leaderboardService,
	}
}

// statusFromError 將業務錯誤轉換為對應的 HTTP 狀態碼
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrAlreadyInRoom),
		errors.Is(err, service.ErrRoundAlreadyActive),
		errors.Is(err, service.ErrDuplicateAnswer):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoActiveRound),
		errors.Is(err, service.ErrNotInRoom),
		errors.Is(err, service.ErrNotEnoughQuestions):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateRoomInput 定義創建房間請求的結構
type CreateRoomInput struct {
	Title      string `json:"title" binding:"required"`
	Visibility string `json:"visibility"`
	Settings   struct {
		MaxPlayers       int    `json:"max_players" binding:"required,min=1"`
		QuestionCount    int    `json:"question_count" binding:"required,min=1"`
		TimeLimitSeconds int    `json:"time_limit_seconds" binding:"required,min=1"`
		Difficulty       string `json:"difficulty" binding:"required,oneof=easy medium hard mixed"`
	} `json:"settings" binding:"required"`
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	visibility := models.Visibility(input.Visibility)
	if visibility != models.VisibilityPrivate {
		visibility = models.VisibilityPublic
	}

	room, err := h.roomService.CreateRoom(userID.(uint), input.Title, visibility, models.RoomSettings{
		MaxPlayers:       input.Settings.MaxPlayers,
		QuestionCount:    input.Settings.QuestionCount,
		TimeLimitSeconds: input.Settings.TimeLimitSeconds,
		Difficulty:       models.Difficulty(input.Settings.Difficulty),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms 處理獲取公開房間列表的請求
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法取得房間列表"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	room, err := h.roomService.GetRoom(uint(roomID))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	participants, err := h.roomService.GetParticipants(uint(roomID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法取得房間成員"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":         room,
		"participants": participants,
	})
}

// JoinRoom 處理加入房間的請求
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID, _ := c.Get("userID")

	if err := h.roomService.JoinRoom(uint(roomID), userID.(uint)); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功加入房間"})
}

// LeaveRoom 處理離開房間的請求
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID, _ := c.Get("userID")

	if err := h.roomService.LeaveRoom(uint(roomID), userID.(uint)); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "成功離開房間"})
}

// StartRound 處理開始回合的請求，只有房主可以發起
func (h *RoomHandler) StartRound(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	userID, _ := c.Get("userID")

	round, err := h.roundService.StartRound(uint(roomID), userID.(uint))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "回合開始",
		"round_id":     round.ID,
		"round_number": round.RoundNumber,
	})
}

// GetLeaderboard 處理獲取排行榜的請求
func (h *RoomHandler) GetLeaderboard(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不存在的房間ID"})
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(uint(roomID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法取得排行榜"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
