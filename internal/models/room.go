package models

import (
	"time"

	"gorm.io/gorm"
)

// Room 表示一個問答房間
type Room struct {
	gorm.Model
	Title      string       `json:"title"`
	HostID     uint         `json:"host_id"` // 房主的用戶 ID，只有房主能開始回合
	Visibility Visibility   `gorm:"type:varchar(20)" json:"visibility"`
	Status     RoomStatus   `gorm:"type:varchar(20)" json:"status"`
	Settings   RoomSettings `gorm:"embedded;embeddedPrefix:setting_" json:"settings"` // 每個房間恰好一份設定
}

// RoomSettings 房間的遊戲設定
type RoomSettings struct {
	MaxPlayers       int        `json:"max_players"`        // 同時在房間內的玩家上限
	QuestionCount    int        `json:"question_count"`     // 每回合的題目數量
	TimeLimitSeconds int        `json:"time_limit_seconds"` // 每題的作答時間（秒）
	Difficulty       Difficulty `gorm:"type:varchar(20)" json:"difficulty"`
}

// RoomStatus 定義房間狀態的類型
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in_progress"
)

// Visibility 定義房間可見性的類型
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Difficulty 房間設定中的題目難度
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed" // 不限難度，從整個題庫隨機抽題
)

// Level 將難度設定轉換為題目的難度等級，mixed 回傳 0 表示不過濾
func (d Difficulty) Level() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	default:
		return 0
	}
}

// Participant 表示用戶在房間內的參與紀錄，(房間, 用戶) 至多一筆
// 離開房間是軟性停用而不是刪除，重新加入時重新啟用同一筆紀錄
type Participant struct {
	gorm.Model
	RoomID   uint       `gorm:"uniqueIndex:idx_participant_room_user" json:"room_id"`
	UserID   uint       `gorm:"uniqueIndex:idx_participant_room_user" json:"user_id"`
	IsActive bool       `json:"is_active"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}
