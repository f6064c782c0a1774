package models

import (
	"time"

	"gorm.io/gorm"
)

// Round 表示房間內的一輪問答
// FinishedAt 為 null 表示回合仍在進行中，每個房間至多一個進行中的回合
type Round struct {
	gorm.Model
	RoomID      uint       `gorm:"index" json:"room_id"`
	RoundNumber int        `json:"round_number"` // 房間內單調遞增，從 1 開始
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// RoundQuestion 回合開始時選定的題目與出題順序，選定後不再變動
type RoundQuestion struct {
	gorm.Model
	RoundID    uint `gorm:"uniqueIndex:idx_round_question" json:"round_id"`
	QuestionID uint `gorm:"uniqueIndex:idx_round_question" json:"question_id"`
	OrderIndex int  `json:"order_index"`
}
