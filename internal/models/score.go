package models

import (
	"gorm.io/gorm"
)

// Score 表示玩家在房間內的累計成績，(房間, 用戶) 至多一筆
// 只由回合引擎在作答驗證後更新，客戶端不能直接寫入
type Score struct {
	gorm.Model
	RoomID                 uint `gorm:"uniqueIndex:idx_score_room_user" json:"room_id"`
	UserID                 uint `gorm:"uniqueIndex:idx_score_room_user" json:"user_id"`
	TotalPoints            int  `json:"total_points"`
	CorrectAnswerCount     int  `json:"correct_answer_count"`
	QuestionsAnsweredCount int  `json:"questions_answered_count"`
}
