package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer 表示一位玩家對一道題目的作答
// (回合, 題目, 用戶) 三元組唯一，重複提交會被拒絕而不是覆寫
type Answer struct {
	gorm.Model
	RoundID        uint      `gorm:"uniqueIndex:idx_answer_round_question_user" json:"round_id"`
	QuestionID     uint      `gorm:"uniqueIndex:idx_answer_round_question_user" json:"question_id"`
	UserID         uint      `gorm:"uniqueIndex:idx_answer_round_question_user" json:"user_id"`
	ChosenIndex    int       `json:"chosen_index"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	IsCorrect      bool      `json:"is_correct"`
	PointsAwarded  int       `json:"points_awarded"`
	SubmittedAt    time.Time `json:"submitted_at"`
}
