package models

import (
	"time"
)

// Event 代表一個由伺服器推送給客戶端的事件，同一房間內的成員收到相同的事件序列
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// 伺服器推送的事件類型
const (
	EventRoomCreated        = "room.created"
	EventRoomJoined         = "room.joined"
	EventRoomLeft           = "room.left"
	EventRoundStarted       = "round.started"
	EventQuestionSent       = "question.sent"
	EventQuestionResult     = "question.result"
	EventLeaderboardUpdated = "leaderboard.updated"
	EventRoundFinished      = "round.finished"
	EventAnswerAck          = "answer.ack"
	EventError              = "error"
)

// NewEvent 創建一個新的事件
func NewEvent(eventType string, payload any) *Event {
	return &Event{
		Type:    eventType,
		Payload: payload,
	}
}

// Command 代表客戶端透過 WebSocket 發送的指令
type Command struct {
	Type           string  `json:"type"`
	QuestionID     uint    `json:"question_id,omitempty"`
	ChosenIndex    int     `json:"chosen_index"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// 客戶端指令類型
const (
	CommandStartRound   = "start_round"
	CommandSubmitAnswer = "submit_answer"
)

// RoomEventPayload 房間成員變動事件的內容
type RoomEventPayload struct {
	RoomID           uint   `json:"room_id"`
	UserID           uint   `json:"user_id"`
	DisplayName      string `json:"display_name,omitempty"`
	ParticipantCount int64  `json:"participant_count"`
}

// RoundStartedPayload 回合開始事件的內容
type RoundStartedPayload struct {
	RoundID       uint      `json:"round_id"`
	RoundNumber   int       `json:"round_number"`
	QuestionCount int       `json:"question_count"`
	StartedAt     time.Time `json:"started_at"`
}

// QuestionSentPayload 出題事件的內容，不包含正確答案
type QuestionSentPayload struct {
	QuestionID       uint     `json:"question_id"`
	Text             string   `json:"text"`
	Options          []string `json:"options"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
	OrderIndex       int      `json:"order_index"`
	TotalQuestions   int      `json:"total_questions"`
}

// QuestionResultPayload 單題結果事件的內容，在玩家作答後才揭露正確答案
type QuestionResultPayload struct {
	QuestionID   uint `json:"question_id"`
	CorrectIndex int  `json:"correct_index"`
	UserID       uint `json:"user_id"`
	IsCorrect    bool `json:"is_correct"`
	Points       int  `json:"points"`
}

// LeaderboardEntry 排行榜中的一筆名次
type LeaderboardEntry struct {
	Rank                   int    `json:"rank"`
	UserID                 uint   `json:"user_id"`
	DisplayName            string `json:"display_name"`
	TotalPoints            int    `json:"total_points"`
	CorrectAnswerCount     int    `json:"correct_answer_count"`
	QuestionsAnsweredCount int    `json:"questions_answered_count"`
}

// RoundFinishedPayload 回合結束事件的內容，winner 為排行榜第一名
type RoundFinishedPayload struct {
	RoundID     uint               `json:"round_id"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Winner      *LeaderboardEntry  `json:"winner,omitempty"`
}

// AnswerAckPayload 作答確認，只回覆給提交作答的連線
type AnswerAckPayload struct {
	QuestionID    uint   `json:"question_id"`
	Accepted      bool   `json:"accepted"`
	Reason        string `json:"reason,omitempty"`
	IsCorrect     bool   `json:"is_correct"`
	PointsAwarded int    `json:"points_awarded"`
	CorrectIndex  int    `json:"correct_index"`
}
