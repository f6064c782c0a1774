package service

import (
	"quiz_web/internal/models"
	"quiz_web/internal/repository"
)

// LeaderboardService 從成績紀錄即時推導排行榜
// 每次呼叫重新計算，不做快取：計分事件相對讀取成本並不頻繁，
// 房間人數在數十人以內
type LeaderboardService struct {
	scoreRepo repository.ScoreRepository
	userRepo  repository.UserRepository
}

func NewLeaderboardService(scoreRepo repository.ScoreRepository, userRepo repository.UserRepository) *LeaderboardService {
	return &LeaderboardService{
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
	}
}

// GetLeaderboard 回傳房間的名次列表
// 總分由高到低；同分者先達成者在前；再以用戶 ID 決勝，保證全序
func (s *LeaderboardService) GetLeaderboard(roomID uint) ([]models.LeaderboardEntry, error) {
	scores, err := s.scoreRepo.FindByRoom(roomID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		displayName := ""
		if user, err := s.userRepo.FindByID(score.UserID); err == nil {
			displayName = user.DisplayName
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:                   i + 1,
			UserID:                 score.UserID,
			DisplayName:            displayName,
			TotalPoints:            score.TotalPoints,
			CorrectAnswerCount:     score.CorrectAnswerCount,
			QuestionsAnsweredCount: score.QuestionsAnsweredCount,
		})
	}
	return entries, nil
}
