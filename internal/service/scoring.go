package service

import "math"

// ScoringConfig 計分規則的常數，全部來自配置
type ScoringConfig struct {
	DifficultyMultiplier int
	TimeMultiplier       int
	MaxTimeBonus         int
	FirstAnswerBonus     int
	PerStreakPoints      int
	MaxStreak            int
}

// ScorePoints 計算單題得分，純函數，不讀寫任何狀態
//
// 答錯或未作答一律 0 分。答對時：
//
//	基礎分 = 難度 * DifficultyMultiplier
//	速度加分 = floor((時限 - 作答秒數) * TimeMultiplier)，夾在 [0, MaxTimeBonus]
//	首答加分 = 該題第一位答對者獲得 FirstAnswerBonus
//	連對加分 = min(連對數, MaxStreak) * PerStreakPoints
//
// currentStreak 是本回合中到此題之前（不含此題）的連續答對數。
// 作答秒數超過時限時速度加分夾成 0，不會變成負數。
func ScorePoints(cfg ScoringConfig, difficulty int, elapsedSeconds float64, timeLimitSeconds int, isCorrect, isFirstCorrect bool, currentStreak int) int {
	if !isCorrect {
		return 0
	}

	base := difficulty * cfg.DifficultyMultiplier

	timeBonus := int(math.Floor((float64(timeLimitSeconds) - elapsedSeconds) * float64(cfg.TimeMultiplier)))
	if timeBonus < 0 {
		timeBonus = 0
	}
	if timeBonus > cfg.MaxTimeBonus {
		timeBonus = cfg.MaxTimeBonus
	}

	firstBonus := 0
	if isFirstCorrect {
		firstBonus = cfg.FirstAnswerBonus
	}

	streak := currentStreak
	if streak > cfg.MaxStreak {
		streak = cfg.MaxStreak
	}

	return base + timeBonus + firstBonus + streak*cfg.PerStreakPoints
}
