package repository

import (
	"gorm.io/gorm"

	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type ScoreRepository interface {
	Create(score *models.Score) error
	Find(roomID, userID uint) (*models.Score, error)
	AddResult(roomID, userID uint, points int, correct bool) error
	FindByRoom(roomID uint) ([]models.Score, error)
}

type scoreRepository struct {
	db *storage.PostgresDB
}

func NewScoreRepository(db *storage.PostgresDB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Create(score *models.Score) error {
	return r.db.Create(score).Error
}

func (r *scoreRepository) Find(roomID, userID uint) (*models.Score, error) {
	var score models.Score
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// AddResult 以資料庫端的原子遞增累計成績，不經過讀取再寫回
func (r *scoreRepository) AddResult(roomID, userID uint, points int, correct bool) error {
	updates := map[string]interface{}{
		"total_points":             gorm.Expr("total_points + ?", points),
		"questions_answered_count": gorm.Expr("questions_answered_count + ?", 1),
	}
	if correct {
		updates["correct_answer_count"] = gorm.Expr("correct_answer_count + ?", 1)
	}
	return r.db.Model(&models.Score{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Updates(updates).Error
}

// FindByRoom 查詢房間內所有成績，排序即排行榜順序：
// 總分由高到低，同分者先達成者在前，最後以用戶 ID 保證全序
func (r *scoreRepository) FindByRoom(roomID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.Where("room_id = ?", roomID).
		Order("total_points desc").Order("updated_at asc").Order("user_id asc").
		Find(&scores).Error
	return scores, err
}
