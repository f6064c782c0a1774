package repository

import (
	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type AnswerRepository interface {
	Create(answer *models.Answer) error
	Exists(roundID, questionID, userID uint) (bool, error)
	HasCorrect(roundID, questionID uint) (bool, error)
	FindByRoundAndUser(roundID, userID uint) ([]models.Answer, error)
}

type answerRepository struct {
	db *storage.PostgresDB
}

func NewAnswerRepository(db *storage.PostgresDB) AnswerRepository {
	return &answerRepository{db: db}
}

// Create 寫入作答紀錄，(round_id, question_id, user_id) 的唯一索引
// 保證同一題同一玩家至多一筆
func (r *answerRepository) Create(answer *models.Answer) error {
	return r.db.Create(answer).Error
}

func (r *answerRepository) Exists(roundID, questionID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Answer{}).
		Where("round_id = ? AND question_id = ? AND user_id = ?", roundID, questionID, userID).
		Count(&count).Error
	return count > 0, err
}

// HasCorrect 檢查該題是否已有人答對，用於判定首答加分
func (r *answerRepository) HasCorrect(roundID, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Answer{}).
		Where("round_id = ? AND question_id = ? AND is_correct = ?", roundID, questionID, true).
		Count(&count).Error
	return count > 0, err
}

// FindByRoundAndUser 查詢玩家在回合內的作答，由新到舊排序，用於連對計算
func (r *answerRepository) FindByRoundAndUser(roundID, userID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.Where("round_id = ? AND user_id = ?", roundID, userID).
		Order("submitted_at desc").Order("id desc").Find(&answers).Error
	return answers, err
}
