package repository

import (
	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type QuestionRepository interface {
	Create(question *models.Question) error
	FindByID(id uint) (*models.Question, error)
	FindRandom(difficulty int, count int) ([]models.Question, error)
}

type questionRepository struct {
	db *storage.PostgresDB
}

func NewQuestionRepository(db *storage.PostgresDB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindRandom 從題庫隨機抽出指定數量的題目
// difficulty 大於 0 時只從該難度抽題，0 表示不限難度（mixed）
// mixed 模式是對整個題庫的均勻抽樣，不保證各難度的比例
func (r *questionRepository) FindRandom(difficulty int, count int) ([]models.Question, error) {
	var questions []models.Question
	query := r.db.Model(&models.Question{})
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("RANDOM()").Limit(count).Find(&questions).Error
	return questions, err
}
