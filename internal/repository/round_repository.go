package repository

import (
	"time"

	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type RoundRepository interface {
	Create(round *models.Round) error
	FindByID(id uint) (*models.Round, error)
	FindActiveByRoom(roomID uint) (*models.Round, error)
	MaxRoundNumber(roomID uint) (int, error)
	Finish(id uint, finishedAt time.Time) error
	CreateQuestions(roundQuestions []models.RoundQuestion) error
	FindQuestions(roundID uint) ([]models.RoundQuestion, error)
	HasQuestion(roundID, questionID uint) (bool, error)
}

type roundRepository struct {
	db *storage.PostgresDB
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{db: db}
}

func (r *roundRepository) Create(round *models.Round) error {
	return r.db.Create(round).Error
}

func (r *roundRepository) FindByID(id uint) (*models.Round, error) {
	var round models.Round
	err := r.db.First(&round, id).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// FindActiveByRoom 查詢房間目前進行中的回合（finished_at 為 null 的那一個）
func (r *roundRepository) FindActiveByRoom(roomID uint) (*models.Round, error) {
	var round models.Round
	err := r.db.Where("room_id = ? AND finished_at IS NULL", roomID).First(&round).Error
	if err != nil {
		return nil, err
	}
	return &round, nil
}

func (r *roundRepository) MaxRoundNumber(roomID uint) (int, error) {
	var maxNumber int
	err := r.db.Model(&models.Round{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(round_number), 0)").
		Scan(&maxNumber).Error
	return maxNumber, err
}

func (r *roundRepository) Finish(id uint, finishedAt time.Time) error {
	return r.db.Model(&models.Round{}).Where("id = ?", id).Update("finished_at", finishedAt).Error
}

func (r *roundRepository) CreateQuestions(roundQuestions []models.RoundQuestion) error {
	return r.db.Create(&roundQuestions).Error
}

func (r *roundRepository) FindQuestions(roundID uint) ([]models.RoundQuestion, error) {
	var roundQuestions []models.RoundQuestion
	err := r.db.Where("round_id = ?", roundID).Order("order_index asc").Find(&roundQuestions).Error
	return roundQuestions, err
}

func (r *roundRepository) HasQuestion(roundID, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoundQuestion{}).
		Where("round_id = ? AND question_id = ?", roundID, questionID).
		Count(&count).Error
	return count > 0, err
}
