package repository

import (
	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type ParticipantRepository interface {
	Create(participant *models.Participant) error
	Find(roomID, userID uint) (*models.Participant, error)
	Update(participant *models.Participant) error
	CountActive(roomID uint) (int64, error)
	FindActiveByRoom(roomID uint) ([]models.Participant, error)
}

type participantRepository struct {
	db *storage.PostgresDB
}

func NewParticipantRepository(db *storage.PostgresDB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(participant *models.Participant) error {
	return r.db.Create(participant).Error
}

func (r *participantRepository) Find(roomID, userID uint) (*models.Participant, error) {
	var participant models.Participant
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) Update(participant *models.Participant) error {
	return r.db.Save(participant).Error
}

// CountActive 計算房間內目前在場的玩家數量
func (r *participantRepository) CountActive(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participant{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Count(&count).Error
	return count, err
}

func (r *participantRepository) FindActiveByRoom(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	err := r.db.Where("room_id = ? AND is_active = ?", roomID, true).
		Order("joined_at asc").Find(&participants).Error
	return participants, err
}
