package repository

import (
	"quiz_web/internal/models"
	"quiz_web/internal/storage"
)

type RoomRepository interface {
	Create(room *models.Room) error
	FindByID(id uint) (*models.Room, error)
	Update(room *models.Room) error
	UpdateStatus(id uint, status models.RoomStatus) error
	FindPublic() ([]models.Room, error) // 公開房間列表
}

type roomRepository struct {
	db *storage.PostgresDB
}

func NewRoomRepository(db *storage.PostgresDB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.Room) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Update(room *models.Room) error {
	return r.db.Save(room).Error
}

func (r *roomRepository) UpdateStatus(id uint, status models.RoomStatus) error {
	return r.db.Model(&models.Room{}).Where("id = ?", id).Update("status", status).Error
}

// FindPublic 查詢所有公開房間
func (r *roomRepository) FindPublic() ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.Where("visibility = ?", models.VisibilityPublic).Order("created_at DESC").Find(&rooms).Error
	return rooms, err
}
