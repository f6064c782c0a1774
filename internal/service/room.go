package service

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"quiz_web/internal/models"
	"quiz_web/internal/repository"
)

// RoomService 管理房間與成員：建立、加入、離開、查詢
type RoomService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	scoreRepo       repository.ScoreRepository
	broadcaster     Broadcaster

	// 每個房間一把鎖，序列化加入與離開：
	// 滿房檢查和寫入參與紀錄是「讀取再寫入」，
	// 同時加入不能讓在場人數超過上限
	roomLocks sync.Map // roomID -> *sync.Mutex
}

func (s *RoomService) roomLock(roomID uint) *sync.Mutex {
	lock, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func NewRoomService(roomRepo repository.RoomRepository, participantRepo repository.ParticipantRepository, scoreRepo repository.ScoreRepository, broadcaster Broadcaster) *RoomService {
	return &RoomService{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		scoreRepo:       scoreRepo,
		broadcaster:     broadcaster,
	}
}

// CreateRoom 建立房間，房主自動成為第一位成員並建立成績紀錄
func (s *RoomService) CreateRoom(hostID uint, title string, visibility models.Visibility, settings models.RoomSettings) (*models.Room, error) {
	room := &models.Room{
		Title:      title,
		HostID:     hostID,
		Visibility: visibility,
		Status:     models.RoomStatusWaiting,
		Settings:   settings,
	}

	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	participant := &models.Participant{
		RoomID:   room.ID,
		UserID:   hostID,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	if err := s.participantRepo.Create(participant); err != nil {
		return nil, err
	}
	if err := s.scoreRepo.Create(&models.Score{RoomID: room.ID, UserID: hostID}); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToRoom(room.ID, models.NewEvent(models.EventRoomCreated, room))
	return room, nil
}

// JoinRoom 加入房間
// 滿房時拒絕；已在房間中拒絕；曾離開過的用戶重新啟用原本的參與紀錄，
// 不會產生重複的資料列
func (s *RoomService) JoinRoom(roomID, userID uint) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	participant, err := s.participantRepo.Find(roomID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if participant != nil && participant.IsActive {
		return ErrAlreadyInRoom
	}

	activeCount, err := s.participantRepo.CountActive(roomID)
	if err != nil {
		return err
	}
	if activeCount >= int64(room.Settings.MaxPlayers) {
		return ErrRoomFull
	}

	if participant != nil {
		// 重新加入：啟用原本的紀錄，成績保留
		participant.IsActive = true
		participant.LeftAt = nil
		if err := s.participantRepo.Update(participant); err != nil {
			return err
		}
	} else {
		participant = &models.Participant{
			RoomID:   roomID,
			UserID:   userID,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		if err := s.participantRepo.Create(participant); err != nil {
			return err
		}
		// 首次參與時建立成績紀錄，之後只由回合引擎遞增
		if err := s.scoreRepo.Create(&models.Score{RoomID: roomID, UserID: userID}); err != nil {
			return err
		}
	}

	count, _ := s.participantRepo.CountActive(roomID)
	s.broadcaster.BroadcastToRoom(roomID, models.NewEvent(models.EventRoomJoined, models.RoomEventPayload{
		RoomID:           roomID,
		UserID:           userID,
		ParticipantCount: count,
	}))
	return nil
}

// LeaveRoom 離開房間，軟性停用參與紀錄，成績保留
func (s *RoomService) LeaveRoom(roomID, userID uint) error {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	participant, err := s.participantRepo.Find(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotInRoom
		}
		return err
	}
	if !participant.IsActive {
		return ErrNotInRoom
	}

	now := time.Now()
	participant.IsActive = false
	participant.LeftAt = &now
	if err := s.participantRepo.Update(participant); err != nil {
		return err
	}

	count, _ := s.participantRepo.CountActive(roomID)
	s.broadcaster.BroadcastToRoom(roomID, models.NewEvent(models.EventRoomLeft, models.RoomEventPayload{
		RoomID:           roomID,
		UserID:           userID,
		ParticipantCount: count,
	}))
	return nil
}

func (s *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetParticipants 查詢房間內所有在場成員
func (s *RoomService) GetParticipants(roomID uint) ([]models.Participant, error) {
	return s.participantRepo.FindActiveByRoom(roomID)
}

// ListRooms 查詢所有公開房間
func (s *RoomService) ListRooms() ([]models.Room, error) {
	return s.roomRepo.FindPublic()
}

// IsMember 檢查用戶是否為房間內的在場成員
func (s *RoomService) IsMember(roomID, userID uint) (bool, error) {
	participant, err := s.participantRepo.Find(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return participant.IsActive, nil
}
