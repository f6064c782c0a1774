package service

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quiz_web/internal/models"
	"quiz_web/internal/repository"
	"quiz_web/internal/storage"
	"quiz_web/pkg/config"
)

// 測試用的計分與節奏常數，數值與預設配置一致
var testGameConfig = config.GameConfig{
	DifficultyMultiplier:      100,
	TimeMultiplier:            5,
	MaxTimeBonus:              200,
	FirstAnswerBonus:          50,
	PerStreakPoints:           10,
	MaxStreak:                 5,
	InterQuestionDelaySeconds: 0,
}

// newTestRepos 建立跑在記憶體 sqlite 上的 repositories，
// 結構與正式環境相同，唯一索引也會一併建立
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 記憶體資料庫只能有一條連線，否則連線池裡每條連線各是一個空庫
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Participant{},
		&models.Question{},
		&models.Round{},
		&models.RoundQuestion{},
		&models.Answer{},
		&models.Score{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return repository.NewRepositories(&storage.PostgresDB{DB: db})
}

// recordingBroadcaster 記錄所有廣播事件，代替真正的 WebSocket 管理器
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []*models.Event
}

func (b *recordingBroadcaster) BroadcastToRoom(roomID uint, event *models.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) SendToUser(roomID, userID uint, event *models.Event) {}

func (b *recordingBroadcaster) eventTypes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.events))
	for _, e := range b.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestRoundService(repos *repository.Repositories, broadcaster Broadcaster) *RoundService {
	leaderboard := NewLeaderboardService(repos.Score, repos.User)
	return NewRoundService(repos.Room, repos.Round, repos.Question, repos.Answer,
		repos.Score, leaderboard, broadcaster, testGameConfig)
}

func createTestUser(t *testing.T, repos *repository.Repositories, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Password:    "hashed",
		DisplayName: username,
		Role:        models.RolePlayer,
	}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestRoom(t *testing.T, roomService *RoomService, hostID uint, settings models.RoomSettings) *models.Room {
	t.Helper()
	room, err := roomService.CreateRoom(hostID, "測試房間", models.VisibilityPublic, settings)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func createTestQuestion(t *testing.T, repos *repository.Repositories, difficulty, correctIndex int) *models.Question {
	t.Helper()
	question := &models.Question{
		Text:         "測試題目",
		Options:      []string{"甲", "乙", "丙", "丁"},
		CorrectIndex: correctIndex,
		Difficulty:   difficulty,
	}
	if err := repos.Question.Create(question); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return question
}

// startTestRound 直接寫入一個進行中的回合，不經過出題循環
func startTestRound(t *testing.T, repos *repository.Repositories, roomID uint, questions ...*models.Question) *models.Round {
	t.Helper()
	round := &models.Round{
		RoomID:      roomID,
		RoundNumber: 1,
		StartedAt:   time.Now(),
	}
	if err := repos.Round.Create(round); err != nil {
		t.Fatalf("create round: %v", err)
	}
	roundQuestions := make([]models.RoundQuestion, len(questions))
	for i, q := range questions {
		roundQuestions[i] = models.RoundQuestion{
			RoundID:    round.ID,
			QuestionID: q.ID,
			OrderIndex: i,
		}
	}
	if err := repos.Round.CreateQuestions(roundQuestions); err != nil {
		t.Fatalf("create round questions: %v", err)
	}
	return round
}
