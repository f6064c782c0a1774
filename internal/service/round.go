package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"quiz_web/internal/models"
	"quiz_web/internal/repository"
	"quiz_web/pkg/config"
)

// RoundService 是回合引擎：負責開始回合、依序出題、收答計分與結束回合
// 狀態機：Idle →（StartRound 選題）→ Running →（最後一題時限到）→ Finalizing → Idle
type RoundService struct {
	roomRepo     repository.RoomRepository
	roundRepo    repository.RoundRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	scoreRepo    repository.ScoreRepository
	leaderboard  *LeaderboardService
	broadcaster  Broadcaster
	gameCfg      config.GameConfig

	// 每個房間一把鎖，序列化收答的「讀取再寫入」
	// （連對掃描、首答判定、寫入作答、累計成績）
	roomLocks sync.Map // roomID -> *sync.Mutex
}

func NewRoundService(
	roomRepo repository.RoomRepository,
	roundRepo repository.RoundRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	scoreRepo repository.ScoreRepository,
	leaderboard *LeaderboardService,
	broadcaster Broadcaster,
	gameCfg config.GameConfig,
) *RoundService {
	return &RoundService{
		roomRepo:     roomRepo,
		roundRepo:    roundRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		scoreRepo:    scoreRepo,
		leaderboard:  leaderboard,
		broadcaster:  broadcaster,
		gameCfg:      gameCfg,
	}
}

// AnswerResult 單次作答的結果，正確答案只在玩家自己作答後揭露
type AnswerResult struct {
	IsCorrect     bool
	PointsAwarded int
	CorrectIndex  int
}

func (s *RoundService) roomLock(roomID uint) *sync.Mutex {
	lock, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *RoundService) scoringConfig() ScoringConfig {
	return ScoringConfig{
		DifficultyMultiplier: s.gameCfg.DifficultyMultiplier,
		TimeMultiplier:       s.gameCfg.TimeMultiplier,
		MaxTimeBonus:         s.gameCfg.MaxTimeBonus,
		FirstAnswerBonus:     s.gameCfg.FirstAnswerBonus,
		PerStreakPoints:      s.gameCfg.PerStreakPoints,
		MaxStreak:            s.gameCfg.MaxStreak,
	}
}

// StartRound 開始新回合，只有房主可以發起
// 依房間設定選題並固定出題順序，之後啟動背景的出題循環
func (s *RoundService) StartRound(roomID, requesterID uint) (*models.Round, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.HostID != requesterID {
		return nil, ErrNotHost
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	// 前一回合必須已結束或不存在
	if _, err := s.roundRepo.FindActiveByRoom(roomID); err == nil {
		return nil, ErrRoundAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// mixed 時 Level 為 0，對整個題庫均勻抽樣，不保證各難度比例
	questions, err := s.questionRepo.FindRandom(room.Settings.Difficulty.Level(), room.Settings.QuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) < room.Settings.QuestionCount {
		return nil, ErrNotEnoughQuestions
	}

	maxNumber, err := s.roundRepo.MaxRoundNumber(roomID)
	if err != nil {
		return nil, err
	}

	round := &models.Round{
		RoomID:      roomID,
		RoundNumber: maxNumber + 1,
		StartedAt:   time.Now(),
	}
	if err := s.roundRepo.Create(round); err != nil {
		return nil, err
	}

	roundQuestions := make([]models.RoundQuestion, len(questions))
	for i, q := range questions {
		roundQuestions[i] = models.RoundQuestion{
			RoundID:    round.ID,
			QuestionID: q.ID,
			OrderIndex: i,
		}
	}
	if err := s.roundRepo.CreateQuestions(roundQuestions); err != nil {
		return nil, err
	}

	if err := s.roomRepo.UpdateStatus(roomID, models.RoomStatusInProgress); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToRoom(roomID, models.NewEvent(models.EventRoundStarted, models.RoundStartedPayload{
		RoundID:       round.ID,
		RoundNumber:   round.RoundNumber,
		QuestionCount: len(questions),
		StartedAt:     round.StartedAt,
	}))

	go s.deliverQuestions(room, round, questions)

	return round, nil
}

// deliverQuestions 出題循環，每個進行中的回合一個 goroutine
// 題目按開始時固定的順序送出，每題給滿作答時限後就前進，
// 不等沒作答的玩家；最後一題時限到後結束回合
func (s *RoundService) deliverQuestions(room *models.Room, round *models.Round, questions []models.Question) {
	delay := time.Duration(s.gameCfg.InterQuestionDelaySeconds) * time.Second
	timeLimit := time.Duration(room.Settings.TimeLimitSeconds) * time.Second

	for i, question := range questions {
		if i > 0 {
			// 題間間隔，讓客戶端顯示上一題的結果畫面
			time.Sleep(delay)
		}

		// 廣播前去掉正確答案
		s.broadcaster.BroadcastToRoom(room.ID, models.NewEvent(models.EventQuestionSent, models.QuestionSentPayload{
			QuestionID:       question.ID,
			Text:             question.Text,
			Options:          question.Options,
			TimeLimitSeconds: room.Settings.TimeLimitSeconds,
			OrderIndex:       i,
			TotalQuestions:   len(questions),
		}))

		time.Sleep(timeLimit)
	}

	if err := s.FinishRound(round.ID); err != nil {
		log.Printf("finish round %d failed: %v", round.ID, err)
		return
	}

	entries, err := s.leaderboard.GetLeaderboard(room.ID)
	if err != nil {
		log.Printf("leaderboard for room %d failed: %v", room.ID, err)
		return
	}

	payload := models.RoundFinishedPayload{
		RoundID:     round.ID,
		Leaderboard: entries,
	}
	if len(entries) > 0 {
		payload.Winner = &entries[0]
	}
	s.broadcaster.BroadcastToRoom(room.ID, models.NewEvent(models.EventRoundFinished, payload))
}

// SubmitAnswer 提交作答
// 同一題同一玩家只有一次計分機會，重複提交回報 ErrDuplicateAnswer 且不影響成績
func (s *RoundService) SubmitAnswer(roomID, userID, questionID uint, chosenIndex int, elapsedSeconds float64) (*AnswerResult, error) {
	lock := s.roomLock(roomID)
	lock.Lock()
	result, err := s.submitAnswerLocked(roomID, userID, questionID, chosenIndex, elapsedSeconds)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	// 向全房間廣播本題結果與最新排行榜
	// 排行榜相對其他玩家的結果廣播允許短暫落後，房間內最終一致
	s.broadcaster.BroadcastToRoom(roomID, models.NewEvent(models.EventQuestionResult, models.QuestionResultPayload{
		QuestionID:   questionID,
		CorrectIndex: result.CorrectIndex,
		UserID:       userID,
		IsCorrect:    result.IsCorrect,
		Points:       result.PointsAwarded,
	}))
	if entries, lbErr := s.leaderboard.GetLeaderboard(roomID); lbErr == nil {
		s.broadcaster.BroadcastToRoom(roomID, models.NewEvent(models.EventLeaderboardUpdated, entries))
	} else {
		log.Printf("leaderboard for room %d failed: %v", roomID, lbErr)
	}

	return result, nil
}

func (s *RoundService) submitAnswerLocked(roomID, userID, questionID uint, chosenIndex int, elapsedSeconds float64) (*AnswerResult, error) {
	round, err := s.roundRepo.FindActiveByRoom(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRound
		}
		return nil, err
	}

	// 題目必須屬於本回合選定的題目
	inRound, err := s.roundRepo.HasQuestion(round.ID, questionID)
	if err != nil {
		return nil, err
	}
	if !inRound {
		return nil, ErrQuestionNotFound
	}

	exists, err := s.answerRepo.Exists(round.ID, questionID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAnswer
	}

	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}

	isCorrect := chosenIndex >= 0 && chosenIndex < len(question.Options) && chosenIndex == question.CorrectIndex

	isFirstCorrect := false
	if isCorrect {
		hasCorrect, err := s.answerRepo.HasCorrect(round.ID, questionID)
		if err != nil {
			return nil, err
		}
		isFirstCorrect = !hasCorrect
	}

	streak, err := s.currentStreak(round.ID, userID)
	if err != nil {
		return nil, err
	}

	points := ScorePoints(s.scoringConfig(), question.Difficulty, elapsedSeconds,
		room.Settings.TimeLimitSeconds, isCorrect, isFirstCorrect, streak)

	answer := &models.Answer{
		RoundID:        round.ID,
		QuestionID:     questionID,
		UserID:         userID,
		ChosenIndex:    chosenIndex,
		ElapsedSeconds: elapsedSeconds,
		IsCorrect:      isCorrect,
		PointsAwarded:  points,
		SubmittedAt:    time.Now(),
	}
	// 唯一索引是重複提交的最後防線
	if err := s.answerRepo.Create(answer); err != nil {
		return nil, err
	}

	if err := s.scoreRepo.AddResult(roomID, userID, points, isCorrect); err != nil {
		return nil, err
	}

	return &AnswerResult{
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		CorrectIndex:  question.CorrectIndex,
	}, nil
}

// currentStreak 從最近一筆作答往回掃描，遇到答錯或回合開頭即停
// 不另外維護一份連對計數器，避免和作答紀錄不同步
func (s *RoundService) currentStreak(roundID, userID uint) (int, error) {
	answers, err := s.answerRepo.FindByRoundAndUser(roundID, userID)
	if err != nil {
		return 0, err
	}

	streak := 0
	for _, answer := range answers {
		if !answer.IsCorrect {
			break
		}
		streak++
	}
	return streak, nil
}

// FinishRound 標記回合結束，之後對該回合的作答一律回報 ErrNoActiveRound
func (s *RoundService) FinishRound(roundID uint) error {
	round, err := s.roundRepo.FindByID(roundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoActiveRound
		}
		return err
	}

	lock := s.roomLock(round.RoomID)
	lock.Lock()
	defer lock.Unlock()

	// 進鎖後重新讀取再判斷，兩個同時的結束請求只有一個生效
	round, err = s.roundRepo.FindByID(roundID)
	if err != nil {
		return err
	}
	if round.FinishedAt != nil {
		return ErrNoActiveRound
	}

	if err := s.roundRepo.Finish(round.ID, time.Now()); err != nil {
		return err
	}
	return s.roomRepo.UpdateStatus(round.RoomID, models.RoomStatusWaiting)
}
