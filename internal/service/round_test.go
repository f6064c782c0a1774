package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_web/internal/models"
)

func TestStartRoundNotHost(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	player := createTestUser(t, repos, "player")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())
	require.NoError(t, roomService.JoinRoom(room.ID, player.ID))

	_, err := roundService.StartRound(room.ID, player.ID)
	assert.ErrorIs(t, err, ErrNotHost)
}

func TestStartRoundAlreadyActive(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())

	question := createTestQuestion(t, repos, 2, 0)
	startTestRound(t, repos, room.ID, question)

	_, err := roundService.StartRound(room.ID, host.ID)
	assert.ErrorIs(t, err, ErrRoundAlreadyActive)
}

func TestStartRoundNotEnoughQuestions(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings()) // 每回合 3 題
	createTestQuestion(t, repos, 2, 0)

	_, err := roundService.StartRound(room.ID, host.ID)
	assert.ErrorIs(t, err, ErrNotEnoughQuestions)
}

func TestStartRoundSelectsByDifficulty(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	settings := defaultSettings()
	settings.Difficulty = models.DifficultyEasy
	room := createTestRoom(t, roomService, host.ID, settings)

	for i := 0; i < 5; i++ {
		createTestQuestion(t, repos, 1, 0) // easy
		createTestQuestion(t, repos, 3, 0) // hard
	}

	round, err := roundService.StartRound(room.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, round.RoundNumber)

	roundQuestions, err := repos.Round.FindQuestions(round.ID)
	require.NoError(t, err)
	require.Len(t, roundQuestions, settings.QuestionCount)

	// 指定難度時只能從該難度抽題，出題順序從 0 開始固定
	for i, rq := range roundQuestions {
		assert.Equal(t, i, rq.OrderIndex)
		question, err := repos.Question.FindByID(rq.QuestionID)
		require.NoError(t, err)
		assert.Equal(t, 1, question.Difficulty)
	}

	room2, err := repos.Room.FindByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusInProgress, room2.Status)
}

func TestSubmitAnswerScoresAndIncrements(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings()) // 時限 15 秒

	question := createTestQuestion(t, repos, 3, 1)
	startTestRound(t, repos, room.ID, question)

	result, err := roundService.SubmitAnswer(room.ID, host.ID, question.ID, 1, 5)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1, result.CorrectIndex)
	// 300 基礎 + 50 速度 + 50 首答
	assert.Equal(t, 400, result.PointsAwarded)

	score, err := repos.Score.Find(room.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, score.TotalPoints)
	assert.Equal(t, 1, score.CorrectAnswerCount)
	assert.Equal(t, 1, score.QuestionsAnsweredCount)

	assert.Contains(t, broadcaster.eventTypes(), models.EventQuestionResult)
	assert.Contains(t, broadcaster.eventTypes(), models.EventLeaderboardUpdated)
}

func TestSubmitAnswerWrong(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())

	question := createTestQuestion(t, repos, 3, 1)
	startTestRound(t, repos, room.ID, question)

	result, err := roundService.SubmitAnswer(room.ID, host.ID, question.ID, 2, 3)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)

	// 答錯計入作答數，不計入答對數
	score, err := repos.Score.Find(room.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, score.TotalPoints)
	assert.Equal(t, 0, score.CorrectAnswerCount)
	assert.Equal(t, 1, score.QuestionsAnsweredCount)
}

func TestSubmitAnswerDuplicate(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())

	question := createTestQuestion(t, repos, 3, 1)
	startTestRound(t, repos, room.ID, question)

	first, err := roundService.SubmitAnswer(room.ID, host.ID, question.ID, 1, 5)
	require.NoError(t, err)

	// 第二次提交被拒絕，成績不變
	_, err = roundService.SubmitAnswer(room.ID, host.ID, question.ID, 1, 6)
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	score, err := repos.Score.Find(room.ID, host.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PointsAwarded, score.TotalPoints)
	assert.Equal(t, 1, score.QuestionsAnsweredCount)
}

func TestSubmitAnswerNoActiveRound(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())
	question := createTestQuestion(t, repos, 2, 0)

	_, err := roundService.SubmitAnswer(room.ID, host.ID, question.ID, 0, 3)
	assert.ErrorIs(t, err, ErrNoActiveRound)
}

func TestSubmitAnswerAfterFinish(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())
	question := createTestQuestion(t, repos, 2, 0)
	round := startTestRound(t, repos, room.ID, question)

	require.NoError(t, roundService.FinishRound(round.ID))

	// 結束後的回合不再是「目前的回合」，作答一律被拒
	_, err := roundService.SubmitAnswer(room.ID, host.ID, question.ID, 0, 3)
	assert.ErrorIs(t, err, ErrNoActiveRound)

	// 重複結束同一回合也會被拒
	assert.ErrorIs(t, roundService.FinishRound(round.ID), ErrNoActiveRound)

	room2, err := repos.Room.FindByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, room2.Status)
}

func TestSubmitAnswerQuestionNotInRound(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())
	inRound := createTestQuestion(t, repos, 2, 0)
	outside := createTestQuestion(t, repos, 2, 0)
	startTestRound(t, repos, room.ID, inRound)

	_, err := roundService.SubmitAnswer(room.ID, host.ID, outside.ID, 0, 3)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

// 連對加分：到此題之前的連續答對數，不含此題
func TestSubmitAnswerStreak(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())

	q1 := createTestQuestion(t, repos, 1, 0)
	q2 := createTestQuestion(t, repos, 1, 0)
	q3 := createTestQuestion(t, repos, 1, 0)
	startTestRound(t, repos, room.ID, q1, q2, q3)

	// 前兩題答對，第三題作答時連對數為 2
	r1, err := roundService.SubmitAnswer(room.ID, host.ID, q1.ID, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 150, r1.PointsAwarded) // 100 + 首答 50

	r2, err := roundService.SubmitAnswer(room.ID, host.ID, q2.ID, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 160, r2.PointsAwarded) // 100 + 首答 50 + 連對 1*10

	r3, err := roundService.SubmitAnswer(room.ID, host.ID, q3.ID, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 170, r3.PointsAwarded) // 100 + 首答 50 + 連對 2*10
}

// 同一題多位玩家同時答對，首答加分必須恰好發出一次
func TestFirstCorrectBonusAwardedOnce(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	settings := defaultSettings()
	settings.MaxPlayers = 10
	room := createTestRoom(t, roomService, host.ID, settings)

	players := []*models.User{host}
	for _, name := range []string{"p1", "p2", "p3", "p4"} {
		player := createTestUser(t, repos, name)
		require.NoError(t, roomService.JoinRoom(room.ID, player.ID))
		players = append(players, player)
	}

	question := createTestQuestion(t, repos, 2, 0)
	startTestRound(t, repos, room.ID, question)

	var wg sync.WaitGroup
	results := make([]*AnswerResult, len(players))
	errs := make([]error, len(players))
	for i, player := range players {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			results[i], errs[i] = roundService.SubmitAnswer(room.ID, userID, question.ID, 0, 10)
		}(i, player.ID)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// 所有人同秒答對，得分差異只來自首答加分
	withoutBonus := 200 + 25 // 基礎 + 速度
	firstBonusCount := 0
	for _, result := range results {
		assert.True(t, result.IsCorrect)
		switch result.PointsAwarded {
		case withoutBonus + testGameConfig.FirstAnswerBonus:
			firstBonusCount++
		case withoutBonus:
		default:
			t.Fatalf("unexpected points: %d", result.PointsAwarded)
		}
	}
	assert.Equal(t, 1, firstBonusCount)
}

// 兩個同時的結束請求只有一個生效，另一個回報回合已不在進行中
func TestFinishRoundConcurrent(t *testing.T) {
	repos := newTestRepos(t)
	broadcaster := &recordingBroadcaster{}
	roomService := NewRoomService(repos.Room, repos.Participant, repos.Score, broadcaster)
	roundService := newTestRoundService(repos, broadcaster)

	host := createTestUser(t, repos, "host")
	room := createTestRoom(t, roomService, host.ID, defaultSettings())

	question := createTestQuestion(t, repos, 1, 0)
	round := startTestRound(t, repos, room.ID, question)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = roundService.FinishRound(round.ID)
		}(i)
	}
	wg.Wait()

	finished := 0
	for _, err := range errs {
		if err == nil {
			finished++
		} else {
			assert.ErrorIs(t, err, ErrNoActiveRound)
		}
	}
	assert.Equal(t, 1, finished)

	after, err := repos.Round.FindByID(round.ID)
	require.NoError(t, err)
	assert.NotNil(t, after.FinishedAt)
}
