package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"quiz_web/internal/models"
	"quiz_web/internal/repository"
)

func createTestScore(t *testing.T, scoreRepo repository.ScoreRepository, roomID, userID uint, points int, updatedAt time.Time) {
	t.Helper()
	score := &models.Score{
		Model:       gorm.Model{CreatedAt: updatedAt, UpdatedAt: updatedAt},
		RoomID:      roomID,
		UserID:      userID,
		TotalPoints: points,
	}
	require.NoError(t, scoreRepo.Create(score))
}

func TestGetLeaderboardOrdering(t *testing.T) {
	repos := newTestRepos(t)
	leaderboard := NewLeaderboardService(repos.Score, repos.User)

	alice := createTestUser(t, repos, "alice")
	bob := createTestUser(t, repos, "bob")
	carol := createTestUser(t, repos, "carol")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	roomID := uint(1)
	createTestScore(t, repos.Score, roomID, alice.ID, 300, base.Add(2*time.Minute))
	createTestScore(t, repos.Score, roomID, bob.ID, 500, base.Add(3*time.Minute))
	createTestScore(t, repos.Score, roomID, carol.ID, 100, base.Add(time.Minute))

	entries, err := leaderboard.GetLeaderboard(roomID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 總分由高到低，名次從 1 開始
	assert.Equal(t, bob.ID, entries[0].UserID)
	assert.Equal(t, alice.ID, entries[1].UserID)
	assert.Equal(t, carol.ID, entries[2].UserID)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "bob", entries[0].DisplayName)
}

// 同分時先達成該分數者在前，排序結果是全序
func TestGetLeaderboardTieBreak(t *testing.T) {
	repos := newTestRepos(t)
	leaderboard := NewLeaderboardService(repos.Score, repos.User)

	early := createTestUser(t, repos, "early")
	late := createTestUser(t, repos, "late")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	roomID := uint(1)
	createTestScore(t, repos.Score, roomID, late.ID, 400, base.Add(time.Hour))
	createTestScore(t, repos.Score, roomID, early.ID, 400, base)

	entries, err := leaderboard.GetLeaderboard(roomID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, early.ID, entries[0].UserID)
	assert.Equal(t, late.ID, entries[1].UserID)
}

func TestGetLeaderboardEmptyRoom(t *testing.T) {
	repos := newTestRepos(t)
	leaderboard := NewLeaderboardService(repos.Score, repos.User)

	entries, err := leaderboard.GetLeaderboard(42)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
