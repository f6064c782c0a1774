package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	Init("test_secret", 1)

	token, err := GenerateToken(7, "player", "測試玩家")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "player", claims.Role)
	assert.Equal(t, "測試玩家", claims.DisplayName)
}

func TestParseTokenInvalid(t *testing.T) {
	Init("test_secret", 1)

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
