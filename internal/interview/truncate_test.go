package interview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeHistory builds a transcript with a system turn followed by n alternating
// user/assistant turns, numbered for identification
func makeHistory(n int) []Turn {
	history := []Turn{{Role: RoleSystem, Content: "system"}}
	for i := 0; i < n; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history = append(history, Turn{Role: role, Content: fmt.Sprintf("turn-%d", i)})
	}
	return history
}

func TestTruncateHistory_UnderCap(t *testing.T) {
	history := makeHistory(5)

	result := TruncateHistory(history, 10)

	assert.Equal(t, history, result)
}

func TestTruncateHistory_AtCap(t *testing.T) {
	history := makeHistory(9)

	result := TruncateHistory(history, 10)

	assert.Equal(t, history, result)
}

func TestTruncateHistory_OverCap(t *testing.T) {
	history := makeHistory(12) // 13 turns including system

	result := TruncateHistory(history, 10)

	require.Len(t, result, 10)
	assert.Equal(t, RoleSystem, result[0].Role)
	// The most recent 9 turns survive; turns 0-2 age out
	assert.Equal(t, "turn-3", result[1].Content)
	assert.Equal(t, "turn-11", result[9].Content)
}

func TestTruncateHistory_KeepsMostRecentTurns(t *testing.T) {
	history := makeHistory(20)

	result := TruncateHistory(history, 10)

	require.Len(t, result, 10)
	assert.Equal(t, RoleSystem, result[0].Role)
	for i, turn := range history[len(history)-9:] {
		assert.Equal(t, turn, result[i+1])
	}
}

func TestTruncateHistory_CapFloorsAtOne(t *testing.T) {
	history := makeHistory(4)

	for _, cap := range []int{0, -3, 1} {
		result := TruncateHistory(history, cap)
		require.Len(t, result, 1, "cap=%d", cap)
		assert.Equal(t, RoleSystem, result[0].Role)
	}
}

func TestTruncateHistory_SystemTurnOnly(t *testing.T) {
	history := makeHistory(0)

	result := TruncateHistory(history, 10)

	assert.Equal(t, history, result)
}
