package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_Bounds(t *testing.T) {
	_, err := newNode(32, 1)
	assert.ErrorIs(t, err, errInvalidMachineID)

	_, err = newNode(1, -1)
	assert.ErrorIs(t, err, errInvalidDataCenterID)

	n, err := newNode(31, 31)
	require.NoError(t, err)
	assert.NotZero(t, n.Generate().Int64())
}

func TestNextID_Unique(t *testing.T) {
	require.NoError(t, Init(1, 1))

	seen := make(map[int64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := NextID()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("1234567890123")
	assert.True(t, ok)
	assert.Equal(t, "1234567890123", FormatID(id))

	for _, bad := range []string{"", "abc", "-5", "0"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}
