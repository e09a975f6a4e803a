package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePairsOldestFirst(t *testing.T) {
	q := NewQueue()
	require.NoError(t, q.AddPlayer("a"))
	require.NoError(t, q.AddPlayer("b"))
	require.NoError(t, q.AddPlayer("c"))
	assert.Error(t, q.AddPlayer("a"))

	p1, p2, ok := q.GetNextPair()
	require.True(t, ok)
	assert.Equal(t, "a", p1)
	assert.Equal(t, "b", p2)
	assert.Equal(t, 1, q.Size())

	_, _, ok = q.GetNextPair()
	assert.False(t, ok)

	q.RemovePlayer("c")
	assert.Equal(t, 0, q.Size())
}
