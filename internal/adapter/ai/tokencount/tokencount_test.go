package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	c := NewCounter()
	n, err := c.Count("hello world")
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	empty, err := c.Count("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}

func TestCountPair_IncludesOverhead(t *testing.T) {
	c := NewCounter()
	sys, err := c.Count("system prompt")
	require.NoError(t, err)
	usr, err := c.Count("user message")
	require.NoError(t, err)
	pair, err := c.CountPair("system prompt", "user message")
	require.NoError(t, err)
	assert.Equal(t, sys+usr+8, pair)
}

func TestCount_Monotonic(t *testing.T) {
	c := DefaultCounter
	short, err := c.Count("a b c")
	require.NoError(t, err)
	long, err := c.Count("a b c d e f g h i j k l m n o p")
	require.NoError(t, err)
	assert.Greater(t, long, short)
}
