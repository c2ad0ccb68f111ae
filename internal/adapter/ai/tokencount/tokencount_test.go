package tokencount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Count(t *testing.T) {
	c := NewCounter("")
	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 2, c.Count("hello world"))
	assert.Greater(t, c.Count(strings.Repeat("curriculum vitae ", 50)), 50)
}

func TestCounter_Truncate(t *testing.T) {
	c := NewCounter(DefaultEncoding)
	long := strings.Repeat("experienced software engineer ", 200)

	out, cut := c.Truncate(long, 20)
	assert.True(t, cut)
	assert.LessOrEqual(t, c.Count(out), 20)
	assert.True(t, strings.HasPrefix(long, out))

	same, cut := c.Truncate("short text", 20)
	assert.False(t, cut)
	assert.Equal(t, "short text", same)

	unlimited, cut := c.Truncate(long, 0)
	assert.False(t, cut)
	assert.Equal(t, long, unlimited)
}

func TestCounter_UnknownEncodingEstimates(t *testing.T) {
	c := NewCounter("no-such-encoding")
	assert.Equal(t, 3, c.Count("0123456789"))

	out, cut := c.Truncate(strings.Repeat("a", 100), 5)
	assert.True(t, cut)
	assert.Len(t, out, 20)
}
