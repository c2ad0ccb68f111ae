package idgen

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IsValidAndOrdered(t *testing.T) {
	a := New()
	b := New()
	_, err := ulid.ParseStrict(a)
	require.NoError(t, err)
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestWithPrefix(t *testing.T) {
	id := WithPrefix("analysis")
	assert.True(t, strings.HasPrefix(id, "analysis_"))
	assert.Len(t, id, len("analysis_")+26)
}
