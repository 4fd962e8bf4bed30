package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndValidate(t *testing.T) {
	id := NewDrawingID()
	assert.True(t, strings.HasPrefix(id, PrefixDrawing+"_"), id)
	require.NoError(t, Validate(id, PrefixDrawing))

	assert.Error(t, Validate(id, PrefixObject))
	assert.Error(t, Validate("not-an-id", PrefixDrawing))
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewObjectID()
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}
