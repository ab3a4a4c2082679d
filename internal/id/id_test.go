package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_sortedAndUnique(t *testing.T) {
	seen := make(map[string]bool)

	prev := ""
	for i := 0; i < 1000; i++ {
		id := New()
		require.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.Less(t, prev, id)

		seen[id] = true
		prev = id
	}
}
