package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCopiesEvidence(t *testing.T) {
	a := New(Info, "EFFECT.ACTIVE", "circle active").With("index", 1)
	b := a.With("effect", "circle")

	assert.Equal(t, map[string]any{"index": 1}, a.Evidence)
	assert.Equal(t, map[string]any{"index": 1, "effect": "circle"}, b.Evidence)
	assert.Equal(t, Info, b.Severity)
	assert.False(t, b.Time.IsZero())
}
