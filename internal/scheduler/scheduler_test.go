package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	c, err := New("0 0 * * *", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	// stdout-only logging has nothing to rotate
	assert.NotPanics(t, c.Entries()[0].Job.Run)
}

func TestNew_EmptySpec(t *testing.T) {
	c, err := New("", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, c.Entries())
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New("every day", zap.NewNop())
	assert.ErrorContains(t, err, "schedule log rotation")
}
