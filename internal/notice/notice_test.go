package notice

import (
	"fmt"
	"testing"

	apperrors "ats-console/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_PushAndDismiss(t *testing.T) {
	c := NewCenter()

	a := c.Info("No Verification Sent", "No candidates to verify.")
	b := c.Success("Verification Sent", "ok")
	d := c.Warn("Sync", "stale")

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, LevelInfo, list[0].Level)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	assert.True(t, c.Dismiss(b.ID))
	assert.False(t, c.Dismiss(b.ID))

	list = c.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, d.ID, list[1].ID)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCenter_FromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", apperrors.NewBackendError("/x", 400, "Quota exceeded"), "Quota exceeded"},
		{"no message", apperrors.NewBackendError("/x", 500, ""), "Something went wrong"},
		{"plain error", fmt.Errorf("dial"), "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCenter()
			n := c.FromError("Verification Failed", tt.err, "Something went wrong")
			assert.Equal(t, LevelError, n.Level)
			assert.Equal(t, "Verification Failed", n.Title)
			assert.Equal(t, tt.want, n.Message)
		})
	}
}

func TestCenter_ListIsCopy(t *testing.T) {
	c := NewCenter()
	c.Info("a", "b")
	list := c.List()
	list[0].Title = "changed"
	assert.Equal(t, "a", c.List()[0].Title)
}
