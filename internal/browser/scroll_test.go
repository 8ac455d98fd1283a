package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollExpression(t *testing.T) {
	tests := []struct {
		direction string
		pixels    int
		want      string
	}{
		{"up", 0, "window.scrollBy(0, -500)"},
		{"down", 0, "window.scrollBy(0, 500)"},
		{"left", 0, "window.scrollBy(-300, 0)"},
		{"right", 0, "window.scrollBy(300, 0)"},
		{"down", 120, "window.scrollBy(0, 120)"},
		{"left", -5, "window.scrollBy(-300, 0)"},
		{"top", 999, "window.scrollTo(0, 0)"},
		{"bottom", 0, "window.scrollTo(0, document.body.scrollHeight)"},
	}

	for _, tt := range tests {
		got, err := scrollExpression(tt.direction, tt.pixels)
		require.NoError(t, err, tt.direction)
		assert.Equal(t, tt.want, got, "%s %d", tt.direction, tt.pixels)
	}
}

func TestScrollExpressionInvalidDirection(t *testing.T) {
	for _, direction := range []string{"sideways", "DOWN", "Down", " up", ""} {
		_, err := scrollExpression(direction, 10)
		require.ErrorIs(t, err, ErrInvalidArgument, "%q", direction)
	}

	_, err := scrollExpression("sideways", 10)
	assert.Contains(t, err.Error(), "sideways")
}
