package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	require.Equal(t, 1, FindIndex([]string{"a", "b"}, "b"))
	require.Equal(t, -1, FindIndex([]string{"a", "b"}, "c"))
	require.Equal(t, -1, FindIndex([]int(nil), 3))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-0.5, 0, 1))
	require.Equal(t, 1.0, Clamp(1.5, 0, 1))
	require.Equal(t, 5, Clamp(5, 1, 10))
}

func TestRatio(t *testing.T) {
	require.Equal(t, 2.0, Ratio(4, 2, 0))
	require.Equal(t, 7.0, Ratio(4, 0, 7), "Should return fallback on zero divisor")
}
