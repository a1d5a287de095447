package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func grid(w, h int) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(".", w)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	out := strings.Split(Place(grid(10, 5), "ab", 10, 5, Center, 0), "\n")
	require.Len(t, out, 5)
	require.Equal(t, "....ab....", out[2])
	require.Equal(t, "..........", out[0])
}

func TestPlace_BottomWithPadding(t *testing.T) {
	out := strings.Split(Place(grid(6, 4), "xx", 6, 4, Bottom, 1), "\n")
	require.Equal(t, "..xx..", out[2])
	require.Equal(t, "......", out[3])
}

func TestPlace_Top(t *testing.T) {
	out := strings.Split(Place(grid(6, 4), "xx\nyy", 6, 4, Top, 0), "\n")
	require.Equal(t, "..xx..", out[0])
	require.Equal(t, "..yy..", out[1])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := strings.Split(Place("..", "z", 4, 3, Center, 0), "\n")
	require.Len(t, out, 3)
	require.Equal(t, " z  ", out[1])
}

func TestPlace_ForegroundWiderThanViewport(t *testing.T) {
	out := strings.Split(Place(grid(4, 1), "abcdef", 4, 1, Center, 0), "\n")
	require.Equal(t, "abcdef", out[0])
}
