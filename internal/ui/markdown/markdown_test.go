package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New("notty")
	out, err := r.Render("# Brief\n\nWard 12 needs **attention**.", 40)
	require.NoError(t, err)
	require.Contains(t, out, "Brief")
	require.Contains(t, out, "attention")
}

func TestRender_ReusesRendererPerWidth(t *testing.T) {
	r := New("")
	_, err := r.Render("a", 30)
	require.NoError(t, err)
	_, err = r.Render("b", 30)
	require.NoError(t, err)
	_, err = r.Render("c", 5)
	require.NoError(t, err)
	require.Len(t, r.byWid, 2, "widths below 20 are clamped")
}

func TestRender_UnknownStyle(t *testing.T) {
	_, err := New("does-not-exist").Render("x", 40)
	require.Error(t, err)
}
