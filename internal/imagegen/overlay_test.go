package imagegen

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/image/font/basicfont"
)

func panelPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestApplyAddsCaptionStrip(t *testing.T) {
	o := &CaptionOverlay{}
	src := panelPNG(t, 400, 300)

	out, err := o.Apply(src, "A fork stages a quiet rebellion against the soup course.")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 300)
}

func TestApplyEmptyNarrativePassesThrough(t *testing.T) {
	o := &CaptionOverlay{}
	src := panelPNG(t, 100, 100)

	out, err := o.Apply(src, "")
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestApplyRejectsNonPNG(t *testing.T) {
	o := &CaptionOverlay{}

	_, err := o.Apply([]byte("not a png"), "story")
	assert.Error(t, err)
}

func TestWrapText(t *testing.T) {
	face := basicfont.Face7x13

	t.Run("short text is one line", func(t *testing.T) {
		lines := wrapText("hello world", 400, face, 4)
		assert.Equal(t, []string{"hello world"}, lines)
	})

	t.Run("long text wraps", func(t *testing.T) {
		lines := wrapText("one two three four five six seven eight nine ten", 100, face, 4)
		assert.Greater(t, len(lines), 1)
		assert.LessOrEqual(t, len(lines), 4)
	})

	t.Run("overflow gets an ellipsis", func(t *testing.T) {
		long := "word word word word word word word word word word word word word word word word"
		lines := wrapText(long, 60, face, 2)
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "…")
	})

	t.Run("zero width returns input", func(t *testing.T) {
		lines := wrapText("anything", 0, face, 4)
		assert.Equal(t, []string{"anything"}, lines)
	})
}
