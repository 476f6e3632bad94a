package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay post-processes a rendered image, embedding the narrative as a
// caption. A nil Overlay in the pipeline means pass-through.
type Overlay interface {
	Apply(img []byte, narrative string) ([]byte, error)
}

// CaptionOverlay appends a black caption strip below the panels and writes
// the narrative into it.
type CaptionOverlay struct {
	// MaxLines caps the caption height; extra text is dropped with an
	// ellipsis. Zero means 4.
	MaxLines int
}

const (
	captionPadding    = 8
	captionLineHeight = 16
)

func (o *CaptionOverlay) Apply(data []byte, narrative string) ([]byte, error) {
	if narrative == "" {
		return data, nil
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode panel image: %w", err)
	}

	maxLines := o.MaxLines
	if maxLines <= 0 {
		maxLines = 4
	}

	bounds := src.Bounds()
	face := basicfont.Face7x13
	lines := wrapText(narrative, bounds.Dx()-2*captionPadding, face, maxLines)

	stripH := len(lines)*captionLineHeight + 2*captionPadding
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()+stripH))

	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	draw.Draw(dst,
		image.Rect(0, bounds.Dy(), bounds.Dx(), bounds.Dy()+stripH),
		image.NewUniform(color.Black), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
	}
	y := bounds.Dy() + captionPadding + face.Ascent
	for _, line := range lines {
		drawer.Dot = fixed.P(captionPadding, y)
		drawer.DrawString(line)
		y += captionLineHeight
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode captioned image: %w", err)
	}
	return out.Bytes(), nil
}

// wrapText breaks s into lines that fit within width pixels, at most maxLines
// of them.
func wrapText(s string, width int, face font.Face, maxLines int) []string {
	if width <= 0 {
		return []string{s}
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(s) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
		if len(lines) == maxLines {
			break
		}
	}
	if current != "" && len(lines) < maxLines {
		lines = append(lines, current)
	} else if len(lines) == maxLines {
		lines[maxLines-1] += "…"
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
