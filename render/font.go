package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
	// Alignment of the text label to the callout box
	Alignment Alignment
}

// DefaultFont returns default font settings
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   6,
		RightPad:  6,
		TopPad:    4,
		BottomPad: 6,
		Alignment: Left,
	}
}

// textOriginX returns the x origin for a text line of the given pixel
// width laid out inside box, honoring the font alignment and padding
func textOriginX(f Font, box image.Rectangle, textWidth int) int {

	switch f.Alignment {
	case Center:
		return box.Min.X + (box.Dx()-textWidth)/2
	case Right:
		return box.Max.X - textWidth - f.RightPad
	}

	return box.Min.X + f.LeftPad
}

// TTFFontSize is the point size used for TTF watermark rendering
const TTFFontSize = 22

// LoadFace loads a TTF font file and sets up a type face for watermark
// rendering
func LoadFace(fontPath string) (font.Face, error) {

	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    TTFFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return face, nil
}
