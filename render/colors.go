package render

import (
	"image/color"

	shotform "github.com/hoopsight/go-shotform"
)

var (
	// status tier colors, shared by skeleton lines, joint markers and
	// callout borders so the live preview and exported video never
	// disagree on a color
	goodColor     = color.RGBA{R: 72, G: 249, B: 10, A: 255}  // #48F90A
	warningColor  = color.RGBA{R: 255, G: 178, B: 29, A: 255} // #FFB21D
	criticalColor = color.RGBA{R: 255, G: 56, B: 56, A: 255}  // #FF3838

	// ballColor paints the basketball marker and trail head
	ballColor = color.RGBA{R: 255, G: 112, B: 31, A: 255} // #FF701F

	// calloutFill is the dark panel the callout text is written on
	calloutFill = color.RGBA{R: 18, G: 20, B: 28, A: 255}

	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 50, A: 255}
	Gray   = color.RGBA{R: 180, G: 180, B: 180, A: 255}
)

// StatusColor returns the draw color for a status tier
func StatusColor(s shotform.Status) color.RGBA {
	switch s {
	case shotform.StatusCritical:
		return criticalColor
	case shotform.StatusWarning:
		return warningColor
	default:
		return goodColor
	}
}

// glowPass defines one stroke layer of the layered drawing technique.
// Every primitive is drawn as four passes, outer glow, mid glow, solid
// core and bright highlight.  Functionally this is one shape with varying
// stroke width and brightness, not independent state.
type glowPass struct {
	// thickness multiplier on the base stroke width
	thickness float64
	// dim scales the color toward black, 1 leaves it unchanged
	dim float64
	// lift mixes the color toward white after dimming
	lift float64
}

var glowPasses = []glowPass{
	{thickness: 3.0, dim: 0.25},
	{thickness: 2.0, dim: 0.55},
	{thickness: 1.0, dim: 1.0},
	{thickness: 0.5, dim: 1.0, lift: 0.65},
}

// passColor derives the stroke color of one glow pass from the base color
func passColor(base color.RGBA, p glowPass) color.RGBA {

	scale := func(v uint8) uint8 {
		f := float64(v) * p.dim
		f += (255 - f) * p.lift
		if f > 255 {
			f = 255
		}
		return uint8(f)
	}

	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}
