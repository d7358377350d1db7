// Package layout implements the ticket tag label designer: the unit
// converter, the placement model, the canvas state machine, the template
// library and the print projector.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// PxPerMM is the number of CSS pixels per millimeter at the 96 DPI reference.
const PxPerMM = 96.0 / 25.4

const (
	// DefaultDesignScale enlarges small labels so they are easier to manipulate.
	DefaultDesignScale = 3.0

	// DefaultMaxViewportWidth and DefaultMaxViewportHeight bound the rendered canvas.
	DefaultMaxViewportWidth  = 800.0
	DefaultMaxViewportHeight = 600.0

	// MaxLabelDimensionMM caps custom label dimensions.
	MaxLabelDimensionMM = 500.0
)

// ErrInvalidLabelSize is returned when a label dimension is not positive or too large.
var ErrInvalidLabelSize = errors.New("invalid label size")

// LabelSize is the physical size of a label in millimeters.
type LabelSize struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Validate rejects sizes whose width or height is not strictly positive.
func (s LabelSize) Validate() error {
	if !(s.WidthMM > 0) || !(s.HeightMM > 0) {
		return fmt.Errorf("%w: width and height must be greater than 0 (got %gx%g mm)",
			ErrInvalidLabelSize, s.WidthMM, s.HeightMM)
	}
	if s.WidthMM > MaxLabelDimensionMM || s.HeightMM > MaxLabelDimensionMM {
		return fmt.Errorf("%w: width and height must not exceed %g mm",
			ErrInvalidLabelSize, MaxLabelDimensionMM)
	}
	return nil
}

// Canvas is the on-screen design surface size in pixels.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Converter maps millimeters to screen pixels and back.
type Converter struct {
	DesignScale       float64
	MaxViewportWidth  float64
	MaxViewportHeight float64
}

// DefaultConverter returns a Converter using the package defaults.
func DefaultConverter() Converter {
	return Converter{
		DesignScale:       DefaultDesignScale,
		MaxViewportWidth:  DefaultMaxViewportWidth,
		MaxViewportHeight: DefaultMaxViewportHeight,
	}
}

func (c Converter) designScale() float64 {
	if c.DesignScale <= 0 {
		return DefaultDesignScale
	}
	return c.DesignScale
}

// FitScale returns the down-scale factor that keeps the canvas for size
// within the maximum viewport. It never exceeds 1.
func (c Converter) FitScale(size LabelSize) float64 {
	rawWidth := size.WidthMM * PxPerMM * c.designScale()
	rawHeight := size.HeightMM * PxPerMM * c.designScale()

	fit := 1.0
	if c.MaxViewportWidth > 0 && rawWidth > 0 {
		fit = math.Min(fit, c.MaxViewportWidth/rawWidth)
	}
	if c.MaxViewportHeight > 0 && rawHeight > 0 {
		fit = math.Min(fit, c.MaxViewportHeight/rawHeight)
	}
	return fit
}

// Scale returns the composed pixels-per-millimeter factor for size.
func (c Converter) Scale(size LabelSize) float64 {
	return PxPerMM * c.designScale() * c.FitScale(size)
}

// MMToPx converts a length in millimeters to canvas pixels for size.
func (c Converter) MMToPx(size LabelSize, mm float64) float64 {
	return mm * c.Scale(size)
}

// PxToMM converts a length in canvas pixels back to millimeters for size.
func (c Converter) PxToMM(size LabelSize, px float64) float64 {
	scale := c.Scale(size)
	if scale == 0 {
		return 0
	}
	return px / scale
}

// Canvas returns the post-fit canvas size in pixels for size.
func (c Converter) Canvas(size LabelSize) Canvas {
	return Canvas{
		Width:  roundPx(c.MMToPx(size, size.WidthMM)),
		Height: roundPx(c.MMToPx(size, size.HeightMM)),
	}
}

// roundPx drops floating point noise below a millionth of a pixel.
func roundPx(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// LabelSizePreset is a named, commonly used label stock.
type LabelSizePreset struct {
	Name string    `json:"name"`
	Size LabelSize `json:"size"`
}

// LabelSizePresets lists the label stocks offered by the designer.
var LabelSizePresets = []LabelSizePreset{
	{Name: "50x30", Size: LabelSize{WidthMM: 50, HeightMM: 30}},
	{Name: "50x50", Size: LabelSize{WidthMM: 50, HeightMM: 50}},
	{Name: "62x29", Size: LabelSize{WidthMM: 62, HeightMM: 29}},
	{Name: "62x100", Size: LabelSize{WidthMM: 62, HeightMM: 100}},
	{Name: "86x54", Size: LabelSize{WidthMM: 86, HeightMM: 54}},
	{Name: "100x50", Size: LabelSize{WidthMM: 100, HeightMM: 50}},
	{Name: "100x150", Size: LabelSize{WidthMM: 100, HeightMM: 150}},
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (LabelSize, bool) {
	for _, preset := range LabelSizePresets {
		if preset.Name == name {
			return preset.Size, true
		}
	}
	return LabelSize{}, false
}
