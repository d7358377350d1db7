package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConverter_RoundTrip(t *testing.T) {
	conv := DefaultConverter()
	sizes := []LabelSize{
		{WidthMM: 50, HeightMM: 50},
		{WidthMM: 62, HeightMM: 29},
		{WidthMM: 100, HeightMM: 150},
		{WidthMM: 3, HeightMM: 2},
	}
	values := []float64{0.001, 0.5, 1, 12.7, 49.99, 300}

	for _, size := range sizes {
		for _, v := range values {
			got := conv.PxToMM(size, conv.MMToPx(size, v))
			assert.InDelta(t, v, got, 1e-9, "size %v value %v", size, v)
		}
	}
}

func TestConverter_FitScaleNeverUpscales(t *testing.T) {
	conv := DefaultConverter()

	// 10mm at 3x design scale is ~113px, well inside the viewport.
	assert.Equal(t, 1.0, conv.FitScale(LabelSize{WidthMM: 10, HeightMM: 10}))

	big := LabelSize{WidthMM: 100, HeightMM: 150}
	fit := conv.FitScale(big)
	assert.Less(t, fit, 1.0)

	canvas := conv.Canvas(big)
	assert.LessOrEqual(t, canvas.Width, DefaultMaxViewportWidth)
	assert.LessOrEqual(t, canvas.Height, DefaultMaxViewportHeight)
	// Height is the binding dimension for a tall label.
	assert.InDelta(t, DefaultMaxViewportHeight, canvas.Height, 1e-6)
}

func TestConverter_ScaleComposition(t *testing.T) {
	conv := Converter{DesignScale: 2, MaxViewportWidth: 10000, MaxViewportHeight: 10000}
	size := LabelSize{WidthMM: 25.4, HeightMM: 25.4}

	assert.InDelta(t, 192.0, conv.MMToPx(size, 25.4), 1e-9)
	assert.Equal(t, Canvas{Width: 192, Height: 192}, conv.Canvas(size))
}

func TestConverter_ZeroDesignScaleUsesDefault(t *testing.T) {
	conv := Converter{}
	assert.InDelta(t, PxPerMM*DefaultDesignScale, conv.Scale(LabelSize{WidthMM: 1, HeightMM: 1}), 1e-9)
}

func TestLabelSize_Validate(t *testing.T) {
	tests := []struct {
		name  string
		size  LabelSize
		valid bool
	}{
		{"preset", LabelSize{WidthMM: 50, HeightMM: 30}, true},
		{"zero width", LabelSize{WidthMM: 0, HeightMM: 30}, false},
		{"negative height", LabelSize{WidthMM: 50, HeightMM: -1}, false},
		{"too wide", LabelSize{WidthMM: 501, HeightMM: 30}, false},
		{"tiny", LabelSize{WidthMM: 0.5, HeightMM: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.size.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidLabelSize))
			}
		})
	}
}

func TestLookupPreset(t *testing.T) {
	size, ok := LookupPreset("62x29")
	assert.True(t, ok)
	assert.Equal(t, LabelSize{WidthMM: 62, HeightMM: 29}, size)

	_, ok = LookupPreset("A4")
	assert.False(t, ok)
}
