package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketing-console/labeldesigner/internal/layout"
)

func TestSizeSpec_IsEmpty(t *testing.T) {
	assert.True(t, SizeSpec{}.IsEmpty())
	assert.False(t, SizeSpec{Preset: "50x30"}.IsEmpty())
	assert.False(t, SizeSpec{WidthMM: 10}.IsEmpty())
}

func TestPlacementView_FlattensPlacement(t *testing.T) {
	view := PlacementView{
		Placement: layout.Placement{
			ID:    "p1",
			Key:   layout.KeyCompany,
			Label: "Company",
			Frame: layout.Frame{X: 0.1, Y: 0.2, W: 0.3, H: 0.4},
			Style: layout.DefaultStyle(),
		},
		Rect:        layout.Rect{X: 10, Y: 20, W: 30, H: 40},
		DisplayText: "Example Corp",
	}

	data, err := json.Marshal(view)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "p1", fields["id"])
	assert.Equal(t, "company", fields["key"])
	assert.Equal(t, "Example Corp", fields["display_text"])
	assert.Contains(t, fields, "rect")
	assert.Contains(t, fields, "frame")
	assert.NotContains(t, fields, "image_source")
}
