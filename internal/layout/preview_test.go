package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayText_PreviewRoundTrip(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	require.NoError(t, NewEditor(doc).LoadTemplate(1, false))
	doc.AddComponent(KeyCustomText, "Custom text")
	samples := DefaultSamples()

	original := make(map[string]string)
	for _, p := range doc.Placements {
		original[p.ID] = DisplayText(p, doc.Preview, samples)
	}

	doc.SetPreview(true)
	changed := 0
	for _, p := range doc.Placements {
		if DisplayText(p, doc.Preview, samples) != original[p.ID] {
			changed++
		}
	}
	assert.Greater(t, changed, 0)

	doc.SetPreview(false)
	for _, p := range doc.Placements {
		assert.Equal(t, original[p.ID], DisplayText(p, doc.Preview, samples))
		if p.Key != KeyCustomText {
			assert.Equal(t, p.Label, DisplayText(p, doc.Preview, samples))
		}
	}
}

func TestDisplayText_StaticSamples(t *testing.T) {
	s := DefaultSamples()
	include := true
	exclude := false

	tests := []struct {
		name string
		p    Placement
		want string
	}{
		{"event name", Placement{Key: KeyEventName, Label: "Event"}, s.EventName},
		{"event place", Placement{Key: KeyEventPlace}, s.EventPlace},
		{"name with honorific", Placement{Key: KeyAttendeeName, IncludeHonorific: &include}, "Mx. Alex Morgan"},
		{"name without honorific", Placement{Key: KeyAttendeeName, IncludeHonorific: &exclude}, "Alex Morgan"},
		{"last name", Placement{Key: KeyLastName}, "Morgan"},
		{"custom text", Placement{Key: KeyCustomText, Label: "Custom", Text: "VIP lounge"}, "VIP lounge"},
		{"unknown key", Placement{Key: "mystery", Label: "Mystery"}, "Mystery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayText(tt.p, true, s))
		})
	}
}

func TestDisplayText_VisibleFields(t *testing.T) {
	fields := []VisibleField{
		{ID: "f1", Label: "Date of birth", Type: FieldDate},
		{ID: "f2", Label: "T-shirt size", Type: FieldSelect, Options: []FieldOption{{Value: "s", Label: "Small"}, {Value: "m", Label: "Medium"}}},
		{ID: "f3", Label: "Dietary needs", Type: FieldCheckbox, Options: []FieldOption{{Label: "Vegan"}, {Label: "Gluten free"}, {Label: "Halal"}}},
		{ID: "f4", Label: "Job title", Type: FieldText},
		{Label: "Badge colour", Type: FieldRadio},
	}
	s := DefaultSamples().WithFields(fields)
	keys := NewFieldKeys(fields)

	tests := []struct {
		field VisibleField
		want  string
	}{
		{fields[0], s.SampleDate},
		{fields[1], "Small"},
		{fields[2], "Vegan, Gluten free"},
		{fields[3], "Job title"},
		{fields[4], "Badge colour"},
	}
	for _, tt := range tests {
		t.Run(tt.field.Label, func(t *testing.T) {
			p := Placement{Key: keys.Key(tt.field), Label: tt.field.Label}
			assert.Equal(t, tt.want, DisplayText(p, true, s))
		})
	}
}

func TestImageSource(t *testing.T) {
	s := DefaultSamples()

	qr := Placement{Key: KeyQRCode, Label: "QR code"}
	assert.Equal(t, s.QRCodeURL, ImageSource(qr, true, s))
	assert.Empty(t, ImageSource(qr, false, s))

	img := Placement{Key: KeyImage}
	assert.Empty(t, ImageSource(img, true, s))
	img.ImageURL = "https://cdn.example.com/logo.png"
	assert.Equal(t, img.ImageURL, ImageSource(img, false, s))
}
