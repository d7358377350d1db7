package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T, w, h float64) *Document {
	t.Helper()
	doc, err := NewDocument("Test", LabelSize{WidthMM: w, HeightMM: h}, false, DefaultConverter())
	require.NoError(t, err)
	return doc
}

func TestNewDocument_RejectsInvalidSize(t *testing.T) {
	_, err := NewDocument("Bad", LabelSize{WidthMM: 0, HeightMM: 50}, true, DefaultConverter())
	assert.ErrorIs(t, err, ErrInvalidLabelSize)

	_, err = NewDocument("Bad", LabelSize{WidthMM: -5, HeightMM: 50}, true, DefaultConverter())
	assert.ErrorIs(t, err, ErrInvalidLabelSize)
}

func TestAddComponent_Defaults(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	assert.False(t, doc.Dirty)

	text := doc.AddComponent(KeyCustomText, "Custom text")
	assert.Equal(t, CustomTextPlaceholder, text.Text)
	assert.Nil(t, text.IncludeHonorific)
	assert.Equal(t, ZIndexDefault, text.ZIndex)
	assert.Equal(t, DefaultStyle(), text.Style)

	r, ok := doc.Rect(text.ID)
	require.True(t, ok)
	assert.Equal(t, Rect{X: DefaultPlacementX, Y: DefaultPlacementY, W: DefaultPlacementWidth, H: DefaultPlacementHeight}, r)

	name := doc.AddComponent(KeyAttendeeName, "Name")
	require.NotNil(t, name.IncludeHonorific)
	assert.True(t, *name.IncludeHonorific)

	img := doc.AddComponent(KeyImage, "Image")
	assert.Empty(t, img.ImageURL)

	assert.True(t, doc.Dirty)
	assert.Len(t, doc.Placements, 3)
	assert.NotEqual(t, text.ID, name.ID)
}

func TestAddComponent_FitsSmallCanvas(t *testing.T) {
	doc := newTestDocument(t, 5, 5)
	canvas := doc.Canvas()

	p := doc.AddComponent(KeyEventName, "Event name")
	r, _ := doc.Rect(p.ID)
	assert.GreaterOrEqual(t, r.X, 0.0)
	assert.GreaterOrEqual(t, r.Y, 0.0)
	assert.LessOrEqual(t, r.X+r.W, canvas.Width+1e-9)
	assert.LessOrEqual(t, r.Y+r.H, canvas.Height+1e-9)
}

func TestUpdateProperty(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	p := doc.AddComponent(KeyEventName, "Event name")
	doc.MarkClean()

	require.NoError(t, doc.UpdateProperty(p.ID, "color", "#ff0000"))
	require.NoError(t, doc.UpdateProperty(p.ID, "fontSize", 22.0))
	require.NoError(t, doc.UpdateProperty(p.ID, "zIndex", 100))
	require.NoError(t, doc.UpdateProperty(p.ID, "x", 40.0))
	require.NoError(t, doc.UpdateProperty(p.ID, "backgroundColor", nil))
	assert.True(t, doc.Dirty)

	got, _ := doc.Placement(p.ID)
	assert.Equal(t, "#ff0000", got.Style.Color)
	assert.Equal(t, 22.0, got.Style.FontSize)
	assert.Equal(t, ZIndexTop, got.ZIndex)
	assert.Equal(t, "", got.Style.BackgroundColor)

	r, _ := doc.Rect(p.ID)
	assert.InDelta(t, 40.0, r.X, 1e-6)
}

func TestUpdateProperty_Errors(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	p := doc.AddComponent(KeyEventName, "Event name")

	assert.ErrorIs(t, doc.UpdateProperty("missing", "color", "#fff"), ErrPlacementNotFound)
	assert.ErrorIs(t, doc.UpdateProperty(p.ID, "opacity", 0.5), ErrUnknownProperty)
	assert.ErrorIs(t, doc.UpdateProperty(p.ID, "fontSize", "large"), ErrInvalidValue)
	assert.ErrorIs(t, doc.UpdateProperty(p.ID, "includeHonorific", "yes"), ErrInvalidValue)
	assert.ErrorIs(t, doc.UpdateProperty(p.ID, "color", 12.0), ErrInvalidValue)
}

func TestDeleteComponent_ClearsSelection(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	a := doc.AddComponent(KeyEventName, "Event name")
	b := doc.AddComponent(KeyQRCode, "QR code")

	require.NoError(t, doc.Select(a.ID))
	require.NoError(t, doc.DeleteComponent(b.ID))
	selected, ok := doc.Selected()
	assert.True(t, ok)
	assert.Equal(t, a.ID, selected)

	require.NoError(t, doc.DeleteComponent(a.ID))
	_, ok = doc.Selected()
	assert.False(t, ok)
	assert.Empty(t, doc.Placements)

	assert.ErrorIs(t, doc.DeleteComponent(a.ID), ErrPlacementNotFound)
}

func TestDuplicate(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	name := doc.AddComponent(KeyAttendeeName, "Name")

	dup, err := doc.Duplicate(name.ID)
	require.NoError(t, err)
	assert.NotEqual(t, name.ID, dup.ID)
	assert.Equal(t, name.Key, dup.Key)

	// The honorific flag is not shared between copies.
	require.NoError(t, doc.UpdateProperty(dup.ID, "includeHonorific", false))
	orig, _ := doc.Placement(name.ID)
	assert.True(t, *orig.IncludeHonorific)
}

func TestOrdered_ByZIndexStable(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	a := doc.AddComponent(KeyEventName, "a")
	b := doc.AddComponent(KeyEventDate, "b")
	c := doc.AddComponent(KeyEventPlace, "c")
	require.NoError(t, doc.SendToBack(c.ID))
	require.NoError(t, doc.BringToFront(a.ID))

	ordered := doc.Ordered()
	ids := []string{ordered[0].ID, ordered[1].ID, ordered[2].ID}
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids)
	// Insertion order is untouched.
	assert.Equal(t, a.ID, doc.Placements[0].ID)
}

func TestSetSize_KeepsRelativeGeometry(t *testing.T) {
	doc := newTestDocument(t, 50, 50)
	p := doc.AddComponent(KeyEventName, "Event name")
	before := doc.Placements[0].Frame

	require.NoError(t, doc.SetSize(LabelSize{WidthMM: 30, HeightMM: 20}, true))
	assert.Equal(t, before, doc.Placements[0].Frame)

	canvas := doc.Canvas()
	r, _ := doc.Rect(p.ID)
	assert.LessOrEqual(t, r.X+r.W, canvas.Width+1e-9)
	assert.LessOrEqual(t, r.Y+r.H, canvas.Height+1e-9)

	assert.ErrorIs(t, doc.SetSize(LabelSize{WidthMM: 0, HeightMM: 20}, true), ErrInvalidLabelSize)
	assert.Equal(t, LabelSize{WidthMM: 30, HeightMM: 20}, doc.Size)
}

func TestRestoreDocument(t *testing.T) {
	include := true
	placements := []Placement{
		{ID: "p1", Key: KeyAttendeeName, Label: "Name", Frame: Frame{X: 0.1, Y: 0.1, W: 0.5, H: 0.2}, IncludeHonorific: &include},
		{Key: KeyQRCode, Label: "QR", Frame: Frame{X: 0.5, Y: 0.5, W: 0.3, H: 0.3}},
	}

	doc, err := RestoreDocument("Saved", LabelSize{WidthMM: 62, HeightMM: 29}, false, placements, DefaultConverter())
	require.NoError(t, err)
	assert.False(t, doc.Dirty)
	assert.Equal(t, "p1", doc.Placements[0].ID)
	assert.NotEmpty(t, doc.Placements[1].ID)
	assert.Equal(t, DefaultStyle(), doc.Placements[1].Style)

	include = false
	assert.True(t, *doc.Placements[0].IncludeHonorific)
}

func TestRename(t *testing.T) {
	doc := newTestDocument(t, 50, 30)

	doc.Rename("Test")
	assert.False(t, doc.Dirty)

	doc.Rename("Badge")
	assert.Equal(t, "Badge", doc.Name)
	assert.True(t, doc.Dirty)
}
