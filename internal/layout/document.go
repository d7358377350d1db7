package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrPlacementNotFound = errors.New("placement not found")
	ErrUnknownProperty   = errors.New("unknown property")
	ErrInvalidValue      = errors.New("invalid property value")
)

// Document is a label design: a name, a label size and the placements on it.
// Every mutating method sets Dirty.
type Document struct {
	Name       string
	Size       LabelSize
	CustomSize bool
	Placements []Placement
	Dirty      bool
	Preview    bool

	selected string
	conv     Converter
}

// NewDocument creates an empty design for size.
func NewDocument(name string, size LabelSize, custom bool, conv Converter) (*Document, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	return &Document{
		Name:       name,
		Size:       size,
		CustomSize: custom,
		Placements: []Placement{},
		conv:       conv,
	}, nil
}

// RestoreDocument rebuilds a clean document from persisted placements.
func RestoreDocument(name string, size LabelSize, custom bool, placements []Placement, conv Converter) (*Document, error) {
	d, err := NewDocument(name, size, custom, conv)
	if err != nil {
		return nil, err
	}
	for _, p := range placements {
		p = p.clone()
		p.Style = p.Style.withDefaults()
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		d.Placements = append(d.Placements, p)
	}
	return d, nil
}

// Converter returns the unit converter used by the document.
func (d *Document) Converter() Converter {
	return d.conv
}

// Canvas returns the current canvas size in pixels.
func (d *Document) Canvas() Canvas {
	return d.conv.Canvas(d.Size)
}

// SetSize changes the label size. Placements keep their relative geometry.
func (d *Document) SetSize(size LabelSize, custom bool) error {
	if err := size.Validate(); err != nil {
		return err
	}
	d.Size = size
	d.CustomSize = custom
	d.Dirty = true
	return nil
}

// Rename changes the design name.
func (d *Document) Rename(name string) {
	if d.Name == name {
		return
	}
	d.Name = name
	d.Dirty = true
}

// SetPreview toggles sample substitution. It does not change the design.
func (d *Document) SetPreview(enabled bool) {
	d.Preview = enabled
}

// MarkClean clears the dirty flag after a successful save.
func (d *Document) MarkClean() {
	d.Dirty = false
}

// Selected returns the selected placement id, if any.
func (d *Document) Selected() (string, bool) {
	return d.selected, d.selected != ""
}

// Select makes id the only selected placement.
func (d *Document) Select(id string) error {
	if d.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, id)
	}
	d.selected = id
	return nil
}

// Deselect clears the selection.
func (d *Document) Deselect() {
	d.selected = ""
}

func (d *Document) index(id string) int {
	for i := range d.Placements {
		if d.Placements[i].ID == id {
			return i
		}
	}
	return -1
}

// Placement returns the placement with the given id.
func (d *Document) Placement(id string) (Placement, bool) {
	i := d.index(id)
	if i < 0 {
		return Placement{}, false
	}
	return d.Placements[i], true
}

// Rect returns the pixel geometry of a placement on the current canvas.
func (d *Document) Rect(id string) (Rect, bool) {
	p, ok := d.Placement(id)
	if !ok {
		return Rect{}, false
	}
	return p.Frame.Pixels(d.Canvas()), true
}

// setRect stores pixel geometry for the placement at index i.
func (d *Document) setRect(i int, r Rect) {
	d.Placements[i].Frame = FrameOf(r, d.Canvas())
	d.Dirty = true
}

// AddComponent appends a placement for key with default geometry and typography.
func (d *Document) AddComponent(key, label string) Placement {
	canvas := d.Canvas()
	r := Rect{
		X: DefaultPlacementX,
		Y: DefaultPlacementY,
		W: math.Min(DefaultPlacementWidth, canvas.Width),
		H: math.Min(DefaultPlacementHeight, canvas.Height),
	}
	if KindOf(key) != KindText {
		side := math.Min(math.Min(canvas.Width, canvas.Height)/2, DefaultPlacementWidth)
		r.W, r.H = side, side
	}
	r.X = clamp(r.X, 0, canvas.Width-r.W)
	r.Y = clamp(r.Y, 0, canvas.Height-r.H)

	p := newPlacement(key, label, FrameOf(r, canvas), DefaultStyle())
	d.Placements = append(d.Placements, p)
	d.Dirty = true
	return p
}

// DeleteComponent removes a placement and clears the selection if it was selected.
func (d *Document) DeleteComponent(id string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, id)
	}
	d.Placements = append(d.Placements[:i], d.Placements[i+1:]...)
	if d.selected == id {
		d.selected = ""
	}
	d.Dirty = true
	return nil
}

// Duplicate copies a placement under a new id, offset by the default margin.
func (d *Document) Duplicate(id string) (Placement, error) {
	i := d.index(id)
	if i < 0 {
		return Placement{}, fmt.Errorf("%w: %s", ErrPlacementNotFound, id)
	}
	canvas := d.Canvas()
	dup := d.Placements[i].clone()
	dup.ID = uuid.New().String()
	r := dup.Frame.Pixels(canvas)
	r.X = clamp(r.X+DefaultPlacementX, 0, canvas.Width-r.W)
	r.Y = clamp(r.Y+DefaultPlacementY, 0, canvas.Height-r.H)
	dup.Frame = FrameOf(r, canvas)
	d.Placements = append(d.Placements, dup)
	d.Dirty = true
	return dup, nil
}

// BringToFront pins a placement above everything else.
func (d *Document) BringToFront(id string) error {
	return d.UpdateProperty(id, "zIndex", ZIndexTop)
}

// SendToBack pins a placement underneath everything else.
func (d *Document) SendToBack(id string) error {
	return d.UpdateProperty(id, "zIndex", ZIndexBackground)
}

// Replace swaps every placement for ps. Used by template loading.
func (d *Document) Replace(ps []Placement) {
	d.Placements = ps
	d.selected = ""
	d.Dirty = true
}

// Ordered returns the placements sorted by z-index, keeping insertion order for ties.
func (d *Document) Ordered() []Placement {
	out := make([]Placement, len(d.Placements))
	copy(out, d.Placements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// UpdateProperty sets a single property of a placement. Values are
// coerced to the property's type; geometry is given in canvas pixels and
// is not clamped.
func (d *Document) UpdateProperty(id, property string, value any) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, id)
	}
	p := &d.Placements[i]

	switch property {
	case "x", "y", "width", "height":
		v, err := asFloat(property, value)
		if err != nil {
			return err
		}
		r := p.Frame.Pixels(d.Canvas())
		switch property {
		case "x":
			r.X = v
		case "y":
			r.Y = v
		case "width":
			r.W = v
		case "height":
			r.H = v
		}
		d.setRect(i, r)
		return nil
	case "fontSize":
		v, err := asFloat(property, value)
		if err != nil {
			return err
		}
		p.Style.FontSize = v
	case "zIndex":
		v, err := asFloat(property, value)
		if err != nil {
			return err
		}
		p.ZIndex = int(v)
	case "includeHonorific":
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects a boolean", ErrInvalidValue, property)
		}
		p.IncludeHonorific = &v
	default:
		target := stringProperty(p, property)
		if target == nil {
			return fmt.Errorf("%w: %s", ErrUnknownProperty, property)
		}
		v, ok := value.(string)
		if !ok {
			if value != nil || property != "backgroundColor" {
				return fmt.Errorf("%w: %s expects a string", ErrInvalidValue, property)
			}
		}
		*target = v
	}
	d.Dirty = true
	return nil
}

func stringProperty(p *Placement, property string) *string {
	switch property {
	case "label":
		return &p.Label
	case "text":
		return &p.Text
	case "imageUrl":
		return &p.ImageURL
	case "fontFamily":
		return &p.Style.FontFamily
	case "fontWeight":
		return &p.Style.FontWeight
	case "fontStyle":
		return &p.Style.FontStyle
	case "textDecoration":
		return &p.Style.TextDecoration
	case "color":
		return &p.Style.Color
	case "backgroundColor":
		return &p.Style.BackgroundColor
	case "textAlign":
		return &p.Style.TextAlign
	case "verticalAlign":
		return &p.Style.VerticalAlign
	}
	return nil
}

func asFloat(property string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s expects a number", ErrInvalidValue, property)
}

// clamp bounds v to [lo, hi]. When hi < lo the lower bound wins.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
