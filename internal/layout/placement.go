package layout

import (
	"math"

	"github.com/google/uuid"
)

// Semantic keys for the built-in palette entries.
const (
	KeyEventName      = "eventName"
	KeyEventDate      = "eventDate"
	KeyEventPlace     = "eventPlace"
	KeyAttendeeName   = "attendeeName"
	KeyFirstName      = "firstName"
	KeyLastName       = "lastName"
	KeyCompany        = "company"
	KeyTicketCategory = "ticketCategory"
	KeyCheckInCode    = "checkInCode"
	KeyQRCode         = "qrCode"
	KeyCustomText     = "customText"
	KeyImage          = "image"
)

// Stacking values. Lower values render underneath higher ones.
const (
	ZIndexBackground = 0
	ZIndexDefault    = 50
	ZIndexTop        = 100
)

// Defaults applied by AddComponent, in canvas pixels.
const (
	DefaultPlacementX      = 10.0
	DefaultPlacementY      = 10.0
	DefaultPlacementWidth  = 120.0
	DefaultPlacementHeight = 30.0

	// CustomTextPlaceholder is the initial text of a free text placement.
	CustomTextPlaceholder = "Custom text"
)

// Rect is a rectangle in canvas pixels relative to the canvas origin.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Frame is a rectangle expressed as fractions of the canvas width and
// height. Placement geometry is stored this way so a design stays valid
// when its label size changes.
type Frame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Pixels resolves the frame against a canvas. A frame flush with the far
// edge stays inside the canvas after rounding.
func (f Frame) Pixels(c Canvas) Rect {
	r := Rect{
		W: roundPx(f.W * c.Width),
		H: roundPx(f.H * c.Height),
	}
	r.X = fitSpan(roundPx(f.X*c.Width), r.W, c.Width)
	r.Y = fitSpan(roundPx(f.Y*c.Height), r.H, c.Height)
	return r
}

// fitSpan pulls pos back so pos+size does not pass extent when the overshoot
// is rounding noise. Real overflow is left alone.
func fitSpan(pos, size, extent float64) float64 {
	if pos <= extent-size && pos+size <= extent {
		return pos
	}
	if pos+size-extent > spanTolerance {
		return pos
	}
	pos = math.Max(0, extent-size)
	for pos > 0 && (pos+size > extent || pos > extent-size) {
		pos = math.Nextafter(pos, 0)
	}
	return pos
}

const spanTolerance = 1e-6

// FrameOf expresses a pixel rectangle as fractions of the canvas.
func FrameOf(r Rect, c Canvas) Frame {
	var f Frame
	if c.Width > 0 {
		f.X = r.X / c.Width
		f.W = r.W / c.Width
	}
	if c.Height > 0 {
		f.Y = r.Y / c.Height
		f.H = r.H / c.Height
	}
	return f
}

// Style is the typography of a placement. An empty BackgroundColor is transparent.
type Style struct {
	FontFamily      string  `json:"fontFamily" yaml:"fontFamily"`
	FontSize        float64 `json:"fontSize" yaml:"fontSize"`
	FontWeight      string  `json:"fontWeight" yaml:"fontWeight"`
	FontStyle       string  `json:"fontStyle" yaml:"fontStyle"`
	TextDecoration  string  `json:"textDecoration" yaml:"textDecoration"`
	Color           string  `json:"color" yaml:"color"`
	BackgroundColor string  `json:"backgroundColor" yaml:"backgroundColor"`
	TextAlign       string  `json:"textAlign" yaml:"textAlign"`
	VerticalAlign   string  `json:"verticalAlign" yaml:"verticalAlign"`
}

// DefaultStyle returns the typography a new placement starts with.
func DefaultStyle() Style {
	return Style{
		FontFamily:     "Arial",
		FontSize:       14,
		FontWeight:     "normal",
		FontStyle:      "normal",
		TextDecoration: "none",
		Color:          "#000000",
		TextAlign:      "left",
		VerticalAlign:  "middle",
	}
}

// withDefaults fills zero fields from DefaultStyle.
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	if s.FontWeight == "" {
		s.FontWeight = d.FontWeight
	}
	if s.FontStyle == "" {
		s.FontStyle = d.FontStyle
	}
	if s.TextDecoration == "" {
		s.TextDecoration = d.TextDecoration
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	if s.TextAlign == "" {
		s.TextAlign = d.TextAlign
	}
	if s.VerticalAlign == "" {
		s.VerticalAlign = d.VerticalAlign
	}
	return s
}

// Placement is one positioned, styled field on the label canvas.
type Placement struct {
	ID               string `json:"id"`
	Key              string `json:"key"`
	Label            string `json:"label"`
	Frame            Frame  `json:"frame"`
	Style            Style  `json:"style"`
	Text             string `json:"text,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	IncludeHonorific *bool  `json:"includeHonorific,omitempty"`
	ZIndex           int    `json:"zIndex"`
}

// Kind classifies how a placement is rendered.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindQR    Kind = "qr"
)

// KindOf returns the render kind for a semantic key.
func KindOf(key string) Kind {
	switch key {
	case KeyImage:
		return KindImage
	case KeyQRCode:
		return KindQR
	default:
		return KindText
	}
}

// IsNameKey reports whether key displays a person's name.
func IsNameKey(key string) bool {
	switch key {
	case KeyAttendeeName, KeyFirstName, KeyLastName:
		return true
	}
	return false
}

// newPlacement builds a placement with a fresh id and key-specific defaults.
func newPlacement(key, label string, frame Frame, style Style) Placement {
	p := Placement{
		ID:     uuid.New().String(),
		Key:    key,
		Label:  label,
		Frame:  frame,
		Style:  style.withDefaults(),
		ZIndex: ZIndexDefault,
	}
	switch {
	case key == KeyCustomText:
		p.Text = CustomTextPlaceholder
	case IsNameKey(key):
		include := true
		p.IncludeHonorific = &include
	}
	return p
}

// clone returns a deep copy of p.
func (p Placement) clone() Placement {
	if p.IncludeHonorific != nil {
		include := *p.IncludeHonorific
		p.IncludeHonorific = &include
	}
	return p
}

// PaletteEntry is a component the user can add to the canvas.
type PaletteEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

var staticPalette = []PaletteEntry{
	{Key: KeyEventName, Label: "Event name", Kind: KindText},
	{Key: KeyEventDate, Label: "Event date", Kind: KindText},
	{Key: KeyEventPlace, Label: "Event place", Kind: KindText},
	{Key: KeyAttendeeName, Label: "Name", Kind: KindText},
	{Key: KeyFirstName, Label: "First name", Kind: KindText},
	{Key: KeyLastName, Label: "Last name", Kind: KindText},
	{Key: KeyCompany, Label: "Company", Kind: KindText},
	{Key: KeyTicketCategory, Label: "Ticket category", Kind: KindText},
	{Key: KeyCheckInCode, Label: "Check-in code", Kind: KindText},
	{Key: KeyQRCode, Label: "QR code", Kind: KindQR},
	{Key: KeyCustomText, Label: "Custom text", Kind: KindText},
	{Key: KeyImage, Label: "Image", Kind: KindImage},
}

// Palette returns the built-in palette followed by one entry per visible field.
func Palette(fields []VisibleField) []PaletteEntry {
	entries := make([]PaletteEntry, 0, len(staticPalette)+len(fields))
	entries = append(entries, staticPalette...)
	keys := NewFieldKeys(fields)
	for _, field := range fields {
		entries = append(entries, PaletteEntry{
			Key:   keys.Key(field),
			Label: field.Label,
			Kind:  KindText,
		})
	}
	return entries
}
