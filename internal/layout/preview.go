package layout

import (
	"strings"
)

// maxChoiceSamples is how many option labels a multi-choice field shows in preview.
const maxChoiceSamples = 2

// Samples holds the values substituted for placement labels in preview mode.
type Samples struct {
	EventName      string
	EventDate      string
	EventPlace     string
	FirstName      string
	LastName       string
	Honorific      string
	Company        string
	TicketCategory string
	CheckInCode    string
	QRCodeURL      string
	SampleDate     string

	fields *FieldKeys
}

// DefaultSamples returns the static sample values.
func DefaultSamples() Samples {
	return Samples{
		EventName:      "Annual Tech Conference 2026",
		EventDate:      "2026-11-14 09:00",
		EventPlace:     "Main Hall, Convention Center",
		FirstName:      "Alex",
		LastName:       "Morgan",
		Honorific:      "Mx.",
		Company:        "Example Corp",
		TicketCategory: "VIP",
		CheckInCode:    "CHK-7F3A9B",
		QRCodeURL:      "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=CHK-7F3A9B",
		SampleDate:     "2026-01-31",
	}
}

// WithFields returns a copy of s that also resolves visible field keys.
func (s Samples) WithFields(fields []VisibleField) Samples {
	s.fields = NewFieldKeys(fields)
	return s
}

// DisplayText returns the text shown for p. Outside preview it is the
// placement label (or the literal text of a free text placement); in
// preview it is a sample value for the placement's key.
func DisplayText(p Placement, preview bool, s Samples) string {
	if p.Key == KeyCustomText {
		return p.Text
	}
	if !preview {
		return p.Label
	}
	switch p.Key {
	case KeyEventName:
		return s.EventName
	case KeyEventDate:
		return s.EventDate
	case KeyEventPlace:
		return s.EventPlace
	case KeyAttendeeName:
		return withHonorific(p, s, s.FirstName+" "+s.LastName)
	case KeyFirstName:
		return withHonorific(p, s, s.FirstName)
	case KeyLastName:
		return withHonorific(p, s, s.LastName)
	case KeyCompany:
		return s.Company
	case KeyTicketCategory:
		return s.TicketCategory
	case KeyCheckInCode:
		return s.CheckInCode
	case KeyImage, KeyQRCode:
		return ""
	}
	if f, ok := s.fields.Lookup(p.Key); ok {
		return fieldSample(f, s)
	}
	return p.Label
}

func withHonorific(p Placement, s Samples, name string) string {
	if p.IncludeHonorific != nil && *p.IncludeHonorific && s.Honorific != "" {
		return s.Honorific + " " + name
	}
	return name
}

func fieldSample(f VisibleField, s Samples) string {
	switch {
	case f.Type == FieldDate || f.Type == FieldDateTime:
		return s.SampleDate
	case f.IsChoice():
		if len(f.Options) == 0 {
			return f.Label
		}
		n := 1
		if f.Type == FieldCheckbox || f.Type == FieldMultiSelect {
			n = maxChoiceSamples
		}
		if n > len(f.Options) {
			n = len(f.Options)
		}
		labels := make([]string, 0, n)
		for _, o := range f.Options[:n] {
			labels = append(labels, o.Label)
		}
		return strings.Join(labels, ", ")
	}
	return f.Label
}

// ImageSource returns the image URL rendered for p, or "" for a blank box.
func ImageSource(p Placement, preview bool, s Samples) string {
	switch KindOf(p.Key) {
	case KindImage:
		return p.ImageURL
	case KindQR:
		if preview {
			return s.QRCodeURL
		}
	}
	return ""
}
