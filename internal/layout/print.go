package layout

// PrintItem is a placement re-expressed in millimeters on the physical label.
type PrintItem struct {
	ID         string  `json:"id"`
	Key        string  `json:"key"`
	Kind       Kind    `json:"kind"`
	XMM        float64 `json:"x_mm"`
	YMM        float64 `json:"y_mm"`
	WidthMM    float64 `json:"width_mm"`
	HeightMM   float64 `json:"height_mm"`
	FontSizeMM float64 `json:"font_size_mm"`
	Text       string  `json:"text,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	Style      Style   `json:"style"`
	ZIndex     int     `json:"z_index"`
}

// PrintLayout is a design projected onto a print surface of the label's size.
type PrintLayout struct {
	Name     string      `json:"name"`
	WidthMM  float64     `json:"width_mm"`
	HeightMM float64     `json:"height_mm"`
	Preview  bool        `json:"preview"`
	Items    []PrintItem `json:"items"`
}

// Project converts every placement of doc from canvas pixels back to
// millimeters using the inverse of the converter's composed scale, so the
// result does not depend on the on-screen fit. Items are ordered by
// z-index. Sample substitution follows doc.Preview.
func Project(doc *Document, s Samples) PrintLayout {
	conv := doc.Converter()
	size := doc.Size
	canvas := doc.Canvas()

	out := PrintLayout{
		Name:     doc.Name,
		WidthMM:  size.WidthMM,
		HeightMM: size.HeightMM,
		Preview:  doc.Preview,
		Items:    make([]PrintItem, 0, len(doc.Placements)),
	}
	for _, p := range doc.Ordered() {
		r := p.Frame.Pixels(canvas)
		item := PrintItem{
			ID:         p.ID,
			Key:        p.Key,
			Kind:       KindOf(p.Key),
			XMM:        conv.PxToMM(size, r.X),
			YMM:        conv.PxToMM(size, r.Y),
			WidthMM:    conv.PxToMM(size, r.W),
			HeightMM:   conv.PxToMM(size, r.H),
			FontSizeMM: conv.PxToMM(size, p.Style.FontSize),
			Style:      p.Style,
			ZIndex:     p.ZIndex,
		}
		switch item.Kind {
		case KindText:
			item.Text = DisplayText(p, doc.Preview, s)
		default:
			item.ImageURL = ImageSource(p, doc.Preview, s)
			if item.ImageURL == "" && item.Kind == KindQR {
				item.Text = p.Label
			}
		}
		out.Items = append(out.Items, item)
	}
	return out
}
