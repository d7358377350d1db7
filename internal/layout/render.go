package layout

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/flosch/pongo2/v6"
)

//go:embed print.html
var printHTML string

var printTemplate = pongo2.Must(pongo2.FromString(printHTML))

type htmlItem struct {
	Kind  string
	CSS   string
	Text  string
	Image string
}

// RenderHTML renders a print page sized exactly to the label. Print CSS
// fixes the page size and hides everything except the label.
func RenderHTML(l PrintLayout) (string, error) {
	items := make([]htmlItem, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, htmlItem{
			Kind:  string(it.Kind),
			CSS:   itemCSS(it),
			Text:  escapeText(it.Text),
			Image: safeURL(it.ImageURL),
		})
	}
	out, err := printTemplate.Execute(pongo2.Context{
		"name":   l.Name,
		"width":  mm(l.WidthMM),
		"height": mm(l.HeightMM),
		"items":  items,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render print page: %w", err)
	}
	return out, nil
}

func itemCSS(it PrintItem) string {
	s := it.Style.normalized()
	decls := []string{
		"left:" + mm(it.XMM),
		"top:" + mm(it.YMM),
		"width:" + mm(it.WidthMM),
		"height:" + mm(it.HeightMM),
		"z-index:" + strconv.Itoa(it.ZIndex),
		"font-family:" + s.FontFamily,
		"font-size:" + mm(it.FontSizeMM),
		"font-weight:" + s.FontWeight,
		"font-style:" + s.FontStyle,
		"text-decoration:" + s.TextDecoration,
		"color:" + s.Color,
		"background-color:" + s.BackgroundColor,
		"text-align:" + s.TextAlign,
		"justify-content:" + flexAlign(s.TextAlign),
		"align-items:" + flexAlign(s.VerticalAlign),
	}
	return strings.Join(decls, ";")
}

func flexAlign(v string) string {
	switch v {
	case "center", "middle":
		return "center"
	case "right", "bottom":
		return "flex-end"
	}
	return "flex-start"
}

func mm(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64) + "mm"
}

// SVG user units are tenths of a millimeter.
const svgUnitsPerMM = 10

// RenderSVG renders the print layout as an SVG document in physical units.
func RenderSVG(l PrintLayout) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	w := units(l.WidthMM)
	h := units(l.HeightMM)
	canvas.Startunit(int(math.Ceil(l.WidthMM)), int(math.Ceil(l.HeightMM)), "mm",
		fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	canvas.Title(l.Name)
	canvas.Rect(0, 0, w, h, "fill:#ffffff;stroke:none")

	for _, it := range l.Items {
		s := it.Style.normalized()
		x, y := units(it.XMM), units(it.YMM)
		iw, ih := units(it.WidthMM), units(it.HeightMM)

		if s.BackgroundColor != "transparent" {
			canvas.Rect(x, y, iw, ih, "fill:"+s.BackgroundColor)
		}
		if src := safeURL(it.ImageURL); src != "" {
			canvas.Image(x, y, iw, ih, html.EscapeString(src))
			continue
		}
		if it.Text == "" {
			continue
		}

		fs := units(it.FontSizeMM)
		tx, anchor := x, "start"
		switch s.TextAlign {
		case "center":
			tx, anchor = x+iw/2, "middle"
		case "right":
			tx, anchor = x+iw, "end"
		}
		ty := y + ih/2 + fs*35/100
		switch s.VerticalAlign {
		case "top":
			ty = y + fs
		case "bottom":
			ty = y + ih - fs/5
		}
		canvas.Text(tx, ty, it.Text, fmt.Sprintf(
			"font-family:%s;font-size:%dpx;font-weight:%s;font-style:%s;text-decoration:%s;fill:%s;text-anchor:%s",
			s.FontFamily, fs, s.FontWeight, s.FontStyle, s.TextDecoration, s.Color, anchor))
	}

	canvas.End()
	return buf.Bytes()
}

func units(v float64) int {
	return int(math.Round(v * svgUnitsPerMM))
}
