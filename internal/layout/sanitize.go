package layout

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\(\s*[0-9.%\s,]+\))$`)
	fontPattern  = regexp.MustCompile(`^[a-zA-Z0-9 ,\-]{1,64}$`)
)

// escapeText strips markup from user supplied text and escapes what remains.
func escapeText(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(raw)
}

func safeColor(v, fallback string) string {
	v = strings.TrimSpace(v)
	if colorPattern.MatchString(v) {
		return v
	}
	return fallback
}

func safeFont(v string) string {
	v = strings.TrimSpace(v)
	if fontPattern.MatchString(v) {
		return v
	}
	return DefaultStyle().FontFamily
}

func oneOf(v, fallback string, allowed ...string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}

// safeURL accepts http(s) URLs and inline image data only.
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "\"'<> ") {
		return ""
	}
	if strings.HasPrefix(raw, "data:image/") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// normalized returns a copy of s whose values are safe to embed in CSS.
func (s Style) normalized() Style {
	s = s.withDefaults()
	s.FontFamily = safeFont(s.FontFamily)
	s.FontWeight = oneOf(s.FontWeight, "normal", "normal", "bold", "bolder", "lighter",
		"100", "200", "300", "400", "500", "600", "700", "800", "900")
	s.FontStyle = oneOf(s.FontStyle, "normal", "normal", "italic", "oblique")
	s.TextDecoration = oneOf(s.TextDecoration, "none", "none", "underline", "line-through", "overline")
	s.Color = safeColor(s.Color, DefaultStyle().Color)
	s.BackgroundColor = safeColor(s.BackgroundColor, "transparent")
	s.TextAlign = oneOf(s.TextAlign, "left", "left", "center", "right", "justify")
	s.VerticalAlign = oneOf(s.VerticalAlign, "middle", "top", "middle", "bottom")
	return s
}
