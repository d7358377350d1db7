package layout

import (
	"sort"
	"strings"
	"unicode"
)

// Field types reported by the ticketing API for intake form fields.
const (
	FieldText        = "text"
	FieldTextarea    = "textarea"
	FieldDate        = "date"
	FieldDateTime    = "datetime"
	FieldSelect      = "select"
	FieldRadio       = "radio"
	FieldCheckbox    = "checkbox"
	FieldMultiSelect = "multiselect"
)

// Key prefixes for placements bound to visible fields.
const (
	fieldIDPrefix    = "field:"
	fieldLabelPrefix = "field_label:"
)

// FieldOption is one choice of a select, radio or checkbox field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// VisibleField describes an event-specific intake form field that can be
// placed on a label.
type VisibleField struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Type    string        `json:"type"`
	Options []FieldOption `json:"options,omitempty"`
}

// IsChoice reports whether the field offers a fixed set of options.
func (f VisibleField) IsChoice() bool {
	switch f.Type {
	case FieldSelect, FieldRadio, FieldCheckbox, FieldMultiSelect:
		return true
	}
	return false
}

// FieldKeys maps visible fields to stable placement keys. Fields with an
// id map to "field:<id>". Fields without one fall back to a key derived
// from the sanitized label, which collides when two labels sanitize to
// the same text; Collisions reports those keys.
type FieldKeys struct {
	byKey map[string]VisibleField
	seen  map[string]int
}

// NewFieldKeys indexes fields by their placement key.
func NewFieldKeys(fields []VisibleField) *FieldKeys {
	k := &FieldKeys{
		byKey: make(map[string]VisibleField, len(fields)),
		seen:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		key := k.Key(f)
		k.seen[key]++
		if _, exists := k.byKey[key]; !exists {
			k.byKey[key] = f
		}
	}
	return k
}

// Key returns the placement key for f.
func (k *FieldKeys) Key(f VisibleField) string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return fieldIDPrefix + id
	}
	return fieldLabelPrefix + SanitizeLabel(f.Label)
}

// Lookup returns the field bound to key. The first field wins on collision.
func (k *FieldKeys) Lookup(key string) (VisibleField, bool) {
	if k == nil {
		return VisibleField{}, false
	}
	f, ok := k.byKey[key]
	return f, ok
}

// Collisions lists keys shared by more than one field.
func (k *FieldKeys) Collisions() []string {
	var out []string
	for key, n := range k.seen {
		if n > 1 {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// IsFieldKey reports whether key refers to a visible field.
func IsFieldKey(key string) bool {
	return strings.HasPrefix(key, fieldIDPrefix) || strings.HasPrefix(key, fieldLabelPrefix)
}

// SanitizeLabel lowercases label and collapses every run of characters
// other than letters and digits into a single underscore.
func SanitizeLabel(label string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
