package layout

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrTemplateNotFound is returned for an out of range template index.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed templates.yaml
var templatesYAML []byte

// TemplatePlacement is a placement definition whose frame is relative to the canvas.
type TemplatePlacement struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Frame Frame  `json:"frame" yaml:"frame"`
	Style Style  `json:"style" yaml:"style"`
}

// Template is a named preset design.
type Template struct {
	Name       string              `json:"name" yaml:"name"`
	Placements []TemplatePlacement `json:"placements" yaml:"placements"`
}

var (
	templatesOnce sync.Once
	templates     []Template
	templatesErr  error
)

// Templates returns the built-in template catalog.
func Templates() ([]Template, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = parseTemplates(templatesYAML)
	})
	return templates, templatesErr
}

func parseTemplates(data []byte) ([]Template, error) {
	var out []Template
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, t := range out {
		for _, p := range t.Placements {
			f := p.Frame
			if f.X < 0 || f.Y < 0 || f.W <= 0 || f.H <= 0 || f.X+f.W > 1 || f.Y+f.H > 1 {
				return nil, fmt.Errorf("template %q: placement %q frame outside the canvas", t.Name, p.Key)
			}
		}
	}
	return out, nil
}

// Instantiate creates placements for the template, each with a new id.
func (t Template) Instantiate() []Placement {
	out := make([]Placement, 0, len(t.Placements))
	for _, tp := range t.Placements {
		out = append(out, newPlacement(tp.Key, tp.Label, tp.Frame, tp.Style))
	}
	return out
}
