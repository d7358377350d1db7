package models

import (
	"github.com/ticketing-console/labeldesigner/internal/layout"
)

// CreateSessionRequest opens an editor session, either on a stored design
// or on a new blank design.
type CreateSessionRequest struct {
	EventID  string   `json:"event_id" binding:"required"`
	DesignID string   `json:"design_id,omitempty"`
	Name     string   `json:"name" binding:"max=256"`
	Size     SizeSpec `json:"size"`
}

// PlacementView is a placement resolved against the current canvas.
type PlacementView struct {
	layout.Placement
	Rect        layout.Rect `json:"rect"`
	DisplayText string      `json:"display_text"`
	ImageSource string      `json:"image_source,omitempty"`
}

// SessionView is the full state of an editor session.
type SessionView struct {
	ID         string           `json:"id"`
	EventID    string           `json:"event_id"`
	DesignID   string           `json:"design_id,omitempty"`
	Name       string           `json:"name"`
	Size       layout.LabelSize `json:"size"`
	CustomSize bool             `json:"custom_size"`
	Canvas     layout.Canvas    `json:"canvas"`
	Placements []PlacementView  `json:"placements"`
	Selected   string           `json:"selected,omitempty"`
	State      string           `json:"state"`
	Dirty      bool             `json:"dirty"`
	Preview    bool             `json:"preview"`
}

// SessionResponse wraps a session view and any non-fatal warnings.
type SessionResponse struct {
	Data     SessionView `json:"data"`
	Warnings []string    `json:"warnings,omitempty"`
}

// AddComponentRequest adds a palette entry to the canvas.
type AddComponentRequest struct {
	Key   string `json:"key" binding:"required"`
	Label string `json:"label" binding:"required,max=256"`
}

// UpdatePropertyRequest sets one property of a placement.
type UpdatePropertyRequest struct {
	Property string `json:"property" binding:"required"`
	Value    any    `json:"value"`
}

// SelectRequest selects a placement. An empty id deselects.
type SelectRequest struct {
	PlacementID string `json:"placement_id"`
}

// Pointer event kinds.
const (
	PointerDown = "down"
	PointerMove = "move"
	PointerUp   = "up"
)

// PointerRequest is a pointer event on the canvas in canvas pixels.
type PointerRequest struct {
	Kind   string  `json:"kind" binding:"required,oneof=down move up"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target string  `json:"target,omitempty"`
	Handle bool    `json:"handle,omitempty"`
}

// TemplateRequest loads a template, replacing the current design.
type TemplateRequest struct {
	Index *int `json:"index" binding:"required"`
	Force bool `json:"force"`
}

// PreviewRequest toggles sample substitution.
type PreviewRequest struct {
	Enabled bool `json:"enabled"`
}

// SaveSessionRequest optionally renames the design before saving.
type SaveSessionRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,max=256"`
}

// TemplateInfo describes one entry of the template catalog.
type TemplateInfo struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Placements []string `json:"placements"`
}

// UploadResult is the outcome of one file of a multi-file upload.
type UploadResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BootstrapResponse is everything the designer needs on first load.
type BootstrapResponse struct {
	Fields     []layout.VisibleField    `json:"fields"`
	Palette    []layout.PaletteEntry    `json:"palette"`
	Designs    []Design                 `json:"designs"`
	Templates  []TemplateInfo           `json:"templates"`
	LabelSizes []layout.LabelSizePreset `json:"label_sizes"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// UploadsResponse carries the per-file outcome of a multi-file upload.
type UploadsResponse struct {
	Data []UploadResult `json:"data"`
}

// LabelSizesResponse lists the label size presets.
type LabelSizesResponse struct {
	Data []layout.LabelSizePreset `json:"data"`
}

// TemplatesResponse lists the template catalog.
type TemplatesResponse struct {
	Data []TemplateInfo `json:"data"`
}

// PaletteResponse lists the components available for an event.
type PaletteResponse struct {
	Data     []layout.PaletteEntry `json:"data"`
	Warnings []string              `json:"warnings,omitempty"`
}

// PrintResponse wraps a projected print layout.
type PrintResponse struct {
	Data layout.PrintLayout `json:"data"`
}
