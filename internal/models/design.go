// Package models contains the data models for the application.
package models

import (
	"time"

	"github.com/ticketing-console/labeldesigner/internal/layout"
)

// Design is a persisted ticket tag label design.
type Design struct {
	ID         string             `json:"id"`
	EventID    string             `json:"event_id"`
	Name       string             `json:"name"`
	Size       layout.LabelSize   `json:"size"`
	CustomSize bool               `json:"custom_size"`
	Placements []layout.Placement `json:"placements"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SizeSpec selects a label size by preset name or custom dimensions.
type SizeSpec struct {
	Preset   string  `json:"preset,omitempty"`
	WidthMM  float64 `json:"width_mm,omitempty"`
	HeightMM float64 `json:"height_mm,omitempty"`
}

// IsEmpty reports whether neither a preset nor a dimension was given.
func (s SizeSpec) IsEmpty() bool {
	return s.Preset == "" && s.WidthMM == 0 && s.HeightMM == 0
}

// CreateDesignRequest represents the request body for creating a design.
type CreateDesignRequest struct {
	EventID    string             `json:"event_id" binding:"required"`
	Name       string             `json:"name" binding:"required,max=256"`
	Size       SizeSpec           `json:"size"`
	Placements []layout.Placement `json:"placements"`
}

// UpdateDesignRequest represents the request body for updating a design.
type UpdateDesignRequest struct {
	Name       *string            `json:"name,omitempty" binding:"omitempty,max=256"`
	Size       *SizeSpec          `json:"size,omitempty"`
	Placements []layout.Placement `json:"placements,omitempty"`
}

// DesignResponse wraps a single design in the API response.
type DesignResponse struct {
	Data Design `json:"data"`
}

// DesignsResponse wraps multiple designs in the API response.
type DesignsResponse struct {
	Data []Design `json:"data"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
