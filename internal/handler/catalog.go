package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

// LabelSizes lists the label size presets.
func (h *Handler) LabelSizes(c *gin.Context) {
	c.JSON(http.StatusOK, models.LabelSizesResponse{Data: layout.LabelSizePresets})
}

// Templates lists the built-in templates.
func (h *Handler) Templates(c *gin.Context) {
	infos, err := templateInfos()
	if err != nil {
		h.respondError(c, "load templates", err)
		return
	}
	c.JSON(http.StatusOK, models.TemplatesResponse{Data: infos})
}

func templateInfos() ([]models.TemplateInfo, error) {
	templates, err := layout.Templates()
	if err != nil {
		return nil, err
	}
	infos := make([]models.TemplateInfo, 0, len(templates))
	for i, t := range templates {
		keys := make([]string, 0, len(t.Placements))
		for _, p := range t.Placements {
			keys = append(keys, p.Key)
		}
		infos = append(infos, models.TemplateInfo{Index: i, Name: t.Name, Placements: keys})
	}
	return infos, nil
}

// Palette lists the components that can be placed on a label of an event.
// When the visible fields cannot be loaded the static palette is returned
// with a warning.
func (h *Handler) Palette(c *gin.Context) {
	eventID := c.Param("eventId")

	var warnings []string
	fields, err := h.visibleFields(c.Request.Context(), eventID)
	if err != nil {
		warnings = append(warnings, "visible fields unavailable: "+err.Error())
	}
	warnings = append(warnings, collisionWarnings(fields)...)

	c.JSON(http.StatusOK, models.PaletteResponse{
		Data:     layout.Palette(fields),
		Warnings: warnings,
	})
}

func collisionWarnings(fields []layout.VisibleField) []string {
	var out []string
	for _, key := range layout.NewFieldKeys(fields).Collisions() {
		out = append(out, "several fields share the key "+key+"; only the first is used")
	}
	return out
}

// Bootstrap loads everything the designer needs for an event at once.
// The visible fields, stored designs and template catalog are fetched
// concurrently; each failure becomes a warning and never fails the request.
func (h *Handler) Bootstrap(c *gin.Context) {
	eventID := c.Param("eventId")
	ctx := c.Request.Context()

	resp := models.BootstrapResponse{
		Fields:     []layout.VisibleField{},
		Designs:    []models.Design{},
		Templates:  []models.TemplateInfo{},
		LabelSizes: layout.LabelSizePresets,
	}

	var (
		mu       sync.Mutex
		warnings []string
	)
	warn := func(what string, err error) {
		h.logger.Warn("Bootstrap step failed",
			zap.String("event_id", eventID),
			zap.String("step", what),
			zap.Error(err),
		)
		mu.Lock()
		warnings = append(warnings, what+" unavailable: "+err.Error())
		mu.Unlock()
	}

	// Tasks never return an error so that every one of them runs to completion.
	var g errgroup.Group
	g.Go(func() error {
		fields, err := h.visibleFields(ctx, eventID)
		if err != nil {
			warn("visible fields", err)
			return nil
		}
		resp.Fields = fields
		return nil
	})
	g.Go(func() error {
		designs, err := h.listDesigns(ctx, eventID)
		if err != nil {
			warn("designs", err)
			return nil
		}
		resp.Designs = designs
		return nil
	})
	g.Go(func() error {
		infos, err := templateInfos()
		if err != nil {
			warn("templates", err)
			return nil
		}
		resp.Templates = infos
		return nil
	})
	_ = g.Wait()

	resp.Palette = layout.Palette(resp.Fields)
	resp.Warnings = append(warnings, collisionWarnings(resp.Fields)...)

	c.JSON(http.StatusOK, resp)
}
