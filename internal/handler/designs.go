package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/database"
	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
)

// CreateDesign handles the creation of a new label design.
// @Summary Create design
// @Description Store a new ticket tag label design
// @Tags designs
// @Accept json
// @Produce json
// @Param design body models.CreateDesignRequest true "Design data"
// @Success 201 {object} models.DesignResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/designs [post]
func (h *Handler) CreateDesign(c *gin.Context) {
	var req models.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid create request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "name is required")
		return
	}

	size, custom, err := resolveSize(req.Size)
	if err != nil {
		h.respondError(c, "create design", err)
		return
	}
	doc, err := layout.RestoreDocument(req.Name, size, custom, req.Placements, h.conv)
	if err != nil {
		h.respondError(c, "create design", err)
		return
	}

	ctx := c.Request.Context()
	design, err := h.repo.Create(ctx, &models.Design{
		EventID:    req.EventID,
		Name:       doc.Name,
		Size:       doc.Size,
		CustomSize: doc.CustomSize,
		Placements: doc.Placements,
	})
	if err != nil {
		h.logger.Error("Failed to create design", zap.Error(err))
		h.respondError(c, "create design", err)
		return
	}

	_ = h.cache.Set(ctx, design)

	c.JSON(http.StatusCreated, models.DesignResponse{Data: *design})
}

// ListDesigns handles listing the designs of an event.
// @Summary List designs
// @Description Retrieve the label designs of an event, or all designs
// @Tags designs
// @Produce json
// @Param event_id query string false "Event ID"
// @Success 200 {object} models.DesignsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/designs [get]
func (h *Handler) ListDesigns(c *gin.Context) {
	designs, err := h.listDesigns(c.Request.Context(), c.Query("event_id"))
	if err != nil {
		h.logger.Error("Failed to list designs", zap.Error(err))
		h.respondError(c, "retrieve designs", err)
		return
	}
	c.JSON(http.StatusOK, models.DesignsResponse{Data: designs})
}

// GetDesign handles retrieving a single design by ID.
// @Summary Get design by ID
// @Tags designs
// @Produce json
// @Param id path string true "Design ID"
// @Success 200 {object} models.DesignResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/designs/{id} [get]
func (h *Handler) GetDesign(c *gin.Context) {
	design, err := h.loadDesign(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "retrieve design", err)
		return
	}
	c.JSON(http.StatusOK, models.DesignResponse{Data: *design})
}

// UpdateDesign handles replacing parts of a stored design.
// @Summary Update design
// @Tags designs
// @Accept json
// @Produce json
// @Param id path string true "Design ID"
// @Param design body models.UpdateDesignRequest true "Updated design data"
// @Success 200 {object} models.DesignResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/designs/{id} [put]
func (h *Handler) UpdateDesign(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid update request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		badRequest(c, "name must not be empty")
		return
	}

	var (
		size   layout.LabelSize
		custom bool
	)
	if req.Size != nil {
		var err error
		if size, custom, err = resolveSize(*req.Size); err != nil {
			h.respondError(c, "update design", err)
			return
		}
	}

	ctx := c.Request.Context()
	design, err := h.repo.GetByID(ctx, id)
	if err == nil && design == nil {
		err = database.ErrNotFound
	}
	if err != nil {
		h.respondError(c, "update design", err)
		return
	}

	if req.Name != nil {
		design.Name = *req.Name
	}
	if req.Size != nil {
		design.Size, design.CustomSize = size, custom
	}
	if req.Placements != nil {
		design.Placements = req.Placements
	}
	doc, err := layout.RestoreDocument(design.Name, design.Size, design.CustomSize, design.Placements, h.conv)
	if err != nil {
		h.respondError(c, "update design", err)
		return
	}
	design.Placements = doc.Placements

	design, err = h.repo.Update(ctx, design)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			h.logger.Error("Failed to update design", zap.String("id", id), zap.Error(err))
		}
		h.respondError(c, "update design", err)
		return
	}

	_ = h.cache.Set(ctx, design)

	c.JSON(http.StatusOK, models.DesignResponse{Data: *design})
}

// DeleteDesign handles deleting a design.
// @Summary Delete design
// @Tags designs
// @Param id path string true "Design ID"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/designs/{id} [delete]
func (h *Handler) DeleteDesign(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	design, err := h.repo.GetByID(ctx, id)
	if err == nil && design == nil {
		err = database.ErrNotFound
	}
	if err != nil {
		h.respondError(c, "delete design", err)
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			h.logger.Error("Failed to delete design", zap.String("id", id), zap.Error(err))
		}
		h.respondError(c, "delete design", err)
		return
	}

	_ = h.cache.Delete(ctx, id, design.EventID)

	c.Status(http.StatusNoContent)
}

// PrintDesign renders a stored design as a print page. With preview=true
// the placements show sample values.
func (h *Handler) PrintDesign(c *gin.Context) {
	doc, samples, ok := h.printableDesign(c)
	if !ok {
		return
	}
	h.writePrint(c, doc, samples)
}

// PreviewDesign renders a stored design as an SVG in physical units.
func (h *Handler) PreviewDesign(c *gin.Context) {
	doc, samples, ok := h.printableDesign(c)
	if !ok {
		return
	}
	writeRendered(c, "image/svg+xml", layout.RenderSVG(layout.Project(doc, samples)))
}

func (h *Handler) printableDesign(c *gin.Context) (*layout.Document, layout.Samples, bool) {
	ctx := c.Request.Context()
	design, err := h.loadDesign(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, "retrieve design", err)
		return nil, layout.Samples{}, false
	}

	doc, err := layout.RestoreDocument(design.Name, design.Size, design.CustomSize, design.Placements, h.conv)
	if err != nil {
		h.respondError(c, "render design", err)
		return nil, layout.Samples{}, false
	}
	doc.SetPreview(c.Query("preview") == "true")

	samples := h.samples
	if doc.Preview && design.EventID != "" {
		// Field placements fall back to their labels when the fields are unavailable.
		if fields, err := h.visibleFields(ctx, design.EventID); err == nil {
			samples = samples.WithFields(fields)
		}
	}
	return doc, samples, true
}
