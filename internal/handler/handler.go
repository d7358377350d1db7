// Package handler provides the HTTP handlers of the label designer: the
// design catalog, editor sessions, printing and uploads.
package handler

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/cache"
	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/database"
	"github.com/ticketing-console/labeldesigner/internal/eventapi"
	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
	"github.com/ticketing-console/labeldesigner/internal/session"
)

// DefaultLabelSize is used when a request names no size.
const DefaultLabelSize = "50x30"

// Handler provides HTTP handlers for label design operations.
type Handler struct {
	repo      database.Repository
	cache     cache.Cache
	api       eventapi.Client
	sessions  *session.Store
	conv      layout.Converter
	samples   layout.Samples
	maxUpload int64
	logger    *zap.Logger
}

// NewHandler creates a new label design handler.
func NewHandler(
	cfg *config.Config,
	repo database.Repository,
	cache cache.Cache,
	api eventapi.Client,
	sessions *session.Store,
	logger *zap.Logger,
) *Handler {
	samples := layout.DefaultSamples()
	if cfg.QRSampleURL != "" {
		samples.QRCodeURL = cfg.QRSampleURL
	}

	return &Handler{
		repo:     repo,
		cache:    cache,
		api:      api,
		sessions: sessions,
		conv: layout.Converter{
			DesignScale:       cfg.DesignScale,
			MaxViewportWidth:  cfg.MaxViewportWidth,
			MaxViewportHeight: cfg.MaxViewportHeight,
		},
		samples:   samples,
		maxUpload: int64(cfg.MaxUploadBytes),
		logger:    logger,
	}
}

// RegisterRoutes registers the handler routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/label-sizes", h.LabelSizes)
	rg.GET("/templates", h.Templates)
	rg.GET("/events/:eventId/palette", h.Palette)
	rg.GET("/events/:eventId/bootstrap", h.Bootstrap)

	rg.POST("/designs", h.CreateDesign)
	rg.GET("/designs", h.ListDesigns)
	rg.GET("/designs/:id", h.GetDesign)
	rg.PUT("/designs/:id", h.UpdateDesign)
	rg.DELETE("/designs/:id", h.DeleteDesign)
	rg.GET("/designs/:id/print", h.PrintDesign)
	rg.GET("/designs/:id/preview.svg", h.PreviewDesign)

	sessions := rg.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:sid", h.GetSession)
	sessions.DELETE("/:sid", h.DeleteSession)
	sessions.PUT("/:sid/size", h.SetSize)
	sessions.POST("/:sid/components", h.AddComponent)
	sessions.PATCH("/:sid/components/:pid", h.UpdateComponent)
	sessions.DELETE("/:sid/components/:pid", h.DeleteComponent)
	sessions.POST("/:sid/components/:pid/image", h.UploadImage)
	sessions.POST("/:sid/select", h.Select)
	sessions.POST("/:sid/pointer", h.Pointer)
	sessions.POST("/:sid/template", h.LoadTemplate)
	sessions.PUT("/:sid/preview", h.SetPreview)
	sessions.POST("/:sid/save", h.Save)
	sessions.GET("/:sid/print", h.PrintSession)

	rg.POST("/uploads", h.Upload)
}

// resolveSize turns a size request into a label size. A preset name wins
// over explicit dimensions; an empty request selects the default preset.
func resolveSize(spec models.SizeSpec) (layout.LabelSize, bool, error) {
	if spec.IsEmpty() {
		size, _ := layout.LookupPreset(DefaultLabelSize)
		return size, false, nil
	}
	if spec.Preset != "" {
		size, ok := layout.LookupPreset(spec.Preset)
		if !ok {
			return layout.LabelSize{}, false, fmt.Errorf("%w: unknown preset %q", layout.ErrInvalidLabelSize, spec.Preset)
		}
		return size, false, nil
	}
	size := layout.LabelSize{WidthMM: spec.WidthMM, HeightMM: spec.HeightMM}
	if err := size.Validate(); err != nil {
		return layout.LabelSize{}, false, err
	}
	return size, true, nil
}

// visibleFields returns the visible fields of an event, cached.
func (h *Handler) visibleFields(ctx context.Context, eventID string) ([]layout.VisibleField, error) {
	fields, found, err := h.cache.VisibleFields(ctx, eventID)
	if err == nil && found {
		return fields, nil
	}

	fields, err = h.api.VisibleFields(ctx, eventID)
	if err != nil {
		h.logger.Error("Failed to load visible fields", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	_ = h.cache.SetVisibleFields(ctx, eventID, fields)
	return fields, nil
}

// loadDesign returns a design by ID, trying the cache first. It returns
// database.ErrNotFound when the design does not exist.
func (h *Handler) loadDesign(ctx context.Context, id string) (*models.Design, error) {
	design, err := h.cache.Get(ctx, id)
	if err == nil && design != nil {
		h.logger.Debug("Returning cached design", zap.String("id", id))
		return design, nil
	}

	design, err = h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if design == nil {
		return nil, database.ErrNotFound
	}

	_ = h.cache.Set(ctx, design)
	return design, nil
}

// listDesigns returns the designs of an event, trying the cache first.
func (h *Handler) listDesigns(ctx context.Context, eventID string) ([]models.Design, error) {
	designs, found, err := h.cache.ListByEvent(ctx, eventID)
	if err == nil && found {
		h.logger.Debug("Returning cached designs", zap.String("event_id", eventID))
		return designs, nil
	}

	designs, err = h.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetForEvent(ctx, eventID, designs)
	return designs, nil
}

// respondError maps domain and upstream errors to HTTP responses.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	var apiErr *eventapi.APIError

	switch {
	case errors.Is(err, layout.ErrInvalidLabelSize),
		errors.Is(err, layout.ErrInvalidValue),
		errors.Is(err, layout.ErrUnknownProperty):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, layout.ErrPlacementNotFound),
		errors.Is(err, layout.ErrTemplateNotFound),
		errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, layout.ErrUnsavedChanges):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "unsaved_changes",
			Message: "the design has unsaved changes; resend with force to discard them",
		})
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: fmt.Sprintf("failed to %s: %s", op, apiErr.Error()),
		})
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to " + op,
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

// writeRendered writes a rendered print body with a content-hash ETag and
// answers conditional requests with 304.
func writeRendered(c *gin.Context, contentType string, body []byte) {
	sum := blake3.Sum256(body)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

// writePrint projects doc onto the physical label and writes it in the
// format named by the "format" query parameter: html (default), svg or json.
func (h *Handler) writePrint(c *gin.Context, doc *layout.Document, samples layout.Samples) {
	l := layout.Project(doc, samples)

	switch format := c.DefaultQuery("format", "html"); format {
	case "html":
		page, err := layout.RenderHTML(l)
		if err != nil {
			h.respondError(c, "render print page", err)
			return
		}
		writeRendered(c, "text/html; charset=utf-8", []byte(page))
	case "svg":
		writeRendered(c, "image/svg+xml", layout.RenderSVG(l))
	case "json":
		c.JSON(http.StatusOK, models.PrintResponse{Data: l})
	default:
		badRequest(c, fmt.Sprintf("unsupported format %q", format))
	}
}
