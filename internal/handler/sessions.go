package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/layout"
	"github.com/ticketing-console/labeldesigner/internal/models"
	"github.com/ticketing-console/labeldesigner/internal/session"
)

func newSessionView(s *session.Session, ed *layout.Editor) models.SessionView {
	doc := ed.Document()
	canvas := doc.Canvas()
	samples := s.Samples()

	placements := make([]models.PlacementView, 0, len(doc.Placements))
	for _, p := range doc.Placements {
		placements = append(placements, models.PlacementView{
			Placement:   p,
			Rect:        p.Frame.Pixels(canvas),
			DisplayText: layout.DisplayText(p, doc.Preview, samples),
			ImageSource: layout.ImageSource(p, doc.Preview, samples),
		})
	}
	selected, _ := doc.Selected()

	return models.SessionView{
		ID:         s.ID,
		EventID:    s.EventID,
		DesignID:   s.DesignID(),
		Name:       doc.Name,
		Size:       doc.Size,
		CustomSize: doc.CustomSize,
		Canvas:     canvas,
		Placements: placements,
		Selected:   selected,
		State:      ed.State().Name(),
		Dirty:      doc.Dirty,
		Preview:    doc.Preview,
	}
}

// session resolves the :sid parameter, answering 404 when it is unknown.
func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, ok := h.sessions.Get(c.Param("sid"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "session not found",
		})
		return nil, false
	}
	return s, true
}

// edit runs fn on the session's editor and answers with the resulting view.
func (h *Handler) edit(c *gin.Context, op string, status int, fn func(ed *layout.Editor) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var view models.SessionView
	err := s.Do(func(ed *layout.Editor) error {
		if err := fn(ed); err != nil {
			return err
		}
		view = newSessionView(s, ed)
		return nil
	})
	if err != nil {
		h.respondError(c, op, err)
		return
	}
	c.JSON(status, models.SessionResponse{Data: view})
}

// CreateSession opens an editor on a stored design, or on a new blank
// design when no design ID is given. Visible fields that cannot be loaded
// are reported as a warning.
func (h *Handler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid session request", zap.Error(err))
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()

	var doc *layout.Document
	if req.DesignID != "" {
		design, err := h.loadDesign(ctx, req.DesignID)
		if err != nil {
			h.respondError(c, "open design", err)
			return
		}
		if design.EventID != req.EventID {
			badRequest(c, "design belongs to another event")
			return
		}
		doc, err = layout.RestoreDocument(design.Name, design.Size, design.CustomSize, design.Placements, h.conv)
		if err != nil {
			h.respondError(c, "open design", err)
			return
		}
	} else {
		size, custom, err := resolveSize(req.Size)
		if err != nil {
			h.respondError(c, "open design", err)
			return
		}
		if doc, err = layout.NewDocument(req.Name, size, custom, h.conv); err != nil {
			h.respondError(c, "open design", err)
			return
		}
	}

	var warnings []string
	fields, err := h.visibleFields(ctx, req.EventID)
	if err != nil {
		warnings = append(warnings, "visible fields unavailable: "+err.Error())
	}
	warnings = append(warnings, collisionWarnings(fields)...)

	s := h.sessions.Create(req.EventID, req.DesignID, layout.NewEditor(doc), fields, h.samples)

	var view models.SessionView
	_ = s.Do(func(ed *layout.Editor) error {
		view = newSessionView(s, ed)
		return nil
	})
	c.JSON(http.StatusCreated, models.SessionResponse{Data: view, Warnings: warnings})
}

// GetSession returns the current state of an editor session.
func (h *Handler) GetSession(c *gin.Context) {
	h.edit(c, "retrieve session", http.StatusOK, func(*layout.Editor) error { return nil })
}

// DeleteSession closes an editor session. Unsaved changes are discarded.
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("sid")) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "session not found",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// SetSize changes the label size of the session's design.
func (h *Handler) SetSize(c *gin.Context) {
	var req models.SizeSpec
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	size, custom, err := resolveSize(req)
	if err != nil {
		h.respondError(c, "change label size", err)
		return
	}
	h.edit(c, "change label size", http.StatusOK, func(ed *layout.Editor) error {
		return ed.Document().SetSize(size, custom)
	})
}

// AddComponent places a palette entry on the canvas and selects it.
func (h *Handler) AddComponent(c *gin.Context) {
	var req models.AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	if !inPalette(req.Key, s.Fields()) {
		badRequest(c, "unknown component key "+req.Key)
		return
	}

	h.edit(c, "add component", http.StatusCreated, func(ed *layout.Editor) error {
		p := ed.Document().AddComponent(req.Key, req.Label)
		return ed.Document().Select(p.ID)
	})
}

func inPalette(key string, fields []layout.VisibleField) bool {
	for _, entry := range layout.Palette(fields) {
		if entry.Key == key {
			return true
		}
	}
	return false
}

// UpdateComponent sets one property of a placement, or runs one of the
// placement commands duplicate, bringToFront and sendToBack.
func (h *Handler) UpdateComponent(c *gin.Context) {
	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	pid := c.Param("pid")

	h.edit(c, "update component", http.StatusOK, func(ed *layout.Editor) error {
		doc := ed.Document()
		switch req.Property {
		case "duplicate":
			dup, err := doc.Duplicate(pid)
			if err != nil {
				return err
			}
			return doc.Select(dup.ID)
		case "bringToFront":
			return doc.BringToFront(pid)
		case "sendToBack":
			return doc.SendToBack(pid)
		}
		return doc.UpdateProperty(pid, req.Property, req.Value)
	})
}

// DeleteComponent removes a placement from the canvas.
func (h *Handler) DeleteComponent(c *gin.Context) {
	pid := c.Param("pid")
	h.edit(c, "delete component", http.StatusOK, func(ed *layout.Editor) error {
		return ed.Document().DeleteComponent(pid)
	})
}

// Select selects a placement, or clears the selection for an empty ID.
func (h *Handler) Select(c *gin.Context) {
	var req models.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.edit(c, "select component", http.StatusOK, func(ed *layout.Editor) error {
		if req.PlacementID == "" {
			ed.Document().Deselect()
			return nil
		}
		return ed.Document().Select(req.PlacementID)
	})
}

// Pointer feeds one pointer event to the canvas state machine.
func (h *Handler) Pointer(c *gin.Context) {
	var req models.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	pt := layout.Point{X: req.X, Y: req.Y}

	h.edit(c, "handle pointer", http.StatusOK, func(ed *layout.Editor) error {
		switch req.Kind {
		case models.PointerDown:
			return ed.PointerDown(pt, req.Target, req.Handle)
		case models.PointerMove:
			return ed.PointerMove(pt)
		default:
			return ed.PointerUp(pt)
		}
	})
}

// LoadTemplate replaces the design with a template. Unsaved changes are
// only discarded when the request sets force.
func (h *Handler) LoadTemplate(c *gin.Context) {
	var req models.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.edit(c, "load template", http.StatusOK, func(ed *layout.Editor) error {
		return ed.LoadTemplate(*req.Index, req.Force)
	})
}

// SetPreview toggles sample substitution.
func (h *Handler) SetPreview(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.edit(c, "toggle preview", http.StatusOK, func(ed *layout.Editor) error {
		ed.Document().SetPreview(req.Enabled)
		return nil
	})
}

// Save stores the session's design, creating it on first save. A design
// without a name is rejected before anything is written.
func (h *Handler) Save(c *gin.Context) {
	var req models.SaveSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		saved *models.Design
		view  models.SessionView
		empty bool
	)
	err := s.Do(func(ed *layout.Editor) error {
		doc := ed.Document()
		name := doc.Name
		if req.Name != nil {
			name = *req.Name
		}
		name = strings.TrimSpace(name)
		if name == "" {
			empty = true
			return nil
		}

		// Read under the editor lock so concurrent first saves create one design.
		designID := s.DesignID()

		design := &models.Design{
			ID:         designID,
			EventID:    s.EventID,
			Name:       name,
			Size:       doc.Size,
			CustomSize: doc.CustomSize,
			Placements: doc.Placements,
		}
		var err error
		if designID == "" {
			saved, err = h.repo.Create(ctx, design)
		} else {
			saved, err = h.repo.Update(ctx, design)
		}
		if err != nil {
			return err
		}

		doc.Rename(name)
		doc.MarkClean()
		s.SetDesignID(saved.ID)
		view = newSessionView(s, ed)
		return nil
	})
	if err != nil {
		h.logger.Error("Failed to save design", zap.String("session_id", s.ID), zap.Error(err))
		h.respondError(c, "save design", err)
		return
	}
	if empty {
		badRequest(c, "name is required")
		return
	}

	_ = h.cache.Set(ctx, saved)

	h.logger.Info("Saved design",
		zap.String("session_id", s.ID),
		zap.String("design_id", saved.ID),
	)
	c.JSON(http.StatusOK, models.SessionResponse{Data: view})
}

// PrintSession renders the session's current design for printing.
func (h *Handler) PrintSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	_ = s.Do(func(ed *layout.Editor) error {
		h.writePrint(c, ed.Document(), s.Samples())
		return nil
	})
}
