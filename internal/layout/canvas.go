package layout

import (
	"errors"
	"fmt"
	"math"
)

// MinPlacementSize is the smallest width or height a resize can produce, in pixels.
const MinPlacementSize = 20.0

// ErrUnsavedChanges is returned when a destructive operation would discard edits.
var ErrUnsavedChanges = errors.New("document has unsaved changes")

// Point is a pointer position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// State is the interaction state of an Editor: Idle, Dragging or Resizing.
type State interface {
	Name() string
}

// Idle means no pointer interaction is in progress.
type Idle struct{}

// Dragging moves a placement. Offset is the pointer position relative to
// the placement origin when the drag began, so the placement does not
// jump to the pointer.
type Dragging struct {
	PlacementID string
	Offset      Point
}

// Resizing changes a placement's size from the pointer travel since Start.
type Resizing struct {
	PlacementID string
	Start       Point
	StartWidth  float64
	StartHeight float64
}

func (Idle) Name() string     { return "idle" }
func (Dragging) Name() string { return "dragging" }
func (Resizing) Name() string { return "resizing" }

// Editor translates pointer interaction into geometry changes on a Document.
type Editor struct {
	doc   *Document
	state State
}

// NewEditor returns an idle editor for doc.
func NewEditor(doc *Document) *Editor {
	return &Editor{doc: doc, state: Idle{}}
}

// Document returns the edited document.
func (e *Editor) Document() *Document {
	return e.doc
}

// State returns the current interaction state.
func (e *Editor) State() State {
	return e.state
}

// PointerDown starts an interaction. An empty target deselects. With
// handle set the target's resize handle was hit.
func (e *Editor) PointerDown(pt Point, target string, handle bool) error {
	e.state = Idle{}
	if target == "" {
		e.doc.Deselect()
		return nil
	}
	r, ok := e.doc.Rect(target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, target)
	}
	if err := e.doc.Select(target); err != nil {
		return err
	}
	if handle {
		e.state = Resizing{
			PlacementID: target,
			Start:       pt,
			StartWidth:  r.W,
			StartHeight: r.H,
		}
		return nil
	}
	e.state = Dragging{
		PlacementID: target,
		Offset:      Point{X: pt.X - r.X, Y: pt.Y - r.Y},
	}
	return nil
}

// PointerMove applies the pointer position to the active interaction.
func (e *Editor) PointerMove(pt Point) error {
	switch s := e.state.(type) {
	case Dragging:
		return e.drag(s, pt)
	case Resizing:
		return e.resize(s, pt)
	}
	return nil
}

// PointerUp commits the final position and returns to Idle.
func (e *Editor) PointerUp(pt Point) error {
	err := e.PointerMove(pt)
	e.state = Idle{}
	return err
}

// Cancel abandons the current interaction, keeping whatever was committed.
func (e *Editor) Cancel() {
	e.state = Idle{}
}

func (e *Editor) drag(s Dragging, pt Point) error {
	i := e.doc.index(s.PlacementID)
	if i < 0 {
		e.state = Idle{}
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, s.PlacementID)
	}
	canvas := e.doc.Canvas()
	r := e.doc.Placements[i].Frame.Pixels(canvas)
	r.X = clamp(pt.X-s.Offset.X, 0, canvas.Width-r.W)
	r.Y = clamp(pt.Y-s.Offset.Y, 0, canvas.Height-r.H)
	e.doc.setRect(i, r)
	return nil
}

func (e *Editor) resize(s Resizing, pt Point) error {
	i := e.doc.index(s.PlacementID)
	if i < 0 {
		e.state = Idle{}
		return fmt.Errorf("%w: %s", ErrPlacementNotFound, s.PlacementID)
	}
	canvas := e.doc.Canvas()
	r := e.doc.Placements[i].Frame.Pixels(canvas)
	r.W = math.Max(MinPlacementSize, s.StartWidth+pt.X-s.Start.X)
	r.H = math.Max(MinPlacementSize, s.StartHeight+pt.Y-s.Start.Y)
	e.doc.setRect(i, r)
	return nil
}

// LoadTemplate replaces the whole design with a fresh copy of the template
// at index. A dirty document is only replaced when force is set.
func (e *Editor) LoadTemplate(index int, force bool) error {
	templates, err := Templates()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(templates) {
		return fmt.Errorf("%w: template index %d", ErrTemplateNotFound, index)
	}
	if e.doc.Dirty && !force {
		return ErrUnsavedChanges
	}
	e.state = Idle{}
	e.doc.Replace(templates[index].Instantiate())
	return nil
}
