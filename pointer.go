package autograph

// Point is a location on the drawing surface, expressed in surface pixels.
type Point struct {
	X, Y float64
}

// Source identifies the device which generated a pointer event.
type Source uint8

const (
	Mouse Source = iota
	Touch
)

// PointerEvent is the device independent view of a pointer or touch event.
// Every adapter normalizes its own coordinates to a surface-local Point,
// so the drawing logic never needs to know where an event is coming from.
type PointerEvent interface {
	// Source returns the device type of the event.
	Source() Source
	// Locate returns the surface-local coordinate of the event.
	// It reports false if the event doesn't carry any usable position.
	Locate() (Point, bool)
	// PreventDefault asks the host to suppress its default handling (scroll, zoom) of the event.
	PreventDefault()
}

// MouseEvent adapts a mouse event whose offset is already relative to the surface.
type MouseEvent struct {
	Offset Point
}

var (
	_ PointerEvent = MouseEvent{}
	_ PointerEvent = (*TouchEvent)(nil)
)

// Source implements the PointerEvent interface.
func (MouseEvent) Source() Source { return Mouse }

// Locate implements the PointerEvent interface.
func (e MouseEvent) Locate() (Point, bool) { return e.Offset, true }

// PreventDefault is a no-op, mouse moves don't scroll the page.
func (MouseEvent) PreventDefault() {}

// TouchEvent adapts a touch event. Contact points are expressed in client (window)
// coordinates and are translated by the on-screen origin of the surface.
type TouchEvent struct {
	// Touches holds the contacts currently touching the screen.
	Touches []Point
	// Changed holds the contacts which changed with this event.
	Changed []Point
	// Origin is the top-left corner of the surface bounding rectangle, in client coordinates.
	Origin Point

	prevented bool
}

// Source implements the PointerEvent interface.
func (*TouchEvent) Source() Source { return Touch }

// Locate returns the position of the first active contact relative to the surface.
// When the contact has just been lifted the first changed contact is used instead.
func (e *TouchEvent) Locate() (Point, bool) {
	var c Point
	switch {
	case len(e.Touches) > 0:
		c = e.Touches[0]
	case len(e.Changed) > 0:
		c = e.Changed[0]
	default:
		return Point{}, false
	}
	return Point{X: c.X - e.Origin.X, Y: c.Y - e.Origin.Y}, true
}

// PreventDefault implements the PointerEvent interface.
func (e *TouchEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether the default gesture handling has been suppressed.
func (e *TouchEvent) DefaultPrevented() bool { return e.prevented }
