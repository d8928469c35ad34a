package window

import (
	"time"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// Visibility of a window
type Visibility string

const (
	VisibilityNormal    Visibility = "normal"
	VisibilityMinimized Visibility = "minimized"
)

// Position is the top-left corner in screen pixels
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size in pixels
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Geometry is a window's stored placement. It is kept while maximized.
type Geometry struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// Window is one open application instance
type Window struct {
	ID         id.WindowID `json:"id"`
	AppID      string      `json:"app_id"`
	Title      string      `json:"title"`
	StackOrder uint64      `json:"stack_order"`
	Geometry   Geometry    `json:"geometry"`
	Visibility Visibility  `json:"visibility"`
	Maximized  bool        `json:"maximized"`
	Payload    string      `json:"payload,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Minimized reports whether the window is hidden from the desktop
func (w Window) Minimized() bool {
	return w.Visibility == VisibilityMinimized
}

// Stats summarizes the registry
type Stats struct {
	Total     int          `json:"total"`
	Minimized int          `json:"minimized"`
	Maximized int          `json:"maximized"`
	FocusedID *id.WindowID `json:"focused_id,omitempty"`
}

// Options control placement of new windows
type Options struct {
	Origin        Position // where the first window opens
	Step          int      // cascade offset per open window
	Cascade       int      // offsets wrap after this many windows
	DefaultSize   Size
	TitleBarReach int // pixels of title bar that must stay on screen
}

// DefaultOptions returns the stock placement policy
func DefaultOptions() Options {
	return Options{
		Origin:        Position{X: 48, Y: 48},
		Step:          28,
		Cascade:       10,
		DefaultSize:   Size{W: 640, H: 420},
		TitleBarReach: 96,
	}
}
