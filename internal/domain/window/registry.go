package window

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// Registry owns the open windows of one session
type Registry struct {
	mu           sync.Mutex
	windows      atomic.Pointer[[]Window]
	stackCounter uint64 // Protected by mu
	opts         Options
	logger       *zap.Logger
	metrics      *monitoring.Metrics
	observers    []func(op string, w Window) // Protected by mu
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.Cascade <= 0 {
		opts.Cascade = defaults.Cascade
	}
	if opts.DefaultSize.W <= 0 || opts.DefaultSize.H <= 0 {
		opts.DefaultSize = defaults.DefaultSize
	}

	r := &Registry{opts: opts, logger: logger.Named("windows")}
	empty := []Window{}
	r.windows.Store(&empty)
	return r
}

// WithMetrics adds metrics tracking to the registry
func (r *Registry) WithMetrics(metrics *monitoring.Metrics) *Registry {
	r.metrics = metrics
	return r
}

// OnChange registers a callback invoked after every applied operation.
// For "close" the window is the last state before removal. Callbacks run in
// commit order while the registry is locked, so they must not call back
// into it for writes.
func (r *Registry) OnChange(fn func(op string, w Window)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Launch opens a window on top of all others. An empty title falls back
// to the app id.
func (r *Registry) Launch(appID, payload, title string) Window {
	if title == "" {
		title = appID
	}

	r.mu.Lock()
	current := *r.windows.Load()
	r.stackCounter++

	w := Window{
		ID:         id.NewWindowID(),
		AppID:      appID,
		Title:      title,
		StackOrder: r.stackCounter,
		Geometry:   r.cascade(len(current)),
		Visibility: VisibilityNormal,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}

	next := make([]Window, len(current), len(current)+1)
	copy(next, current)
	next = append(next, w)
	r.windows.Store(&next)
	r.committed("launch", w, len(next))
	r.mu.Unlock()

	return w
}

// cascade offsets a new window by the number already open
func (r *Registry) cascade(open int) Geometry {
	offset := (open % r.opts.Cascade) * r.opts.Step
	return Geometry{
		Position: Position{X: r.opts.Origin.X + offset, Y: r.opts.Origin.Y + offset},
		Size:     r.opts.DefaultSize,
	}
}

// Focus brings a window to the front
func (r *Registry) Focus(wid id.WindowID) (Window, bool) {
	return r.update("focus", wid, func(w *Window) {
		r.stackCounter++
		w.StackOrder = r.stackCounter
	})
}

// Minimize hides a window. Stacking and maximized are kept.
func (r *Registry) Minimize(wid id.WindowID) (Window, bool) {
	return r.update("minimize", wid, func(w *Window) {
		w.Visibility = VisibilityMinimized
	})
}

// Restore shows a minimized window again
func (r *Registry) Restore(wid id.WindowID) (Window, bool) {
	return r.update("restore", wid, func(w *Window) {
		w.Visibility = VisibilityNormal
	})
}

// ToggleMaximize flips the maximized flag. Geometry is left untouched so
// un-maximizing restores the prior placement.
func (r *Registry) ToggleMaximize(wid id.WindowID) (Window, bool) {
	return r.update("maximize", wid, func(w *Window) {
		w.Maximized = !w.Maximized
	})
}

// UpdateTitle renames a window
func (r *Registry) UpdateTitle(wid id.WindowID, title string) (Window, bool) {
	return r.update("title", wid, func(w *Window) {
		w.Title = title
	})
}

// SetGeometry stores a new placement. Size is kept as given; position is
// floored so the title bar stays reachable.
func (r *Registry) SetGeometry(wid id.WindowID, g Geometry) (Window, bool) {
	return r.update("geometry", wid, func(w *Window) {
		w.Geometry = Geometry{Position: r.floor(g), Size: g.Size}
	})
}

func (r *Registry) floor(g Geometry) Position {
	minX := 0
	if reach := r.opts.TitleBarReach; g.Size.W > reach {
		minX = -(g.Size.W - reach)
	}
	return Position{X: max(g.Position.X, minX), Y: max(g.Position.Y, 0)}
}

// Close removes a window. Closing an unknown id is a no-op.
func (r *Registry) Close(wid id.WindowID) (Window, bool) {
	r.mu.Lock()
	current := *r.windows.Load()
	idx := indexOf(current, wid)
	if idx < 0 {
		r.mu.Unlock()
		return Window{}, false
	}

	closed := current[idx]
	next := slices.Delete(slices.Clone(current), idx, idx+1)
	r.windows.Store(&next)
	r.committed("close", closed, len(next))
	r.mu.Unlock()

	return closed, true
}

// update applies fn to a copy of one window and publishes a new slice
func (r *Registry) update(op string, wid id.WindowID, fn func(w *Window)) (Window, bool) {
	r.mu.Lock()
	current := *r.windows.Load()
	idx := indexOf(current, wid)
	if idx < 0 {
		r.mu.Unlock()
		r.logger.Debug("Unknown window", zap.String("op", op), zap.String("id", wid.String()))
		return Window{}, false
	}

	next := slices.Clone(current)
	fn(&next[idx])
	w := next[idx]
	r.windows.Store(&next)
	r.committed(op, w, len(next))
	r.mu.Unlock()

	return w, true
}

// committed reports an applied operation. Called with mu held.
func (r *Registry) committed(op string, w Window, open int) {
	r.logger.Debug("Window "+op,
		zap.String("id", w.ID.String()),
		zap.String("app", w.AppID),
		zap.Uint64("stack", w.StackOrder))

	if r.metrics != nil {
		r.metrics.RecordWindowOperation(op)
		r.metrics.SetWindowsOpen(open)
	}
	for _, fn := range r.observers {
		fn(op, w)
	}
}

func indexOf(windows []Window, wid id.WindowID) int {
	return slices.IndexFunc(windows, func(w Window) bool { return w.ID == wid })
}

// Get returns one window
func (r *Registry) Get(wid id.WindowID) (Window, bool) {
	current := *r.windows.Load()
	if idx := indexOf(current, wid); idx >= 0 {
		return current[idx], true
	}
	return Window{}, false
}

// List returns the open windows in launch order
func (r *Registry) List() []Window {
	return slices.Clone(*r.windows.Load())
}

// ListByApp returns the open windows of one app in launch order
func (r *Registry) ListByApp(appID string) []Window {
	var out []Window
	for _, w := range *r.windows.Load() {
		if w.AppID == appID {
			out = append(out, w)
		}
	}
	return out
}

// Stacked returns the open windows back to front
func (r *Registry) Stacked() []Window {
	out := r.List()
	slices.SortFunc(out, func(a, b Window) int {
		return cmp.Compare(a.StackOrder, b.StackOrder)
	})
	return out
}

// Focused returns the frontmost window that is not minimized
func (r *Registry) Focused() (Window, bool) {
	var top Window
	found := false
	for _, w := range *r.windows.Load() {
		if w.Minimized() {
			continue
		}
		if !found || w.StackOrder > top.StackOrder {
			top, found = w, true
		}
	}
	return top, found
}

// Count returns the number of open windows
func (r *Registry) Count() int {
	return len(*r.windows.Load())
}

// Stats returns registry statistics
func (r *Registry) Stats() Stats {
	var stats Stats
	for _, w := range *r.windows.Load() {
		stats.Total++
		if w.Minimized() {
			stats.Minimized++
		}
		if w.Maximized {
			stats.Maximized++
		}
	}
	if focused, ok := r.Focused(); ok {
		fid := focused.ID
		stats.FocusedID = &fid
	}
	return stats
}
