package session

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// ErrWindowClosed is returned by a host whose window is gone
var ErrWindowClosed = errors.New("window closed")

// Host is what an app running in a window sees of the session. Once the
// window closes the host is inert: calls fail with ErrWindowClosed or do
// nothing.
type Host struct {
	session  *Manager
	windowID id.WindowID
}

// WindowID returns the window this host serves
func (h *Host) WindowID() id.WindowID {
	return h.windowID
}

// Alive reports whether the window is still open
func (h *Host) Alive() bool {
	_, ok := h.session.windows.Get(h.windowID)
	return ok
}

// Payload returns the launch payload, empty once the window is closed
func (h *Host) Payload() string {
	w, ok := h.session.windows.Get(h.windowID)
	if !ok {
		return ""
	}
	return w.Payload
}

// SetTitle updates the window title. Reports whether a window was updated.
func (h *Host) SetTitle(title string) bool {
	_, ok := h.session.windows.UpdateTitle(h.windowID, title)
	return ok
}

// Notify posts a notification attributed to this window
func (h *Host) Notify(level Level, message string) (Notification, bool) {
	if !h.Alive() {
		return Notification{}, false
	}
	wid := h.windowID
	return h.session.Notify(level, message, &wid), true
}

// FS returns the file system handle. It spans the whole tree.
func (h *Host) FS() *FS {
	return &FS{host: h}
}

// FS is an app's view of the file tree. Errors are returned to the app
// and also posted as an error notification.
type FS struct {
	host *Host
}

func (f *FS) check() error {
	if !f.host.Alive() {
		return fmt.Errorf("window %s: %w", f.host.windowID, ErrWindowClosed)
	}
	return nil
}

// surface posts err as a toast and returns it unchanged
func (f *FS) surface(err error) error {
	if err != nil && !errors.Is(err, ErrWindowClosed) {
		wid := f.host.windowID
		f.host.session.Notify(LevelError, err.Error(), &wid)
	}
	return err
}

// Resolve returns a copy of the node at path
func (f *FS) Resolve(p string) (*vfs.Node, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	n, ok := f.host.session.vfs.Resolve(p)
	if !ok {
		return nil, f.surface(&fs.PathError{Op: "resolve", Path: vfs.Normalize(p), Err: vfs.ErrNotFound})
	}
	return n, nil
}

// List returns the children of a directory
func (f *FS) List(dirPath string) ([]vfs.Entry, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	entries, err := f.host.session.vfs.List(dirPath)
	return entries, f.surface(err)
}

// Create adds a file or directory and returns its final path
func (f *FS) Create(dirPath, name string, kind vfs.Kind, content string) (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}
	p, err := f.host.session.vfs.Create(dirPath, name, kind, content)
	return p, f.surface(err)
}

// Delete removes a node and its subtree
func (f *FS) Delete(p string) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.surface(f.host.session.vfs.Delete(p))
}

// Rename changes a node's name and returns its final path
func (f *FS) Rename(p, newName string) (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}
	out, err := f.host.session.vfs.Rename(p, newName)
	return out, f.surface(err)
}

// Move relocates a node into a directory and returns its final path
func (f *FS) Move(srcPath, dstDirPath string) (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}
	out, err := f.host.session.vfs.Move(srcPath, dstDirPath)
	return out, f.surface(err)
}

// ReadFile returns a file's content
func (f *FS) ReadFile(p string) (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}
	content, err := f.host.session.vfs.ReadFile(p)
	return content, f.surface(err)
}

// WriteFile replaces a file's content
func (f *FS) WriteFile(p, content string) error {
	if err := f.check(); err != nil {
		return err
	}
	return f.surface(f.host.session.vfs.WriteFile(p, content))
}
