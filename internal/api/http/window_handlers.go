package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// windowParam validates the :id path parameter
func windowParam(c *gin.Context) (id.WindowID, bool) {
	wid, err := id.ParseWindowID(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	annotate(c, zap.String("window_id", wid.String()))
	return wid, true
}

// respondWindow reports the outcome of a window operation. Operations on
// windows that no longer exist are no-ops, not errors.
func respondWindow(c *gin.Context, wid id.WindowID, w window.Window, ok bool) {
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"success":   false,
			"window_id": wid,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"window":  w,
	})
}

// windowOp adapts a registry operation into a handler
func (h *Handlers) windowOp(op func(*window.Registry, id.WindowID) (window.Window, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		wid, ok := windowParam(c)
		if !ok {
			return
		}
		w, ok := op(h.session.Windows(), wid)
		respondWindow(c, wid, w, ok)
	}
}

// ListWindows lists open windows in launch order
func (h *Handlers) ListWindows(c *gin.Context) {
	windows := h.session.Windows()
	c.JSON(http.StatusOK, gin.H{
		"windows": windows.List(),
		"stats":   windows.Stats(),
	})
}

// GetWindow returns one window
func (h *Handlers) GetWindow(c *gin.Context) {
	wid, ok := windowParam(c)
	if !ok {
		return
	}
	w, ok := h.session.Windows().Get(wid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("window %s not found", wid)})
		return
	}
	c.JSON(http.StatusOK, w)
}

// LaunchWindow opens a window for an app
func (h *Handlers) LaunchWindow(c *gin.Context) {
	var req types.LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(req.AppID, "app_id", true); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateTitle(req.Title); err != nil {
		badRequest(c, err)
		return
	}

	w, err := h.session.Launch(req.AppID, req.Payload, req.Title)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// FocusWindow brings a window to the front
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp((*window.Registry).Focus)(c)
}

// MinimizeWindow hides a window
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp((*window.Registry).Minimize)(c)
}

// RestoreWindow shows a minimized window
func (h *Handlers) RestoreWindow(c *gin.Context) {
	h.windowOp((*window.Registry).Restore)(c)
}

// MaximizeWindow toggles maximized
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.windowOp((*window.Registry).ToggleMaximize)(c)
}

// CloseWindow closes a window
func (h *Handlers) CloseWindow(c *gin.Context) {
	h.windowOp((*window.Registry).Close)(c)
}

// SetWindowTitle renames a window
func (h *Handlers) SetWindowTitle(c *gin.Context) {
	wid, ok := windowParam(c)
	if !ok {
		return
	}
	var req types.TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateTitle(req.Title); err != nil {
		badRequest(c, err)
		return
	}
	w, ok := h.session.Windows().UpdateTitle(wid, req.Title)
	respondWindow(c, wid, w, ok)
}

// SetWindowGeometry moves and resizes a window
func (h *Handlers) SetWindowGeometry(c *gin.Context) {
	wid, ok := windowParam(c)
	if !ok {
		return
	}
	var req types.GeometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.W <= 0 || req.H <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "w and h must be positive"})
		return
	}
	w, ok := h.session.Windows().SetGeometry(wid, window.Geometry{
		Position: window.Position{X: req.X, Y: req.Y},
		Size:     window.Size{W: req.W, H: req.H},
	})
	respondWindow(c, wid, w, ok)
}
