package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// ListApps lists launchable apps, optionally filtered by ?kind=builtin|plugin
func (h *Handlers) ListApps(c *gin.Context) {
	var kind *registry.Kind
	if raw := c.Query("kind"); raw != "" {
		k := registry.Kind(raw)
		if k != registry.KindBuiltin && k != registry.KindPlugin {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid kind: %q", raw)})
			return
		}
		kind = &k
	}

	apps := h.session.Apps().List(kind)
	c.JSON(http.StatusOK, gin.H{
		"apps":  apps,
		"count": len(apps),
	})
}

// GetApp returns one app
func (h *Handlers) GetApp(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.session.Apps().Get(appID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("app %q not found", appID)})
		return
	}
	c.JSON(http.StatusOK, d)
}

// InstallPlugin registers a plugin app
func (h *Handlers) InstallPlugin(c *gin.Context) {
	var req types.PluginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	d, err := h.session.InstallPlugin(registry.Plugin{
		ID:          req.ID,
		Name:        req.Name,
		Icon:        req.Icon,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// InstallManifest registers every plugin in an uploaded YAML or TOML
// manifest. Valid entries are kept even when others fail.
func (h *Handlers) InstallManifest(c *gin.Context) {
	format, err := registry.ParseManifestFormat(c.DefaultQuery("format", "yaml"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, ok := readBody(c, utils.NewSizeValidator(utils.MaxManifestSize))
	if !ok {
		return
	}

	installed, err := h.session.InstallManifest(data, format)
	if installed == nil {
		installed = []registry.Descriptor{}
	}
	if err != nil && len(installed) == 0 {
		h.fail(c, err)
		return
	}

	resp := gin.H{
		"success":   err == nil,
		"installed": installed,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// UninstallPlugin removes a plugin and closes its windows
func (h *Handlers) UninstallPlugin(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateID(appID, "app_id", true); err != nil {
		badRequest(c, err)
		return
	}

	closed, err := h.session.UninstallPlugin(appID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"app_id":         appID,
		"closed_windows": len(closed),
	})
}
