package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// ListSettings returns every setting with its default and allowed options
func (h *Handlers) ListSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings": h.session.Settings().All(),
		"values":   h.session.Settings().Values(),
	})
}

// GetSetting returns one setting
func (h *Handlers) GetSetting(c *gin.Context) {
	s, err := h.session.Settings().Get(c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSetting assigns a setting value
func (h *Handlers) UpdateSetting(c *gin.Context) {
	var req types.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.session.Settings().Set(c.Param("key"), req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ResetSetting restores a setting's default
func (h *Handlers) ResetSetting(c *gin.Context) {
	s, err := h.session.Settings().Reset(c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ExportSettings downloads the current values as TOML or YAML
func (h *Handlers) ExportSettings(c *gin.Context) {
	format, err := settings.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := h.session.Settings().Export(format)
	if err != nil {
		h.fail(c, err)
		return
	}

	contentType := "application/toml"
	if format == settings.FormatYAML {
		contentType = "application/yaml"
	}
	c.Data(http.StatusOK, contentType, data)
}
