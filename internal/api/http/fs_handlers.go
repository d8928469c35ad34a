package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// pathQuery returns the path query parameter, defaulting to the root
func pathQuery(c *gin.Context) string {
	return c.DefaultQuery("path", "/")
}

// ListDirectory lists a directory
func (h *Handlers) ListDirectory(c *gin.Context) {
	p := pathQuery(c)
	entries, err := h.session.VFS().List(p)
	if err != nil {
		h.fail(c, err)
		return
	}
	if entries == nil {
		entries = []vfs.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    vfs.Normalize(p),
		"entries": entries,
	})
}

// StatNode describes a node
func (h *Handlers) StatNode(c *gin.Context) {
	info, err := h.session.VFS().Stat(pathQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ReadFile returns a file's content with an ETag so the shell can poll cheaply
func (h *Handlers) ReadFile(c *gin.Context) {
	p := pathQuery(c)
	content, err := h.session.VFS().ReadFile(p)
	if err != nil {
		h.fail(c, err)
		return
	}

	etag := h.hasher.ETag([]byte(content))
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    vfs.Normalize(p),
		"content": content,
	})
}

// FindNodes returns the paths matching a glob pattern
func (h *Handlers) FindNodes(c *gin.Context) {
	pattern := c.Query("pattern")
	matches, err := h.session.VFS().Find(pattern)
	if err != nil {
		h.fail(c, err)
		return
	}
	if matches == nil {
		matches = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"pattern": pattern,
		"matches": matches,
	})
}

// ExportTree downloads the whole tree as JSON or YAML
func (h *Handlers) ExportTree(c *gin.Context) {
	format, err := vfs.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := h.session.VFS().Export(format)
	if err != nil {
		h.fail(c, err)
		return
	}

	contentType := "application/json"
	if format == vfs.FormatYAML {
		contentType = "application/yaml"
	}
	c.Header("ETag", h.hasher.ETag(data))
	c.Data(http.StatusOK, contentType, data)
}

// ImportTree replaces the whole tree with an uploaded snapshot
func (h *Handlers) ImportTree(c *gin.Context) {
	format, err := vfs.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, err)
		return
	}
	data, ok := readBody(c, utils.NewSizeValidator(utils.MaxSnapshotSize))
	if !ok {
		return
	}
	if err := h.session.VFS().Import(data, format); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"nodes":   h.session.VFS().Count(),
	})
}

// ResetTree restores the default tree
func (h *Handlers) ResetTree(c *gin.Context) {
	if err := h.session.VFS().Reset(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateNode adds a file or directory
func (h *Handlers) CreateNode(c *gin.Context) {
	var req types.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	kind := vfs.Kind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be file or directory"})
		return
	}

	p, err := h.session.VFS().Create(req.Dir, req.Name, kind, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"path":    p,
	})
}

// WriteFile replaces a file's content
func (h *Handlers) WriteFile(c *gin.Context) {
	var req types.WriteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.session.VFS().WriteFile(req.Path, req.Content); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"path":    vfs.Normalize(req.Path),
	})
}

// RenameNode renames a node in place
func (h *Handlers) RenameNode(c *gin.Context) {
	var req types.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.session.VFS().Rename(req.Path, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"path":    p,
	})
}

// MoveNode moves a node into another directory
func (h *Handlers) MoveNode(c *gin.Context) {
	var req types.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.session.VFS().Move(req.Path, req.Destination)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"path":    p,
	})
}

// DeleteNode removes a node and its subtree
func (h *Handlers) DeleteNode(c *gin.Context) {
	p := c.Query("path")
	if p == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if err := h.session.VFS().Delete(p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"path":    vfs.Normalize(p),
	})
}
