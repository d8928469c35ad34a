package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// ListUsers returns every profile and the current one
func (h *Handlers) ListUsers(c *gin.Context) {
	resp := gin.H{"users": h.session.Profiles().List()}
	if current, ok := h.session.Profiles().Current(); ok {
		resp["current"] = current
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterUser creates a profile
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.session.Profiles().Register(req.Username, req.DisplayName, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Login authenticates a profile and makes it current
func (h *Handlers) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.session.Profiles().Authenticate(req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    p,
	})
}

// RemoveUser deletes a profile
func (h *Handlers) RemoveUser(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid user id: %q", c.Param("id"))})
		return
	}
	if err := h.session.Profiles().Remove(uid); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": uid,
	})
}

// DrainNotifications returns and clears the pending notifications
func (h *Handlers) DrainNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.session.Notifications()})
}

// PostNotification lets the shell raise a toast of its own
func (h *Handlers) PostNotification(c *gin.Context) {
	var req types.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	level := session.Level(req.Level)
	switch level {
	case "":
		level = session.LevelInfo
	case session.LevelInfo, session.LevelSuccess, session.LevelWarning, session.LevelError:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid level: %q", req.Level)})
		return
	}

	var wid *id.WindowID
	if req.WindowID != "" {
		w, err := id.ParseWindowID(req.WindowID)
		if err != nil {
			badRequest(c, err)
			return
		}
		wid = &w
	}

	c.JSON(http.StatusCreated, h.session.Notify(level, req.Message, wid))
}
