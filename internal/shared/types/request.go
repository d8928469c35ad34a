package types

// CreateNodeRequest adds a file or directory under Dir
type CreateNodeRequest struct {
	Dir     string `json:"dir" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Kind    string `json:"kind" binding:"required"`
	Content string `json:"content"`
}

// WriteFileRequest replaces a file's content
type WriteFileRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

// RenameRequest renames the node at Path
type RenameRequest struct {
	Path string `json:"path" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// MoveRequest moves the node at Path into the directory Destination
type MoveRequest struct {
	Path        string `json:"path" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// LaunchRequest opens a window for an app
type LaunchRequest struct {
	AppID   string `json:"app_id" binding:"required"`
	Payload string `json:"payload"`
	Title   string `json:"title"`
}

// TitleRequest sets a window title
type TitleRequest struct {
	Title string `json:"title"`
}

// GeometryRequest places and sizes a window
type GeometryRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w" binding:"required"`
	H int `json:"h" binding:"required"`
}

// PluginRequest installs a plugin app
type PluginRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	URL         string `json:"url" binding:"required"`
	Description string `json:"description"`
}

// SettingRequest assigns a setting value
type SettingRequest struct {
	Value string `json:"value"`
}

// RegisterRequest creates a user profile. Password may be empty.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LoginRequest authenticates a profile
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

// NotifyRequest posts a notification
type NotifyRequest struct {
	Level    string `json:"level"`
	Message  string `json:"message" binding:"required"`
	WindowID string `json:"window_id"`
}

// WSMessage is a frame on the event stream
type WSMessage struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// UILogEntry is one log line shipped by the shell
type UILogEntry struct {
	ID        string         `json:"id"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
	Priority  int            `json:"priority"`
}

// UILogStreamRequest is a batch of shell log lines
type UILogStreamRequest struct {
	Source    string       `json:"source"`
	Entries   []UILogEntry `json:"entries"`
	Timestamp int64        `json:"timestamp"`
}
