// Package types holds the request bodies of the HTTP API and the frame
// shape of the event stream.
//
// Filesystem:
//   - CreateNodeRequest, WriteFileRequest, RenameRequest, MoveRequest
//
// Windows and apps:
//   - LaunchRequest, TitleRequest, GeometryRequest, PluginRequest
//
// Settings, users and notifications:
//   - SettingRequest, RegisterRequest, LoginRequest, NotifyRequest
//
// Transport:
//   - WSMessage: one event or control frame on /stream
//   - UILogEntry, UILogStreamRequest: log lines forwarded by the shell
package types
