// Package ws serves /stream, the WebSocket the shell listens on for
// session changes.
//
// Server frames:
//   - system: sent once after connecting
//   - vfs.changed, windows.changed, settings.changed, apps.changed,
//     notification: one per session event
//   - pong, notifications, error: replies to client frames
//
// Client frames:
//   - {"type":"ping"}
//   - {"type":"notifications"} drains the pending notifications
//
// A client that falls behind misses events rather than slowing the
// session down; it should refetch state on reconnect.
package ws
