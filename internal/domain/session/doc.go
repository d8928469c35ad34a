// Package session provides the desktop session context.
//
// A Manager is built once per process and handed to every surface that
// needs desktop state. It owns:
//   - the VFS store (file tree, persisted)
//   - the window registry (ephemeral)
//   - the app catalog with built-ins and installed plugins
//   - settings and user profiles
//
// Construction loads each persisted collaborator from the storage adapter
// under its own namespaced key; every later change is written back by the
// collaborator that made it.
//
// Changes are published on an event bus (Subscribe). Notifications posted
// through Notify are queued for the shell and also published.
//
// Apps reach the session through a Host bound to their window:
//
//	w, err := manager.Launch("notepad", "/Documents/Welcome.txt", "")
//	host := manager.Host(w.ID)
//	content, err := host.FS().ReadFile(host.Payload())
//	host.SetTitle("Notepad - edited")
package session
