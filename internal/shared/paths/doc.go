// Package paths provides the standard desktop layout and storage keys.
//
// # Directory Structure
//
//	/
//	  ├── Desktop/
//	  ├── Documents/
//	  │   └── Welcome.txt
//	  ├── Downloads/
//	  └── Pictures/
//
// # Storage Keys
//
// Every persisted document lives under one namespaced key:
//
//	<namespace>.vfs       whole-tree snapshot
//	<namespace>.settings  appearance settings
//	<namespace>.users     user profiles
//	<namespace>.plugins   installed plugin descriptors
//
// # Usage
//
//	import "github.com/GriffinCanCode/WebDesk/backend/internal/shared/paths"
//
//	docs := paths.Documents
//	key := paths.Key("webdesk", paths.KeyVFS) // "webdesk.vfs"
package paths
