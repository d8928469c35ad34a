package paths

// Root of the virtual file system
const Root = "/"

// Standard user directories
const (
	Desktop   = "/Desktop"
	Documents = "/Documents"
	Downloads = "/Downloads"
	Pictures  = "/Pictures"
)

// WelcomeFile is seeded into Documents on a fresh tree
const WelcomeFile = "Welcome.txt"

// WelcomeText is the content of WelcomeFile
const WelcomeText = "Welcome to WebDesk.\n\nFiles you create here are saved in your browser session.\n"

// Storage key suffixes
const (
	KeyVFS      = "vfs"
	KeySettings = "settings"
	KeyUsers    = "users"
	KeyPlugins  = "plugins"
)

// DefaultNamespace prefixes every storage key
const DefaultNamespace = "webdesk"

// StandardDirectories returns the directories of the default tree, in display order
func StandardDirectories() []string {
	return []string{
		Desktop,
		Documents,
		Downloads,
		Pictures,
	}
}

// Key builds a namespaced storage key
func Key(namespace, suffix string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return namespace + "." + suffix
}
