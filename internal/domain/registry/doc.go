// Package registry provides the catalog of launchable applications.
//
// Every entry is a Descriptor, a closed tagged variant:
//   - KindBuiltin: native apps compiled into the desktop, carrying a Behavior
//   - KindPlugin: third-party apps loaded in a sandboxed frame, carrying a URL
//
// Components:
//   - Manager: catalog lookups, plugin install/uninstall, persistence
//   - Seeder: registers the built-in apps and plugin manifests found on disk
//
// Features:
//   - Built-ins are immutable; plugin ids may not shadow them
//   - Plugin text fields are sanitized (bluemonday strict policy)
//   - Plugin manifests in YAML or TOML
//   - Installed plugins persist as one JSON blob under the plugins key
//
// Example Usage:
//
//	manager := registry.NewManager(adapter, "webdesk.plugins", logger)
//	registry.NewSeeder(manager, logger).SeedBuiltins()
//	manager.Load()
//	desc, err := manager.Install(registry.Plugin{ID: "todo", Name: "Todo", URL: "https://todo.example"})
//	apps := manager.List(nil)
package registry
