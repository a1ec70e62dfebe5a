// Package config provides user configuration management for sofactl.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for SofaBaton hubs - nicknames, last known
// addresses, per-hub identifiers and listening ports - plus application
// preferences. The file follows OS-specific storage conventions.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/sofactl/config.yaml or $HOME/.config/sofactl/config.yaml
//   - macOS: $HOME/.config/sofactl/config.yaml
//   - Windows: %LOCALAPPDATA%\sofactl\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.Hubs["living-room"] = &config.Hub{
//	    Address: "192.168.40.65",
//	    HubID:   "03862a23",
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization. File
// writes are atomic (temp file + rename) and protected by a mutex.
package config
