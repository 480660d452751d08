// Package cli defines the Cobra command tree for the launchdx CLI. Each file
// in this package registers one top-level command (collect, list, paths, etc.)
// with the root command. Command implementations delegate to internal packages
// for collection and export and only handle flags and output formatting.
package cli
