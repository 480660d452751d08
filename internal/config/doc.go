// Package config manages user-level settings stored at ~/.launchdx/config.yaml.
// Values resolve in the order flag, LAUNCHDX_* environment variable, config
// file, built-in default.
package config
