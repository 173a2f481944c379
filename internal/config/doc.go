// Package config holds user settings stored in Fyne preferences and the runtime
// configuration read from an optional YAML file with environment overrides.
package config
