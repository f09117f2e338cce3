// Package config loads the plugin settings: an optional YAML file, then
// SECTIONGRID_* environment variables, which may come from a .env file.
// Command-line flags are applied on top by the cli package.
package config
