// Package config handles configuration management for build-runfiles.
// It supports loading configuration from multiple sources including
// TOML files, environment variables, and command-line flags.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file, either given explicitly or found at
//     $XDG_CONFIG_HOME/build-runfiles/config.toml
//  3. BUILD_RUNFILES_* environment variables, where an underscore
//     separates key segments (BUILD_RUNFILES_TRASH_ATTEMPTS is
//     trash.attempts)
//  4. explicit overrides, typically from command-line flags
package config
