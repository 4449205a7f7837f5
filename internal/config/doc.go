// Package config loads pivot's local settings from a TOML file.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pivot/config.toml
//  3. If the file doesn't exist, use the defaults below
//  4. Missing or blank keys keep their defaults
//
// # Fields
//
//	start_dir = "."                               # file picker start directory
//	save_dir  = "~/Pictures/pivot"                # where saved results go
//	log_file  = "~/.local/state/pivot/pivot.log"  # diagnostic log
//	log_level = "info"
//
// Tilde and relative paths are expanded to absolute paths.
//
// The rotation endpoint is fixed in package rotate and cannot be overridden
// here or through the environment.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML parse errors. A missing file is not an error.
package config
