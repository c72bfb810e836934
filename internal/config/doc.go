// Package config provides configuration management for mp3-tagger.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Lists *.mp3 in ~/Music
//	// Album art at 1200x1200, embedded as JPEG of at most 1000px
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//
// The format follows the extension: ".yaml" and ".yml" are YAML, anything
// else is JSON. A missing file is not an error.
package config
