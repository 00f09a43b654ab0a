// Package config provides centralized configuration management for ultistats.
// It loads configuration from multiple sources, validates it, and resolves the
// working directory layout used by every pipeline step.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ULTISTATS_* for namespacing:
//
//	ULTISTATS_WORK_DIR=/srv/ultistats
//	ULTISTATS_PIPELINE_SOURCE=remote
//	ULTISTATS_PIPELINE_REMOTE_FOLDER=1AbC...
//	ULTISTATS_SERVER_ADDR=:9090
//	ULTISTATS_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths is the single source of truth for file locations. Every path is
// derived from the configured work directory:
//
//	paths, err := cfg.Paths()
//	if err != nil {
//	    return err
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
package config
