// Package config loads the guidelines CLI's own settings.
//
// Settings come from, in increasing precedence: built-in defaults, the user
// file at <XDG config>/guidelines/config.yaml, a project file
// ./.guidelines.yaml (which replaces the user file rather than layering on
// it), and GUIDELINES_* environment variables:
//
//	version: 1
//	configs_dir: ./my-configs        # optional local registry
//	remote:
//	  url: https://github.com/danielbodnar/guidelines.git
//	  ref: main                      # optional
//	  subdir: configs
//	  cache_dir: ~/.cache/guidelines/remote
//	variables:
//	  PROJECT_NAME: acme
//
// Every loaded configuration is checked with [Validate].
package config
