// Package config provides configuration structures and utilities for abpconv.
// It defines the options for filter list conversion, remote source fetching,
// and report generation, plus the YAML source-list configuration file.
package config
