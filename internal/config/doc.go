// Package config provides configuration structures and utilities for wikistats.
// It defines the sites to query, the run modes, the page-view date range and
// report output preferences, and loads the optional YAML configuration file.
package config
