package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no run mode is selected.
	ErrNoTarget = errors.New("no target specified: use --article, --category, --languages, --file or --test")

	// ErrInvalidLang is returned when a site code is empty.
	ErrInvalidLang = errors.New("invalid site code: must not be empty")

	// ErrInvalidSite is returned when the project name is empty.
	ErrInvalidSite = errors.New("invalid site: must not be empty")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidSeparator is returned when the column separator is empty.
	ErrInvalidSeparator = errors.New("invalid separator: must not be empty")

	// ErrInvalidFormat is returned for an unsupported report format.
	ErrInvalidFormat = errors.New("invalid format: must be one of tsv, markdown, json, table")

	// ErrIncompleteDateRange is returned when only one of --start and --end
	// is given.
	ErrIncompleteDateRange = errors.New("incomplete date range: --start and --end must be used together")

	// ErrInvalidConfigTimeout is returned when the timeout in the config file
	// is not a valid duration.
	ErrInvalidConfigTimeout = errors.New("invalid timeout in configuration file")
)
