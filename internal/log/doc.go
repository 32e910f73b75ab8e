// Package log builds the wikistats logger on top of the standard slog
// package.
//
// Log output goes to stderr so it never mixes with the report on stdout.
// Without --verbose only warnings and errors are written; with it API
// requests and recovered faults are logged at debug level.
//
// # Redaction
//
// The RedactingHandler masks credentials before a record reaches the
// underlying handler:
//   - attributes whose key names a credential (authorization, cookie,
//     access_token, lgpassword and similar)
//   - values that look like a bearer token, a JWT or an OAuth consumer key
//   - credential query parameters inside logged URLs
//
// Even in verbose mode a Wikimedia access token never appears in the log.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("api request", "url", u, "authorization", "Bearer ...")
package log
