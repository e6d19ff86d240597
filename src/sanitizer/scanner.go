// Package sanitizer holds the leaf safety components of the markup
// pipeline: the text validator, the URL and tag whitelists, and the
// Safety Gate, an ordered sequence of scanners that classifies a raw
// input as a whole before any structural parsing runs.
//
// Everything in this package is pure. The whitelist tables are
// package-level values that are never mutated, so every function and
// every Gate is safe for concurrent use.
package sanitizer

// Scanner inspects raw content and optionally transforms it.
// Implementations must not mutate the input; return transformed
// content in the ScanResult.
type Scanner interface {
	// Name returns a human-readable identifier for logging/metrics.
	Name() string

	// Scan inspects content and returns a ScanResult.
	Scan(content string) ScanResult
}
