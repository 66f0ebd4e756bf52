// internal/datastore/rewrite.go
package datastore

import "regexp"

// The generator occasionally emits MySQL-style date functions. Only these
// enumerated patterns are rewritten; this is a safety net, not a dialect
// translator.
var (
	yearPattern  = regexp.MustCompile(`(?i)\bYEAR\s*\(([^()]*)\)`)
	monthPattern = regexp.MustCompile(`(?i)\bMONTH\s*\(([^()]*)\)`)
)

// RewriteForDialect maps non-native date-part calls to the sqlite-native
// form. Postgres understands extract-style functions well enough that the
// generator's output runs unmodified, so the query passes through.
func RewriteForDialect(query, driver string) string {
	if driver != "sqlite" {
		return query
	}
	query = yearPattern.ReplaceAllString(query, "CAST(strftime('%Y', $1) AS INTEGER)")
	query = monthPattern.ReplaceAllString(query, "CAST(strftime('%m', $1) AS INTEGER)")
	return query
}
