/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import "strings"

var (
	escaper   = strings.NewReplacer("\r\n", "", "\n", "", "\r", "", `"`, `'`)
	unescaper = strings.NewReplacer(`'`, `"`)
)

// Escape makes a nested document safe for a single delimited field: line
// breaks are dropped and double quotes become single quotes.
//
// The mapping is lossy. A payload holding a literal single quote comes back
// from Unescape as a double quote, and payload line breaks are gone. XML
// produced by ValueCodec escapes both inside values, so only its markup is
// affected.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape turns single quotes back into double quotes.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
