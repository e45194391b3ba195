// Package bibtex reformats BibTeX records for reading.
package bibtex

import "regexp"

// fieldSeparator matches a comma that ends one field and the whitespace
// before the next "name =" assignment.
var fieldSeparator = regexp.MustCompile(`,\s*(\w+\s*=)`)

// Format puts every field assignment of an entry on its own line, indented
// by two spaces. Text that is not a field separator is left untouched, so
// formatting an already formatted entry is a no-op.
func Format(entry string) string {
	return fieldSeparator.ReplaceAllString(entry, ",\n  ${1}")
}
