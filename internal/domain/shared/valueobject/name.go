package valueobject

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeName produces the lookup key for named reference data such as
// categories and vendors: NFC normalized, case folded, with runs of
// whitespace collapsed to one space.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Join(strings.Fields(name), " ")
	return folder.String(name)
}

// CleanName trims and collapses whitespace while keeping the original casing
func CleanName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
