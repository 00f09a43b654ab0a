package exporter

import (
	"strconv"
)

// FormatFloat renders f in the shortest form that reads back to the same
// value, so identical inputs always produce identical bytes.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatOptionalFloat renders a missing value as an empty cell
func FormatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatFloat(*f)
}

// FormatInt formats an int for CSV output
func FormatInt(i int) string {
	return strconv.Itoa(i)
}
