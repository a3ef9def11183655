package domain

import "strings"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CountFilled returns how many of keys have a non-blank value in values.
func CountFilled(values map[string]string, keys []string) int {
	n := 0
	for _, k := range keys {
		if !IsBlank(values[k]) {
			n++
		}
	}
	return n
}
