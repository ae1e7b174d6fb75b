package export

import "unicode/utf8"

// Project builds the output row for fields in mapping order.
func Project(ms []ResolvedMapping, fields []string) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		if m.Index >= len(fields) {
			continue
		}
		v := fields[m.Index]
		if m.Truncate {
			v = firstChar(v)
		}
		out[i] = v
	}
	return out
}

// firstChar returns the first character of s, or "" for an empty string.
// RowReader only yields valid UTF-8, so a character is a whole rune.
func firstChar(s string) string {
	if s == "" {
		return ""
	}
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}
