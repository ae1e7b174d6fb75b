package export

// HeaderIndex maps a header name to its zero-based column position.
type HeaderIndex map[string]int

// ResolvedMapping is a ColumnMapping bound to a column position of one input.
type ResolvedMapping struct {
	ColumnMapping
	Index int
}

// ResolvedFilter is a FilterRule bound to a column position of one input.
type ResolvedFilter struct {
	FilterRule
	Index int
}

// BuildIndex builds the name lookup for a header row. Names are used as-is,
// without trimming or case folding. When a name repeats, the last position
// wins.
func BuildIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// ResolveMappings binds every mapping to its column position, preserving
// table order. The first mapping whose column is absent fails the resolution.
func ResolveMappings(idx HeaderIndex, ms []ColumnMapping) ([]ResolvedMapping, error) {
	out := make([]ResolvedMapping, 0, len(ms))
	for _, m := range ms {
		pos, ok := idx[m.Column]
		if !ok {
			return nil, &MissingColumnError{Kind: KindMapping, Column: m.Column}
		}
		out = append(out, ResolvedMapping{ColumnMapping: m, Index: pos})
	}
	return out, nil
}

// ResolveFilters binds every filter rule to its column position. A filter on
// an absent column is an error rather than a rule that silently never
// matches.
func ResolveFilters(idx HeaderIndex, fs []FilterRule) ([]ResolvedFilter, error) {
	out := make([]ResolvedFilter, 0, len(fs))
	for _, f := range fs {
		pos, ok := idx[f.Column]
		if !ok {
			return nil, &MissingColumnError{Kind: KindFilter, Column: f.Column}
		}
		out = append(out, ResolvedFilter{FilterRule: f, Index: pos})
	}
	return out, nil
}
