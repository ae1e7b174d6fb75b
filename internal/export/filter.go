package export

// Predicate decides which data rows are kept. Build it once per input with
// NewPredicate and reuse it for every row.
type Predicate struct {
	rules []ResolvedFilter
}

// NewPredicate returns a predicate requiring every rule to hold.
func NewPredicate(rules []ResolvedFilter) Predicate {
	return Predicate{rules: rules}
}

// Match reports whether every rule's column equals its value byte for byte.
// With no rules every row matches. A row too short to hold a rule's column
// does not match.
func (p Predicate) Match(fields []string) bool {
	for _, r := range p.rules {
		if r.Index >= len(fields) || fields[r.Index] != r.Value {
			return false
		}
	}
	return true
}

// Accept applies Match to a streamed row. Rows that failed to parse are
// accepted here so that the consumer, not the filter, reports the error.
func (p Predicate) Accept(r Row) bool {
	if r.err != nil {
		return true
	}
	return p.Match(r.fields)
}
