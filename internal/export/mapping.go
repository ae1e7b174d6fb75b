// Package export implements the collection export transform: it resolves a
// fixed set of column mappings and row filters against the header of a CSV
// export, then streams the data rows through the filter and projector into a
// new CSV file.
package export

import "slices"

// ColumnMapping selects one input column, renames it to Title in the output,
// and optionally cuts its value down to the first character.
type ColumnMapping struct {
	Column   string
	Title    string
	Truncate bool
}

// FilterRule keeps a row only when Column equals Value exactly.
type FilterRule struct {
	Column string
	Value  string
}

// Output column order is the order of this table.
var columnMappings = []ColumnMapping{
	{Column: "objectname", Title: "Game"},
	{Column: "minplayers", Title: "Min\nPlayers"},
	{Column: "maxplayers", Title: "Max\nPlayers"},
	{Column: "playingtime", Title: "Playing-\ntime"},
	{Column: "minplaytime", Title: "Min \nPlaytime"},
	{Column: "maxplaytime", Title: "Max \nPlaytime"},
	{Column: "yearpublished", Title: "Year"},
	{Column: "bggbestplayers", Title: "Best Amount \nPlayers"},
	{Column: "bggrecagerange", Title: "Age \nRange"},
	{Column: "itemtype", Title: "Type", Truncate: true},
	{Column: "version_languages", Title: "Language"},
}

var filterRules = []FilterRule{
	{Column: "comment", Value: "Bei der Arbeit"},
	{Column: "prevowned", Value: "1"},
}

// Mappings returns a copy of the fixed column mapping table.
func Mappings() []ColumnMapping { return slices.Clone(columnMappings) }

// Filters returns a copy of the fixed row filter table.
func Filters() []FilterRule { return slices.Clone(filterRules) }

// Titles returns the output header row for ms.
func Titles(ms []ColumnMapping) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}
