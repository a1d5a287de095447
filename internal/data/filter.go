package data

import (
	"maps"
	"slices"
	"strings"

	"github.com/wardwatch/wardwatch/internal/filter"
)

// Matches reports whether r satisfies every restriction in st and contains
// the search term. Comparisons ignore case.
func Matches(r Record, st filter.State) bool {
	for _, key := range st.Keys() {
		got, ok := r.Field(key)
		if !ok || !strings.EqualFold(got, st.Value(key)) {
			return false
		}
	}
	if st.SearchTerm == "" {
		return true
	}
	term := strings.ToLower(st.SearchTerm)
	for _, field := range []string{r.Text, r.Ward, r.City, r.Party} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Filter returns the records matching st, in input order. The input is not
// modified.
func Filter(records []Record, st filter.State) []Record {
	if st.Empty() {
		return slices.Clone(records)
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Matches(r, st) {
			out = append(out, r)
		}
	}
	return out
}

// Values returns the distinct values of key across records, sorted, with
// filter.All first. It drives the value cycling in the filter bar.
func Values(records []Record, key string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v, ok := r.Field(key); ok && v != "" {
			seen[v] = struct{}{}
		}
	}
	return append([]string{filter.All}, slices.Sorted(maps.Keys(seen))...)
}
