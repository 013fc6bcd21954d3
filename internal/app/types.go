package app

import "cipherforge/internal/catalog"

// categoryFilter is one entry in the dashboard's category cycle. The
// zero filter ("ALL") shows every challenge.
type categoryFilter struct {
	Label    string
	Category catalog.Category
	All      bool
}

func defaultFilters() []categoryFilter {
	out := make([]categoryFilter, 0, len(catalog.Categories())+1)
	out = append(out, categoryFilter{Label: "ALL", All: true})
	for _, c := range catalog.Categories() {
		out = append(out, categoryFilter{Label: c.Label(), Category: c})
	}
	return out
}

func (f categoryFilter) matches(ch catalog.Challenge) bool {
	return f.All || ch.Category == f.Category
}
