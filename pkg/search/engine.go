package search

import (
	"sort"

	"community-resources-be/pkg/resource"
)

// DefaultPageSize is how many records a page holds.
const DefaultPageSize = 3

// Page is one batch of search results.
type Page struct {
	Results []resource.Record
	// AllExhausted is true when nothing eligible was left to return.
	AllExhausted bool
	// HasMore reports whether eligible records remain after this page.
	HasMore bool
	// Remaining counts eligible records not yet shown after this page.
	Remaining int
}

// IDs lists the ids of the page's records in order.
func (p Page) IDs() []string {
	ids := make([]string, len(p.Results))
	for i, r := range p.Results {
		ids[i] = r.ID
	}
	return ids
}

type candidate struct {
	index int
	tier  int
	hits  int
}

// Search returns the next page of records from ds that satisfy every set
// field of f and are not in shown. Results are copies of dataset records;
// nothing is ever synthesized.
//
// Ordering: records whose hours confirm a day filter come before records
// with unknown hours, then records matching more query keywords, then
// source order.
func Search(ds *resource.Dataset, f Filters, shown IDSet, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var eligible []candidate
	for i := range ds.Records {
		r := &ds.Records[i]
		if shown.Has(r.ID) {
			continue
		}
		if c, ok := match(r, f); ok {
			c.index = i
			eligible = append(eligible, c)
		}
	}

	sort.SliceStable(eligible, func(a, b int) bool {
		if eligible[a].tier != eligible[b].tier {
			return eligible[a].tier < eligible[b].tier
		}
		return eligible[a].hits > eligible[b].hits
	})

	n := min(pageSize, len(eligible))
	page := Page{
		Results:      make([]resource.Record, 0, n),
		AllExhausted: n == 0,
		Remaining:    len(eligible) - n,
	}
	page.HasMore = page.Remaining > 0
	for _, c := range eligible[:n] {
		page.Results = append(page.Results, ds.Records[c.index])
	}
	return page
}

// Count returns how many records satisfy f, ignoring pagination.
func Count(ds *resource.Dataset, f Filters) int {
	n := 0
	for i := range ds.Records {
		if _, ok := match(&ds.Records[i], f); ok {
			n++
		}
	}
	return n
}

func match(r *resource.Record, f Filters) (candidate, bool) {
	var c candidate
	if f.ZIP != "" && r.ZipCode != f.ZIP {
		return c, false
	}
	if f.Service != "" && !r.HasService(f.Service) {
		return c, false
	}
	if f.Language != "" && !r.SpeaksLanguage(f.Language) {
		return c, false
	}
	if !f.Days.IsEmpty() {
		open, known := r.OpenDays()
		switch {
		case !known:
			c.tier = 1
		case !open.Intersects(f.Days):
			return c, false
		}
	}
	if len(f.Keywords) > 0 {
		words := make(map[string]struct{})
		for _, w := range resource.Tokenize(r.SearchText()) {
			words[w] = struct{}{}
		}
		for _, k := range f.Keywords {
			if _, ok := words[k]; ok {
				c.hits++
			}
		}
		if c.hits == 0 && !f.Structured() {
			return c, false
		}
	}
	return c, true
}
