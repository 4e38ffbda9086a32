package referral

import "strings"

// MatchesQuery returns true if the query appears (case-insensitive) in the
// opportunity's title, company, location or any skill. An empty query
// matches everything.
//
// Filtering is pure and independent of referral state.
func MatchesQuery(o Opportunity, query string) bool {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return true
	}
	combined := strings.ToLower(o.Title + " " + o.Company + " " + o.Location)
	if strings.Contains(combined, q) {
		return true
	}
	for _, skill := range o.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

// Search returns the opportunities matching the free-text query, preserving
// input order.
func Search(opps []Opportunity, query string) []Opportunity {
	out := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		if MatchesQuery(o, query) {
			out = append(out, o)
		}
	}
	return out
}

// FilterLocation returns the opportunities whose location equals loc
// exactly. An empty loc matches everything.
func FilterLocation(opps []Opportunity, loc string) []Opportunity {
	if loc == "" {
		return opps
	}
	out := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.Location == loc {
			out = append(out, o)
		}
	}
	return out
}
