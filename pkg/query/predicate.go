package query

// AttributeClause matches products carrying any of the listed options for
// one attribute (OR membership within the attribute).
type AttributeClause struct {
	Attribute string   `json:"attribute"`
	Options   []string `json:"options"`
}

// Predicate is the store-agnostic selection tree compiled from a FilterSet
// and a scope. Clauses combine with AND across attributes; the text search
// is ORed over name and description fields and ANDed with the clauses. Any
// backend able to evaluate this shape can serve the engine.
type Predicate struct {
	Clauses           []AttributeClause `json:"clauses,omitempty"`
	Search            string            `json:"search,omitempty"`
	RubricSlug        string            `json:"rubricSlug,omitempty"`
	CompanyID         string            `json:"companyId,omitempty"`
	CitySlug          string            `json:"citySlug,omitempty"`
	ExcludedRubricIDs []string          `json:"excludedRubricIds,omitempty"`
	ActiveOnly        bool              `json:"activeOnly"`
}

// IsUnscoped reports the cross-rubric "all products" predicate used for
// search result pages.
func (p Predicate) IsUnscoped() bool {
	return p.RubricSlug == "" && len(p.Clauses) == 0 && p.Search == ""
}

func (p Predicate) HasAttribute(slug string) bool {
	for _, c := range p.Clauses {
		if c.Attribute == slug {
			return true
		}
	}
	return false
}
