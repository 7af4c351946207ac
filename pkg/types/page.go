package types

// OptionFacet is one selectable option with its product counter under the
// current scope. Counter is the number of products that would match if this
// option were toggled on top of the other active filters.
type OptionFacet struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Counter    int    `json:"counter"`
	IsSelected bool   `json:"isSelected"`
	NextSlug   string `json:"nextSlug"`
}

type AttributeFacet struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	ViewVariant string        `json:"viewVariant"`
	Options     []OptionFacet `json:"options"`
}

// CataloguePage is the complete payload for one catalogue request.
// Assembly is atomic: either every field is filled or the request resolved
// to a redirect or an error before any payload was built. Redirect, when
// non-empty, must be honoured with a permanent redirect before rendering.
type CataloguePage struct {
	Docs       []ProductView    `json:"docs"`
	TotalDocs  int              `json:"totalDocs"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Facets     []AttributeFacet `json:"facets"`
	Rubric     *RubricView      `json:"rubric,omitempty"`
	Redirect   string           `json:"redirect,omitempty"`
	IsSearch   bool             `json:"isSearch"`
	Warnings   Diagnostics      `json:"warnings,omitempty"`
}

// CatalogueRequest is the input contract from the transport layer. Path
// segments arrive URL-decoded in request order; zero Page/Limit means the
// configured default applies.
type CatalogueRequest struct {
	Segments       []string
	BasePath       string
	RubricSlug     string
	CompanyID      string
	CitySlug       string
	Locale         string
	FallbackLocale string
	Page           int
	Limit          int
	Search         string
	Sort           *SortOrder
}

// CatalogueSettings carries the per-company defaults supplied by the
// configuration collaborator. Resolved once per request and passed down
// explicitly, never read ambiently mid-computation.
type CatalogueSettings struct {
	PageSize    int       `json:"pageSize"`
	MaxPageSize int       `json:"maxPageSize"`
	DefaultSort SortOrder `json:"defaultSort"`
	// ExcludedRubricIDs hides whole subtrees for a company (e.g. rubrics
	// sold only in other cities).
	ExcludedRubricIDs []string `json:"excludedRubricIds,omitempty"`
}

func (s CatalogueSettings) ClampPageSize(requested int) int {
	if requested <= 0 {
		return s.PageSize
	}
	if s.MaxPageSize > 0 && requested > s.MaxPageSize {
		return s.MaxPageSize
	}
	return requested
}
