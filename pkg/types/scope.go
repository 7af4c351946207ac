package types

// TranslatedField maps a locale code to a display string.
type TranslatedField map[string]string

// RubricScope pins a request to one catalogue subtree. Built once per
// request from route parameters, read-only afterwards. An empty RubricSlug
// means the unscoped cross-rubric view used for search results.
type RubricScope struct {
	RubricSlug        string   `json:"rubricSlug,omitempty"`
	CompanyID         string   `json:"companyId"`
	CitySlug          string   `json:"citySlug"`
	ExcludedRubricIDs []string `json:"excludedRubricIds,omitempty"`
}

func (s RubricScope) HasRubric() bool {
	return s.RubricSlug != ""
}

type Rubric struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug"`
	ParentSlug      string          `json:"parentSlug,omitempty"`
	NameI18n        TranslatedField `json:"nameI18n"`
	DescriptionI18n TranslatedField `json:"descriptionI18n,omitempty"`
	// AttributeSlugs lists the attributes configured as filterable for
	// this subtree, in sidebar display order.
	AttributeSlugs []string `json:"attributeSlugs"`
	Active         bool     `json:"active"`
}

const (
	ViewStandard       = "standard"
	ViewMultipleSelect = "multipleSelect"
	ViewCheckbox       = "checkbox"
)

// AttributeSpec describes one filterable attribute and its candidate
// options for a rubric scope. Supplied by the store, never persisted here.
type AttributeSpec struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	NameI18n    TranslatedField `json:"nameI18n"`
	ViewVariant string          `json:"viewVariant"`
	Options     []OptionSpec    `json:"options"`
}

func (a *AttributeSpec) HasOption(slug string) bool {
	for _, o := range a.Options {
		if o.Slug == slug {
			return true
		}
	}
	return false
}

type OptionSpec struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	NameI18n TranslatedField `json:"nameI18n"`
}
