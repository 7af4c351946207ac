package types

// Product is the stored catalogue document. Display strings live in the
// translated maps; the assembler projects them for one locale.
type Product struct {
	ID              uint                `json:"id"`
	Slug            string              `json:"slug"`
	NameI18n        TranslatedField     `json:"nameI18n"`
	DescriptionI18n TranslatedField     `json:"descriptionI18n,omitempty"`
	RubricID        string              `json:"rubricId"`
	RubricSlug      string              `json:"rubricSlug"`
	CompanyID       string              `json:"companyId"`
	CitySlug        string              `json:"citySlug"`
	Active          bool                `json:"active"`
	Price           int                 `json:"price"`
	Priority        int                 `json:"priority"`
	CreatedAt       int64               `json:"createdAt"`
	Attributes      map[string][]string `json:"attributes"`
}

func (p *Product) HasOption(attribute, option string) bool {
	for _, o := range p.Attributes[attribute] {
		if o == option {
			return true
		}
	}
	return false
}

// ProductView is a product decorated with locale-resolved display fields.
type ProductView struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	RubricSlug  string `json:"rubricSlug"`
	Price       int    `json:"price"`
	CreatedAt   int64  `json:"createdAt"`
}

type RubricView struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
