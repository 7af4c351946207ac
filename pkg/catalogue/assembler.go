package catalogue

import (
	"github.com/matst80/slask-catalogue/pkg/locale"
	"github.com/matst80/slask-catalogue/pkg/store"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// Fields the sort pseudo segment may reference. Anything else falls back
// to the configured default.
var sortFields = map[string]struct{}{
	"price":     {},
	"createdat": {},
	"priority":  {},
}

func resolveSort(requested *types.SortOrder, fallback types.SortOrder) types.SortOrder {
	if requested == nil {
		return fallback
	}
	if _, ok := sortFields[requested.Field]; !ok {
		return fallback
	}
	return *requested
}

func totalPages(totalDocs, limit int) int {
	if limit < 1 {
		return 0
	}
	return (totalDocs + limit - 1) / limit
}

// decorate projects locale-resolved display fields onto the returned
// documents. Products stay untouched; the views are request-scoped copies.
func decorate(result *store.ResultPage, loc, fallback string) []types.ProductView {
	docs := make([]types.ProductView, 0, len(result.Docs))
	for _, p := range result.Docs {
		docs = append(docs, types.ProductView{
			ID:          p.ID,
			Slug:        p.Slug,
			Name:        locale.Resolve(p.NameI18n, loc, fallback),
			Description: locale.Resolve(p.DescriptionI18n, loc, fallback),
			RubricSlug:  p.RubricSlug,
			Price:       p.Price,
			CreatedAt:   p.CreatedAt,
		})
	}
	return docs
}

func decorateRubric(r *types.Rubric, loc, fallback string) *types.RubricView {
	if r == nil {
		return nil
	}
	return &types.RubricView{
		ID:          r.ID,
		Slug:        r.Slug,
		Name:        locale.Resolve(r.NameI18n, loc, fallback),
		Description: locale.Resolve(r.DescriptionI18n, loc, fallback),
	}
}
