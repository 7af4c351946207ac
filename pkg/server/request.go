package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// CatalogueQuery carries the pseudo values of the calling convention:
// pagination, sort and search travel as query parameters, never as path
// segments.
type CatalogueQuery struct {
	Page   int    `schema:"page"`
	Size   int    `schema:"size"`
	Sort   string `schema:"sort"`
	Dir    string `schema:"dir"`
	Search string `schema:"search"`
}

func decodeQuery(r *http.Request) CatalogueQuery {
	q := CatalogueQuery{}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	// A malformed value leaves its field at zero, which means the
	// configured default downstream. Valid keys still decode.
	_ = decoder.Decode(&q, r.URL.Query())
	return q
}

func (q CatalogueQuery) sortOrder() *types.SortOrder {
	if q.Sort == "" {
		return nil
	}
	return &types.SortOrder{Field: strings.ToLower(q.Sort), Desc: q.Dir != "asc"}
}

// catalogueRequestFromPath splits /catalogue/{company}/{city}/{rubric} or
// /search/{company}/{city} plus trailing filter segments into the engine's
// input contract.
func catalogueRequestFromPath(r *http.Request, locale, fallback string) (types.CatalogueRequest, error) {
	trimmed := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 {
		return types.CatalogueRequest{}, fmt.Errorf("path %q is missing scope segments", r.URL.Path)
	}

	route, companyID, citySlug := parts[0], parts[1], parts[2]
	req := types.CatalogueRequest{
		CompanyID:      companyID,
		CitySlug:       citySlug,
		Locale:         locale,
		FallbackLocale: fallback,
	}
	switch route {
	case "catalogue":
		if len(parts) < 4 {
			return types.CatalogueRequest{}, fmt.Errorf("path %q is missing a rubric", r.URL.Path)
		}
		req.RubricSlug = parts[3]
		req.Segments = parts[4:]
		req.BasePath = "/catalogue/" + companyID + "/" + citySlug + "/" + req.RubricSlug
	case "search":
		req.Segments = parts[3:]
		req.BasePath = "/search/" + companyID + "/" + citySlug
	default:
		return types.CatalogueRequest{}, fmt.Errorf("unknown route %q", route)
	}

	q := decodeQuery(r)
	req.Page = q.Page
	req.Limit = q.Size
	req.Search = q.Search
	req.Sort = q.sortOrder()
	return req, nil
}
