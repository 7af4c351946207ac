package catalogue

import (
	"context"
	"errors"
	"strings"

	"github.com/matst80/slask-catalogue/pkg/facet"
	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/segment"
	"github.com/matst80/slask-catalogue/pkg/store"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// SettingsSource supplies per-company catalogue defaults, resolved once per
// request before any computation starts.
type SettingsSource interface {
	CatalogueSettings(ctx context.Context, companyID, citySlug string) types.CatalogueSettings
}

// StaticSettings serves the same settings for every scope. Used standalone
// and as the fallback when no settings backend is configured.
type StaticSettings types.CatalogueSettings

func (s StaticSettings) CatalogueSettings(ctx context.Context, companyID, citySlug string) types.CatalogueSettings {
	return types.CatalogueSettings(s)
}

func DefaultSettings() StaticSettings {
	return StaticSettings{
		PageSize:    36,
		MaxPageSize: 100,
		DefaultSort: types.SortOrder{Field: "priority", Desc: true},
	}
}

// Engine runs one catalogue request end to end. Stateless between
// requests; everything it touches is either read-only store data or
// request-scoped values.
type Engine struct {
	Store    store.Store
	Settings SettingsSource
	facets   *facet.Calculator
}

func NewEngine(s store.Store, settings SettingsSource) *Engine {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Engine{
		Store:    s,
		Settings: settings,
		facets:   &facet.Calculator{Counter: s},
	}
}

type findOut struct {
	page *store.ResultPage
	err  error
}

type facetOut struct {
	facets []types.AttributeFacet
	err    error
}

// Browse turns raw path segments into a complete CataloguePage, a redirect
// hint, or an error. All redirect and not-found decisions happen before the
// payload is built; a returned page is always whole.
func (e *Engine) Browse(ctx context.Context, req types.CatalogueRequest) (*types.CataloguePage, error) {
	fs, diags := segment.Parse(req.Segments)
	if req.Search != "" {
		if fs.Search == "" {
			fs.Search = strings.ToLower(req.Search)
		} else {
			fs.Search += " " + strings.ToLower(req.Search)
		}
	}
	if req.Page > 0 {
		fs.Page = req.Page
	}
	if req.Sort != nil {
		fs.Sort = req.Sort
	}

	settings := e.Settings.CatalogueSettings(ctx, req.CompanyID, req.CitySlug)
	scope := types.RubricScope{
		RubricSlug:        req.RubricSlug,
		CompanyID:         req.CompanyID,
		CitySlug:          req.CitySlug,
		ExcludedRubricIDs: settings.ExcludedRubricIDs,
	}

	// Exactly one canonical URL per filter combination: anything else is
	// redirected before touching the store.
	if !segment.IsCanonical(req.Segments, fs) {
		return &types.CataloguePage{
			Redirect: joinPath(req.BasePath, segment.CanonicalPath(fs)),
			IsSearch: fs.Search != "",
			Warnings: diags,
		}, nil
	}

	var rubric *types.Rubric
	if scope.HasRubric() {
		r, err := e.Store.Rubric(ctx, scope.RubricSlug)
		if err != nil {
			return nil, scopeErr(err)
		}
		rubric = r
	}

	candidates, err := e.Store.RubricAttributes(ctx, scope)
	if err != nil {
		return nil, scopeErr(err)
	}

	validFS, dropDiags := query.ValidateTokens(fs, candidates)
	diags = append(diags, dropDiags...)

	page := max(fs.Page, 1)
	limit := settings.ClampPageSize(req.Limit)
	sortOrder := resolveSort(fs.Sort, settings.DefaultSort)
	predicate := query.Compile(validFS, scope)

	// The primary query and the facet passes are independent; run both
	// against the store and join before assembly.
	findChan := make(chan findOut, 1)
	facetsChan := make(chan facetOut, 1)
	go func() {
		result, err := e.Store.FindPage(ctx, predicate, sortOrder, page, limit)
		findChan <- findOut{page: result, err: err}
	}()
	go func() {
		facets, err := e.facets.ComputeFacets(ctx, validFS, scope, candidates, req.Locale, req.FallbackLocale)
		facetsChan <- facetOut{facets: facets, err: err}
	}()
	found := <-findChan
	counted := <-facetsChan

	// All or nothing: a failed half means no payload at all.
	if found.err != nil {
		return nil, storeErr(ctx, found.err)
	}
	if counted.err != nil {
		return nil, storeErr(ctx, counted.err)
	}

	total := found.page.TotalDocs
	pages := totalPages(total, limit)

	if total == 0 {
		if validFS.IsEmpty() {
			return nil, types.ErrNotFound
		}
		// Collapse an empty filtered view to the base scope path
		// instead of rendering nothing.
		return &types.CataloguePage{
			Redirect: req.BasePath,
			IsSearch: validFS.Search != "",
			Warnings: diags,
		}, nil
	}
	if page > pages {
		return &types.CataloguePage{
			Redirect: req.BasePath,
			IsSearch: validFS.Search != "",
			Warnings: diags,
		}, nil
	}

	return &types.CataloguePage{
		Docs:       decorate(found.page, req.Locale, req.FallbackLocale),
		TotalDocs:  total,
		Page:       page,
		TotalPages: pages,
		Facets:     counted.facets,
		Rubric:     decorateRubric(rubric, req.Locale, req.FallbackLocale),
		IsSearch:   validFS.Search != "",
		Warnings:   diags,
	}, nil
}

func joinPath(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + path
}

func scopeErr(err error) error {
	if errors.Is(err, types.ErrScopeNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return types.DataUnavailable(err)
}

func storeErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return types.DataUnavailable(err)
}
