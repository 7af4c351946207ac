package catalogue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/store"
	"github.com/matst80/slask-catalogue/pkg/types"
)

func wineStore(productCount int) *store.MemoryStore {
	m := store.NewMemoryStore()
	m.AddRubric(&types.Rubric{
		ID: "r1", Slug: "wine", Active: true,
		NameI18n:       types.TranslatedField{"en": "Wine", "ru": "Вино"},
		AttributeSlugs: []string{"color", "brand"},
	})
	m.AddAttribute(types.AttributeSpec{ID: "a1", Slug: "color", NameI18n: types.TranslatedField{"en": "Color"}, Options: []types.OptionSpec{
		{ID: "o1", Slug: "red", NameI18n: types.TranslatedField{"en": "Red"}},
		{ID: "o2", Slug: "white", NameI18n: types.TranslatedField{"en": "White"}},
	}})
	m.AddAttribute(types.AttributeSpec{ID: "a2", Slug: "brand", NameI18n: types.TranslatedField{"en": "Brand"}, Options: []types.OptionSpec{
		{ID: "o3", Slug: "acme", NameI18n: types.TranslatedField{"en": "Acme"}},
	}})
	for i := 1; i <= productCount; i++ {
		color := "red"
		if i%3 == 0 {
			color = "white"
		}
		attrs := map[string][]string{"color": {color}}
		if i%2 == 0 {
			attrs["brand"] = []string{"acme"}
		}
		m.UpsertProduct(&types.Product{
			ID:         uint(i),
			Slug:       fmt.Sprintf("wine-%d", i),
			NameI18n:   types.TranslatedField{"en": fmt.Sprintf("Wine %d", i), "ru": fmt.Sprintf("Вино %d", i)},
			RubricID:   "r1",
			RubricSlug: "wine",
			CompanyID:  "c1",
			CitySlug:   "msk",
			Active:     true,
			Price:      i * 10,
			Priority:   i,
			CreatedAt:  int64(i),
			Attributes: attrs,
		})
	}
	return m
}

func wineRequest(segments ...string) types.CatalogueRequest {
	return types.CatalogueRequest{
		Segments:       segments,
		BasePath:       "/catalogue/c1/msk/wine",
		RubricSlug:     "wine",
		CompanyID:      "c1",
		CitySlug:       "msk",
		Locale:         "en",
		FallbackLocale: "ru",
	}
}

func TestBrowse_CompletePage(t *testing.T) {
	e := NewEngine(wineStore(5), nil)
	page, err := e.Browse(context.Background(), wineRequest())
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalDocs != 5 || page.Redirect != "" {
		t.Errorf("unexpected page %+v", page)
	}
	if len(page.Facets) != 2 {
		t.Fatalf("expected 2 facets, got %d", len(page.Facets))
	}
	if page.Rubric == nil || page.Rubric.Name != "Wine" {
		t.Errorf("rubric not decorated: %+v", page.Rubric)
	}
	if page.Docs[0].Name == "" {
		t.Errorf("docs must carry locale-resolved names")
	}
}

func TestBrowse_NonCanonicalRedirect(t *testing.T) {
	e := NewEngine(wineStore(5), nil)
	page, err := e.Browse(context.Background(), wineRequest("color-red", "brand-acme"))
	if err != nil {
		t.Fatal(err)
	}
	if page.Redirect != "/catalogue/c1/msk/wine/brand-acme/color-red" {
		t.Errorf("expected canonical redirect, got %q", page.Redirect)
	}
	if page.Docs != nil {
		t.Errorf("redirect result must not carry a payload")
	}
}

func TestBrowse_PaginationBounds(t *testing.T) {
	e := NewEngine(wineStore(23), StaticSettings{PageSize: 10, MaxPageSize: 100, DefaultSort: types.SortOrder{Field: "priority", Desc: true}})
	page, err := e.Browse(context.Background(), wineRequest())
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages for 23 docs at limit 10, got %d", page.TotalPages)
	}

	req := wineRequest()
	req.Page = 4
	overflow, err := e.Browse(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if overflow.Redirect != "/catalogue/c1/msk/wine" {
		t.Errorf("page overflow must collapse to the base path, got %+v", overflow)
	}
	if len(overflow.Docs) != 0 {
		t.Errorf("overflow must not return an empty docs page")
	}
}

func TestBrowse_MonotonicNarrowing(t *testing.T) {
	e := NewEngine(wineStore(20), nil)
	base, err := e.Browse(context.Background(), wineRequest())
	if err != nil {
		t.Fatal(err)
	}
	narrowed, err := e.Browse(context.Background(), wineRequest("color-red"))
	if err != nil {
		t.Fatal(err)
	}
	further, err := e.Browse(context.Background(), wineRequest("brand-acme", "color-red"))
	if err != nil {
		t.Fatal(err)
	}
	if narrowed.TotalDocs > base.TotalDocs || further.TotalDocs > narrowed.TotalDocs {
		t.Errorf("adding filters must never grow the result: %d -> %d -> %d",
			base.TotalDocs, narrowed.TotalDocs, further.TotalDocs)
	}
}

func TestBrowse_EmptyFilteredCollapses(t *testing.T) {
	m := wineStore(5)
	// white+acme never co-occur for ids 1..5 (only 3 is white, 3 has no brand).
	e := NewEngine(m, nil)
	page, err := e.Browse(context.Background(), wineRequest("brand-acme", "color-white"))
	if err != nil {
		t.Fatal(err)
	}
	if page.Redirect != "/catalogue/c1/msk/wine" {
		t.Errorf("empty filtered view must redirect to base, got %+v", page)
	}
}

func TestBrowse_EmptyScopeNotFound(t *testing.T) {
	m := store.NewMemoryStore()
	m.AddRubric(&types.Rubric{ID: "r1", Slug: "wine", Active: true})
	e := NewEngine(m, nil)
	_, err := e.Browse(context.Background(), wineRequest())
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("empty unfiltered scope must be not-found, got %v", err)
	}
}

func TestBrowse_ScopeNotFound(t *testing.T) {
	e := NewEngine(wineStore(5), nil)
	req := wineRequest()
	req.RubricSlug = "beer"
	req.BasePath = "/catalogue/c1/msk/beer"
	_, err := e.Browse(context.Background(), req)
	if !errors.Is(err, types.ErrScopeNotFound) {
		t.Errorf("expected ErrScopeNotFound, got %v", err)
	}
}

func TestBrowse_StaleTokensDropped(t *testing.T) {
	e := NewEngine(wineStore(5), nil)
	page, err := e.Browse(context.Background(), wineRequest("vintage-1999"))
	if err != nil {
		t.Fatal(err)
	}
	// The stale attribute never compiles to an always-false predicate.
	if page.TotalDocs != 5 {
		t.Errorf("expected full result after dropping the stale token, got %d", page.TotalDocs)
	}
	if len(page.Warnings) != 1 {
		t.Errorf("expected one diagnostic, got %v", page.Warnings)
	}
}

func TestBrowse_Scenario_SortIsQueryNotIdentity(t *testing.T) {
	e := NewEngine(wineStore(10), nil)
	page, err := e.Browse(context.Background(), wineRequest("color-red", "sortBy-price", "sortDir-desc"))
	if err != nil {
		t.Fatal(err)
	}
	// Sort pseudo segments in the path are not canonical; the redirect
	// keeps only color-red.
	if page.Redirect != "/catalogue/c1/msk/wine/color-red" {
		t.Errorf("expected redirect to color-red, got %q", page.Redirect)
	}
}

func TestBrowse_SortAppliedFromQuery(t *testing.T) {
	e := NewEngine(wineStore(10), nil)
	req := wineRequest("color-red")
	// Sort arrives as query parameters in the calling convention. Price
	// ascending inverts the default priority-desc order in this fixture.
	req.Sort = &types.SortOrder{Field: "price"}
	page, err := e.Browse(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if page.Redirect != "" {
		t.Fatalf("canonical path must not redirect, got %q", page.Redirect)
	}
	if page.Docs[0].Price != 10 {
		t.Errorf("expected cheapest document first under price asc, got %+v", page.Docs[0])
	}
	for i := 1; i < len(page.Docs); i++ {
		if page.Docs[i].Price < page.Docs[i-1].Price {
			t.Errorf("price asc violated at %d: %v before %v", i, page.Docs[i-1].Price, page.Docs[i].Price)
		}
	}
}

type failingStore struct {
	*store.MemoryStore
}

func (f *failingStore) FindPage(ctx context.Context, p query.Predicate, sort types.SortOrder, page, limit int) (*store.ResultPage, error) {
	return nil, errors.New("connection reset")
}

func TestBrowse_DataUnavailable(t *testing.T) {
	e := NewEngine(&failingStore{wineStore(5)}, nil)
	page, err := e.Browse(context.Background(), wineRequest())
	if !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
	if page != nil {
		t.Errorf("no partial payload on store failure, got %+v", page)
	}
}

func TestBrowse_CancelledContext(t *testing.T) {
	e := NewEngine(wineStore(5), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Browse(ctx, wineRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
