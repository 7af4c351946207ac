package facet

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// countingStore records the predicate used for each attribute pass and
// answers from a canned product table.
type countingStore struct {
	mu         sync.Mutex
	products   []map[string][]string
	predicates map[string]query.Predicate
	err        error
}

func (s *countingStore) GroupCount(ctx context.Context, p query.Predicate, attribute string) (map[string]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	if s.predicates == nil {
		s.predicates = map[string]query.Predicate{}
	}
	s.predicates[attribute] = p
	s.mu.Unlock()

	counts := map[string]int{}
	for _, product := range s.products {
		if !matches(product, p) {
			continue
		}
		for _, option := range product[attribute] {
			counts[option]++
		}
	}
	return counts, nil
}

func matches(product map[string][]string, p query.Predicate) bool {
	for _, clause := range p.Clauses {
		hit := false
		for _, option := range clause.Options {
			for _, have := range product[clause.Attribute] {
				if have == option {
					hit = true
				}
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func wineCandidates() []types.AttributeSpec {
	return []types.AttributeSpec{
		{ID: "a1", Slug: "color", NameI18n: types.TranslatedField{"en": "Color"}, Options: []types.OptionSpec{
			{ID: "o1", Slug: "red", NameI18n: types.TranslatedField{"en": "Red"}},
			{ID: "o2", Slug: "blue", NameI18n: types.TranslatedField{"en": "Blue"}},
		}},
		{ID: "a2", Slug: "brand", NameI18n: types.TranslatedField{"en": "Brand"}, Options: []types.OptionSpec{
			{ID: "o3", Slug: "acme", NameI18n: types.TranslatedField{"en": "Acme"}},
		}},
	}
}

func wineProducts() []map[string][]string {
	return []map[string][]string{
		{"color": {"red"}, "brand": {"acme"}},
		{"color": {"blue"}, "brand": {"acme"}},
		{"color": {"blue"}},
	}
}

func TestComputeFacets_SelfExclusion(t *testing.T) {
	s := &countingStore{products: wineProducts()}
	calc := &Calculator{Counter: s}
	scope := types.RubricScope{RubricSlug: "wine"}

	// Baseline: no filters at all.
	baseline, err := calc.ComputeFacets(context.Background(), types.FilterSet{}, scope, wineCandidates(), "en", "ru")
	if err != nil {
		t.Fatal(err)
	}

	// Selecting color-red must not change color's own counters.
	selected := types.FilterSet{Tokens: []types.FilterToken{{Attribute: "color", Option: "red"}}}
	facets, err := calc.ComputeFacets(context.Background(), selected, scope, wineCandidates(), "en", "ru")
	if err != nil {
		t.Fatal(err)
	}
	for i, o := range facets[0].Options {
		if o.Counter != baseline[0].Options[i].Counter {
			t.Errorf("option %s: counter changed under own-attribute selection: %d vs %d", o.Slug, o.Counter, baseline[0].Options[i].Counter)
		}
	}
	// But brand's counters do narrow: only the red product remains.
	if facets[1].Options[0].Counter != 1 {
		t.Errorf("expected brand acme narrowed to 1, got %d", facets[1].Options[0].Counter)
	}
	if p := s.predicates["color"]; p.HasAttribute("color") {
		t.Errorf("candidate attribute leaked into its own counting predicate: %+v", p)
	}
}

func TestComputeFacets_CrossAttributeNarrowing(t *testing.T) {
	s := &countingStore{products: wineProducts()}
	calc := &Calculator{Counter: s}
	selected := types.FilterSet{Tokens: []types.FilterToken{{Attribute: "brand", Option: "acme"}}}

	facets, err := calc.ComputeFacets(context.Background(), selected, types.RubricScope{RubricSlug: "wine"}, wineCandidates(), "en", "ru")
	if err != nil {
		t.Fatal(err)
	}
	// The brandless blue product drops out of color's counters.
	var red, blue int
	for _, o := range facets[0].Options {
		switch o.Slug {
		case "red":
			red = o.Counter
		case "blue":
			blue = o.Counter
		}
	}
	if red != 1 || blue != 1 {
		t.Errorf("expected red=1 blue=1 under brand filter, got red=%d blue=%d", red, blue)
	}
}

func TestComputeFacets_ZeroCountersRetained(t *testing.T) {
	s := &countingStore{products: []map[string][]string{{"color": {"red"}}}}
	calc := &Calculator{Counter: s}
	facets, err := calc.ComputeFacets(context.Background(), types.FilterSet{}, types.RubricScope{}, wineCandidates(), "en", "ru")
	if err != nil {
		t.Fatal(err)
	}
	if len(facets[0].Options) != 2 {
		t.Fatalf("zero-count options must stay listed, got %v", facets[0].Options)
	}
	for _, o := range facets[0].Options {
		if o.Slug == "blue" && o.Counter != 0 {
			t.Errorf("expected blue counter 0, got %d", o.Counter)
		}
	}
}

func TestComputeFacets_SelectionAndToggle(t *testing.T) {
	s := &countingStore{products: wineProducts()}
	calc := &Calculator{Counter: s}
	selected := types.FilterSet{Tokens: []types.FilterToken{{Attribute: "color", Option: "red"}}}

	facets, err := calc.ComputeFacets(context.Background(), selected, types.RubricScope{}, wineCandidates(), "en", "ru")
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range facets[0].Options {
		switch o.Slug {
		case "red":
			if !o.IsSelected || o.NextSlug != "" {
				t.Errorf("red: expected selected with empty toggle path, got %+v", o)
			}
		case "blue":
			if o.IsSelected || o.NextSlug != "color-blue/color-red" {
				t.Errorf("blue: unexpected toggle state %+v", o)
			}
		}
	}
}

func TestComputeFacets_ErrorAbortsAll(t *testing.T) {
	s := &countingStore{products: wineProducts(), err: errors.New("store down")}
	calc := &Calculator{Counter: s}
	facets, err := calc.ComputeFacets(context.Background(), types.FilterSet{}, types.RubricScope{}, wineCandidates(), "en", "ru")
	if err == nil {
		t.Fatal("expected error")
	}
	if facets != nil {
		t.Errorf("no partial facet list on failure, got %v", facets)
	}
}
