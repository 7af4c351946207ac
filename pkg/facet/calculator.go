package facet

import (
	"context"
	"sync"

	"github.com/matst80/slask-catalogue/pkg/locale"
	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/segment"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// Counter is the single store primitive the calculator needs.
type Counter interface {
	GroupCount(ctx context.Context, p query.Predicate, attributeSlug string) (map[string]int, error)
}

type Calculator struct {
	Counter Counter
}

// ComputeFacets builds one AttributeFacet per candidate attribute. Each
// counting pass applies every other attribute's filters plus scope but not
// the candidate's own tokens, so toggling an option never hides its sibling
// counters while selections on other attributes still narrow them. One
// grouped pass per attribute keeps cost linear in the number of filterable
// attributes, not options.
//
// Passes are independent and run concurrently; the first store error wins
// and no partial facet list is returned.
func (c *Calculator) ComputeFacets(ctx context.Context, fs types.FilterSet, scope types.RubricScope, candidates []types.AttributeSpec, loc, fallback string) ([]types.AttributeFacet, error) {
	results := make([]types.AttributeFacet, len(candidates))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, spec types.AttributeSpec) {
			defer wg.Done()
			withoutSelf := fs.WithoutAttribute(spec.Slug)
			counts, err := c.Counter.GroupCount(ctx, query.Compile(withoutSelf, scope), spec.Slug)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = buildFacet(spec, counts, fs, loc, fallback)
		}(i, candidate)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// buildFacet decorates every candidate option, zero counters included, so
// the caller decides between greying out and hiding. Selection state and
// the toggle path come straight from the parsed set, no extra query.
func buildFacet(spec types.AttributeSpec, counts map[string]int, fs types.FilterSet, loc, fallback string) types.AttributeFacet {
	options := make([]types.OptionFacet, 0, len(spec.Options))
	for _, o := range spec.Options {
		token := types.FilterToken{Attribute: spec.Slug, Option: o.Slug}
		options = append(options, types.OptionFacet{
			ID:         o.ID,
			Slug:       o.Slug,
			Name:       locale.Resolve(o.NameI18n, loc, fallback),
			Counter:    counts[o.Slug],
			IsSelected: fs.HasToken(token),
			NextSlug:   segment.ToggledPath(fs, token),
		})
	}
	return types.AttributeFacet{
		ID:          spec.ID,
		Slug:        spec.Slug,
		Name:        locale.Resolve(spec.NameI18n, loc, fallback),
		ViewVariant: spec.ViewVariant,
		Options:     options,
	}
}
