package query

import (
	"slices"

	"github.com/matst80/slask-catalogue/pkg/types"
)

// Compile turns a FilterSet and a scope into a Predicate. Tokens group by
// attribute with OR semantics inside one attribute and AND semantics across
// attributes. Clause and option order is canonical (sorted) so the same
// filter multiset always compiles to the same predicate, which keeps cache
// keys stable.
func Compile(fs types.FilterSet, scope types.RubricScope) Predicate {
	grouped := make(map[string][]string)
	order := make([]string, 0, len(fs.Tokens))
	for _, t := range fs.Tokens {
		if _, seen := grouped[t.Attribute]; !seen {
			order = append(order, t.Attribute)
		}
		if !slices.Contains(grouped[t.Attribute], t.Option) {
			grouped[t.Attribute] = append(grouped[t.Attribute], t.Option)
		}
	}
	slices.Sort(order)

	clauses := make([]AttributeClause, 0, len(order))
	for _, attribute := range order {
		options := grouped[attribute]
		slices.Sort(options)
		clauses = append(clauses, AttributeClause{Attribute: attribute, Options: options})
	}

	return Predicate{
		Clauses:           clauses,
		Search:            fs.Search,
		RubricSlug:        scope.RubricSlug,
		CompanyID:         scope.CompanyID,
		CitySlug:          scope.CitySlug,
		ExcludedRubricIDs: scope.ExcludedRubricIDs,
		ActiveOnly:        true,
	}
}

// ValidateTokens drops tokens referencing attributes or options that do not
// exist in the rubric's configured attribute list. Stale links then fall
// back to a broader result instead of an always-false predicate and an
// accidental empty page. Returns the surviving set and a diagnostic per
// dropped token.
func ValidateTokens(fs types.FilterSet, candidates []types.AttributeSpec) (types.FilterSet, types.Diagnostics) {
	bySlug := make(map[string]*types.AttributeSpec, len(candidates))
	for i := range candidates {
		bySlug[candidates[i].Slug] = &candidates[i]
	}

	result := types.FilterSet{
		Tokens: make([]types.FilterToken, 0, len(fs.Tokens)),
		Search: fs.Search,
		Page:   fs.Page,
		Sort:   fs.Sort,
	}
	var diags types.Diagnostics
	for _, t := range fs.Tokens {
		spec, ok := bySlug[t.Attribute]
		if !ok {
			diags.Add(t.Attribute+"-"+t.Option, "unknown attribute for this rubric")
			continue
		}
		if !spec.HasOption(t.Option) {
			diags.Add(t.Attribute+"-"+t.Option, "unknown option for this attribute")
			continue
		}
		result.Tokens = append(result.Tokens, t)
	}
	return result, diags
}
