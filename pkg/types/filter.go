package types

import "slices"

// FilterToken is one attribute-option pair taken from a URL path segment.
// Both slugs are non-empty, lowercase and separator-free.
type FilterToken struct {
	Attribute string `json:"attribute"`
	Option    string `json:"option"`
}

func (t FilterToken) Equals(other FilterToken) bool {
	return t.Attribute == other.Attribute && t.Option == other.Option
}

type SortOrder struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// FilterSet holds the structural filter tokens in request order plus the
// pseudo segments (page, sort, search) carried alongside them. Pseudo values
// are not part of the canonical comparable path.
type FilterSet struct {
	Tokens []FilterToken `json:"tokens"`
	Search string        `json:"search,omitempty"`
	Page   int           `json:"page,omitempty"`
	Sort   *SortOrder    `json:"sort,omitempty"`
}

func (f *FilterSet) HasToken(token FilterToken) bool {
	return slices.ContainsFunc(f.Tokens, token.Equals)
}

func (f *FilterSet) HasAttribute(slug string) bool {
	return slices.ContainsFunc(f.Tokens, func(t FilterToken) bool {
		return t.Attribute == slug
	})
}

// OptionsFor returns the selected option slugs for one attribute, in token
// order.
func (f *FilterSet) OptionsFor(slug string) []string {
	var options []string
	for _, t := range f.Tokens {
		if t.Attribute == slug {
			options = append(options, t.Option)
		}
	}
	return options
}

// WithoutAttribute copies the set minus every token of the given attribute.
// Used by the facet counter self-exclusion rule.
func (f *FilterSet) WithoutAttribute(slug string) FilterSet {
	result := FilterSet{
		Tokens: make([]FilterToken, 0, len(f.Tokens)),
		Search: f.Search,
		Page:   f.Page,
		Sort:   f.Sort,
	}
	for _, t := range f.Tokens {
		if t.Attribute != slug {
			result.Tokens = append(result.Tokens, t)
		}
	}
	return result
}

// Toggle copies the set with the token removed when present, appended when
// absent. Pagination resets on toggle since the result set changes.
func (f *FilterSet) Toggle(token FilterToken) FilterSet {
	result := FilterSet{
		Tokens: make([]FilterToken, 0, len(f.Tokens)+1),
		Search: f.Search,
		Sort:   f.Sort,
	}
	found := false
	for _, t := range f.Tokens {
		if t.Equals(token) {
			found = true
			continue
		}
		result.Tokens = append(result.Tokens, t)
	}
	if !found {
		result.Tokens = append(result.Tokens, token)
	}
	return result
}

func (f *FilterSet) IsEmpty() bool {
	return len(f.Tokens) == 0 && f.Search == ""
}

// Diagnostic records a segment that could not be applied. Parsing never
// fails; callers decide whether to surface these.
type Diagnostic struct {
	Segment string `json:"segment"`
	Reason  string `json:"reason"`
}

type Diagnostics []Diagnostic

func (d *Diagnostics) Add(segment, reason string) {
	*d = append(*d, Diagnostic{Segment: segment, Reason: reason})
}
