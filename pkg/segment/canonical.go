package segment

import (
	"slices"
	"strings"

	"github.com/matst80/slask-catalogue/pkg/types"
)

func compareTokens(a, b types.FilterToken) int {
	if c := strings.Compare(a.Attribute, b.Attribute); c != 0 {
		return c
	}
	return strings.Compare(a.Option, b.Option)
}

// Canonicalize returns the set with its structural tokens in the one
// definitive order: sorted by (attribute, option) with exact duplicates
// collapsed. A pure function of the token multiset, so any permutation of
// the same filters yields the same sequence. Pseudo values pass through
// untouched; they never affect catalogue identity.
func Canonicalize(fs types.FilterSet) types.FilterSet {
	result := types.FilterSet{
		Tokens: slices.Clone(fs.Tokens),
		Search: fs.Search,
		Page:   fs.Page,
		Sort:   fs.Sort,
	}
	slices.SortFunc(result.Tokens, compareTokens)
	result.Tokens = slices.CompactFunc(result.Tokens, types.FilterToken.Equals)
	return result
}

// CanonicalPath serializes only the sorted structural tokens. Pagination,
// sort and search ride as query parameters in the calling convention, so
// they are excluded from the comparable path.
func CanonicalPath(fs types.FilterSet) string {
	canonical := Canonicalize(fs)
	parts := make([]string, 0, len(canonical.Tokens))
	for _, t := range canonical.Tokens {
		parts = append(parts, t.Attribute+Separator+t.Option)
	}
	return strings.Join(parts, "/")
}

// IsCanonical reports whether the raw request segments already spell the
// canonical path. Anything else (reordered tokens, duplicates, pseudo or
// malformed segments in the path) calls for a permanent redirect, keeping
// exactly one indexable URL per filter combination.
func IsCanonical(segments []string, fs types.FilterSet) bool {
	return strings.Join(segments, "/") == CanonicalPath(fs)
}

// ToggledPath returns the canonical path after toggling one option on top
// of the active filters. Computed purely from the parsed set, no query
// needed.
func ToggledPath(fs types.FilterSet, token types.FilterToken) string {
	next := fs.Toggle(token)
	return CanonicalPath(next)
}
