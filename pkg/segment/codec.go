package segment

import (
	"strconv"
	"strings"

	"github.com/matst80/slask-catalogue/pkg/types"
)

// Separator splits a path segment into attribute and option slug. Slugs
// themselves are separator-free, so the first occurrence decides.
const Separator = "-"

// Reserved pseudo keys. Their values ride along in the FilterSet but are
// never part of the canonical comparable path.
const (
	keyPage    = "page"
	keySortBy  = "sortby"
	keySortDir = "sortdir"
	keySearch  = "search"
)

// Parse turns URL-decoded path segments into a FilterSet. Parsing never
// fails: malformed segments are dropped into the diagnostics, plain slugs
// without a separator degrade to free-text search terms, and an unusable
// page value falls back to page 1.
func Parse(segments []string) (types.FilterSet, types.Diagnostics) {
	fs := types.FilterSet{}
	var diags types.Diagnostics

	for _, raw := range segments {
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "" {
			continue
		}
		idx := strings.Index(s, Separator)
		if idx < 0 {
			// No separator, no pseudo key: opaque search term.
			if fs.Search == "" {
				fs.Search = s
			} else {
				fs.Search += " " + s
			}
			continue
		}
		key, value := s[:idx], s[idx+1:]
		if key == "" || value == "" {
			diags.Add(raw, "missing attribute or option slug")
			continue
		}
		switch key {
		case keyPage:
			page, err := strconv.Atoi(value)
			if err != nil || page < 1 {
				diags.Add(raw, "page is not a positive integer")
				fs.Page = 1
			} else {
				fs.Page = page
			}
		case keySearch:
			if fs.Search == "" {
				fs.Search = value
			} else {
				fs.Search += " " + value
			}
		case keySortBy:
			if fs.Sort == nil {
				fs.Sort = &types.SortOrder{}
			}
			fs.Sort.Field = value
		case keySortDir:
			if value != "asc" && value != "desc" {
				diags.Add(raw, "sort direction must be asc or desc")
				continue
			}
			if fs.Sort == nil {
				fs.Sort = &types.SortOrder{}
			}
			fs.Sort.Desc = value == "desc"
		default:
			if strings.Contains(value, Separator) {
				diags.Add(raw, "option slug contains separator")
				continue
			}
			fs.Tokens = append(fs.Tokens, types.FilterToken{Attribute: key, Option: value})
		}
	}
	return fs, diags
}

// Serialize is the inverse of Parse: structural tokens first, pseudo
// segments after, so Parse(Serialize(fs)) == fs for any parsed set.
func Serialize(fs types.FilterSet) string {
	parts := make([]string, 0, len(fs.Tokens)+4)
	for _, t := range fs.Tokens {
		parts = append(parts, t.Attribute+Separator+t.Option)
	}
	if fs.Search != "" {
		parts = append(parts, keySearch+Separator+fs.Search)
	}
	if fs.Page > 0 {
		parts = append(parts, keyPage+Separator+strconv.Itoa(fs.Page))
	}
	if fs.Sort != nil {
		parts = append(parts, keySortBy+Separator+fs.Sort.Field)
		dir := "asc"
		if fs.Sort.Desc {
			dir = "desc"
		}
		parts = append(parts, keySortDir+Separator+dir)
	}
	return strings.Join(parts, "/")
}
