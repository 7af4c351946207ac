package locale

import (
	"slices"

	"github.com/matst80/slask-catalogue/pkg/types"
	"golang.org/x/text/language"
)

// Resolve projects a language-keyed field map to one display string.
// Order: requested locale, fallback locale, then the first non-empty value
// by sorted key so the pick is stable, then "". Never fails; callers always
// get something renderable.
func Resolve(fields types.TranslatedField, locale, fallback string) string {
	if v, ok := fields[locale]; ok && v != "" {
		return v
	}
	if v, ok := fields[fallback]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fields[k] != "" {
			return fields[k]
		}
	}
	return ""
}

// Matcher picks a supported display locale for an Accept-Language header.
type Matcher struct {
	supported []string
	matcher   language.Matcher
}

func NewMatcher(supported []string) *Matcher {
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	return &Matcher{supported: supported, matcher: language.NewMatcher(tags)}
}

// Match resolves the Accept-Language header value to one of the supported
// locale codes. An empty or unusable header yields the first supported
// locale.
func (m *Matcher) Match(acceptLanguage string) string {
	if len(m.supported) == 0 {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return m.supported[0]
	}
	_, index, _ := m.matcher.Match(tags...)
	return m.supported[index]
}
