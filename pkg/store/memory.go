package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// MemoryStore keeps the catalogue in inverted id sets, one DocList per
// indexed value. Reads take the shared lock, so concurrent catalogue
// requests never block each other; writers (catalogue sync) are rare.
type MemoryStore struct {
	mu             sync.RWMutex
	products       map[uint]*types.Product
	active         DocList
	all            DocList
	byOption       map[string]map[string]DocList
	byRubric       map[string]DocList
	byRubricID     map[string]DocList
	byCompany      map[string]DocList
	byCity         map[string]DocList
	byText         map[string]DocList
	rubrics        map[string]*types.Rubric
	attributes     map[string]types.AttributeSpec
	attributeOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   map[uint]*types.Product{},
		active:     DocList{},
		all:        DocList{},
		byOption:   map[string]map[string]DocList{},
		byRubric:   map[string]DocList{},
		byRubricID: map[string]DocList{},
		byCompany:  map[string]DocList{},
		byCity:     map[string]DocList{},
		byText:     map[string]DocList{},
		rubrics:    map[string]*types.Rubric{},
		attributes: map[string]types.AttributeSpec{},
	}
}

func (m *MemoryStore) AddRubric(r *types.Rubric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rubrics[r.Slug] = r
}

func (m *MemoryStore) AddAttribute(spec types.AttributeSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attributes[spec.Slug]; !ok {
		m.attributeOrder = append(m.attributeOrder, spec.Slug)
	}
	m.attributes[spec.Slug] = spec
}

// UpsertProduct replaces every indexed value for the product, then adds the
// new ones, so updates never leave stale links behind.
func (m *MemoryStore) UpsertProduct(p *types.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.products[p.ID]; ok {
		m.removeValues(current)
	}
	m.products[p.ID] = p
	m.addValues(p)
}

func (m *MemoryStore) DeleteProduct(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.products[id]; ok {
		m.removeValues(current)
		delete(m.products, id)
	}
}

func (m *MemoryStore) addValues(p *types.Product) {
	m.all.AddID(p.ID)
	if p.Active {
		m.active.AddID(p.ID)
	}
	for attribute, options := range p.Attributes {
		byValue, ok := m.byOption[attribute]
		if !ok {
			byValue = map[string]DocList{}
			m.byOption[attribute] = byValue
		}
		for _, option := range options {
			if option == "" {
				continue
			}
			if list, ok := byValue[option]; ok {
				list.AddID(p.ID)
			} else {
				byValue[option] = DocList{p.ID: struct{}{}}
			}
		}
	}
	for _, slug := range m.rubricChain(p.RubricSlug) {
		addTo(m.byRubric, slug, p.ID)
	}
	addTo(m.byRubricID, p.RubricID, p.ID)
	addTo(m.byCompany, p.CompanyID, p.ID)
	addTo(m.byCity, p.CitySlug, p.ID)
	for _, token := range textTokens(p) {
		addTo(m.byText, token, p.ID)
	}
}

func (m *MemoryStore) removeValues(p *types.Product) {
	delete(m.all, p.ID)
	delete(m.active, p.ID)
	for attribute, options := range p.Attributes {
		for _, option := range options {
			if list, ok := m.byOption[attribute][option]; ok {
				delete(list, p.ID)
			}
		}
	}
	for _, slug := range m.rubricChain(p.RubricSlug) {
		removeFrom(m.byRubric, slug, p.ID)
	}
	removeFrom(m.byRubricID, p.RubricID, p.ID)
	removeFrom(m.byCompany, p.CompanyID, p.ID)
	removeFrom(m.byCity, p.CitySlug, p.ID)
	for _, token := range textTokens(p) {
		removeFrom(m.byText, token, p.ID)
	}
}

// rubricChain walks from a rubric up to the root so a product is findable
// through every ancestor (descendant-of semantics).
func (m *MemoryStore) rubricChain(slug string) []string {
	var chain []string
	for slug != "" {
		chain = append(chain, slug)
		r, ok := m.rubrics[slug]
		if !ok || r.ParentSlug == slug {
			break
		}
		slug = r.ParentSlug
	}
	return chain
}

func addTo(index map[string]DocList, key string, id uint) {
	if key == "" {
		return
	}
	if list, ok := index[key]; ok {
		list.AddID(id)
	} else {
		index[key] = DocList{id: struct{}{}}
	}
}

func removeFrom(index map[string]DocList, key string, id uint) {
	if list, ok := index[key]; ok {
		delete(list, id)
	}
}

func textTokens(p *types.Product) []string {
	seen := map[string]struct{}{}
	collect := func(fields types.TranslatedField) {
		for _, value := range fields {
			for _, token := range tokenize(value) {
				seen[token] = struct{}{}
			}
		}
	}
	collect(p.NameI18n)
	collect(p.DescriptionI18n)
	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	return tokens
}

func tokenize(value string) []string {
	return strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// match evaluates the predicate to a fresh DocList. nil seed means the
// whole catalogue; each stage intersects it down.
func (m *MemoryStore) match(p query.Predicate) DocList {
	var result DocList

	seed := func(next DocList) {
		if result == nil {
			result = next.Clone()
		} else {
			result.Intersect(next)
		}
	}

	if p.RubricSlug != "" {
		seed(m.byRubric[p.RubricSlug])
	}
	if p.CompanyID != "" {
		seed(m.byCompany[p.CompanyID])
	}
	if p.CitySlug != "" {
		seed(m.byCity[p.CitySlug])
	}
	if p.ActiveOnly {
		seed(m.active)
	}

	for _, clause := range p.Clauses {
		union := DocList{}
		for _, option := range clause.Options {
			if list, ok := m.byOption[clause.Attribute][option]; ok {
				union.Merge(list)
			}
		}
		seed(union)
	}

	if p.Search != "" {
		for _, token := range tokenize(p.Search) {
			seed(m.byText[token])
		}
	}

	if result == nil {
		result = m.all.Clone()
	}
	for _, rubricID := range p.ExcludedRubricIDs {
		if list, ok := m.byRubricID[rubricID]; ok {
			result.Exclude(list)
		}
	}
	return result
}

func (m *MemoryStore) FindPage(ctx context.Context, p query.Predicate, sortOrder types.SortOrder, page, limit int) (*ResultPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.match(p)
	docs := make([]*types.Product, 0, len(matched))
	for id := range matched {
		docs = append(docs, m.products[id])
	}
	sortDocs(docs, sortOrder)

	total := len(docs)
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * limit
	if skip >= total {
		return &ResultPage{Docs: []*types.Product{}, TotalDocs: total}, nil
	}
	end := min(skip+limit, total)
	return &ResultPage{Docs: docs[skip:end], TotalDocs: total}, nil
}

// sortDocs orders by the requested field with the fixed tiebreakers
// priority desc, createdAt desc, id asc, so equal documents never reorder
// between requests. A zero-value order means priority desc.
func sortDocs(docs []*types.Product, order types.SortOrder) {
	if order.Field == "" {
		order = types.SortOrder{Field: "priority", Desc: true}
	}
	value := func(p *types.Product) int64 {
		switch order.Field {
		case "price":
			return int64(p.Price)
		case "createdat":
			return p.CreatedAt
		default:
			return int64(p.Priority)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		av, bv := value(a), value(b)
		if av != bv {
			if order.Desc {
				return av > bv
			}
			return av < bv
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID < b.ID
	})
}

func (m *MemoryStore) GroupCount(ctx context.Context, p query.Predicate, attributeSlug string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	base := m.match(p)
	counts := map[string]int{}
	for option, list := range m.byOption[attributeSlug] {
		counts[option] = base.IntersectionCount(list)
	}
	return counts, nil
}

func (m *MemoryStore) Rubric(ctx context.Context, slug string) (*types.Rubric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rubrics[slug]
	if !ok {
		return nil, fmt.Errorf("%w: rubric %q", types.ErrScopeNotFound, slug)
	}
	return r, nil
}

func (m *MemoryStore) RubricAttributes(ctx context.Context, scope types.RubricScope) ([]types.AttributeSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if scope.HasRubric() {
		r, ok := m.rubrics[scope.RubricSlug]
		if !ok {
			return nil, fmt.Errorf("%w: rubric %q", types.ErrScopeNotFound, scope.RubricSlug)
		}
		specs := make([]types.AttributeSpec, 0, len(r.AttributeSlugs))
		for _, slug := range r.AttributeSlugs {
			if spec, ok := m.attributes[slug]; ok {
				specs = append(specs, spec)
			}
		}
		return specs, nil
	}

	specs := make([]types.AttributeSpec, 0, len(m.attributeOrder))
	for _, slug := range m.attributeOrder {
		specs = append(specs, m.attributes[slug])
	}
	return specs, nil
}
