package store

import (
	"context"

	"github.com/matst80/slask-catalogue/pkg/query"
	"github.com/matst80/slask-catalogue/pkg/types"
)

// ResultPage is one sorted slice of the matching set plus its total size.
type ResultPage struct {
	Docs      []*types.Product
	TotalDocs int
}

// Store is the document-store contract the engine consumes. Two query
// primitives (find paginated + group-and-count) plus the scope lookups
// feeding candidate attributes. Relational, document or search-index
// backends all qualify; the engine never depends on the concrete one.
// Implementations own their timeout and retry policy; the engine only
// propagates the context.
type Store interface {
	FindPage(ctx context.Context, p query.Predicate, sort types.SortOrder, page, limit int) (*ResultPage, error)
	GroupCount(ctx context.Context, p query.Predicate, attributeSlug string) (map[string]int, error)
	Rubric(ctx context.Context, slug string) (*types.Rubric, error)
	RubricAttributes(ctx context.Context, scope types.RubricScope) ([]types.AttributeSpec, error)
}
