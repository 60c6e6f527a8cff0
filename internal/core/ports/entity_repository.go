package ports

import (
	"context"

	"github.com/ruetfest/festcrm/internal/core/domain"
)

// EntityRepository is the document-store surface the resource engine runs
// against, instantiated once per collection. Identifiers are opaque strings;
// malformed ones behave as unknown (domain.ErrNotFound), never as a crash.
type EntityRepository interface {
	// Insert writes one document and returns its generated identifier.
	Insert(ctx context.Context, doc domain.Document) (string, error)
	// FindByID returns the full document with a stringified "_id".
	FindByID(ctx context.Context, id string) (domain.Document, error)
	// FindAll returns every document, newest created_at first.
	FindAll(ctx context.Context) ([]domain.Document, error)
	// Search performs a case-insensitive unanchored substring match of term
	// (treated as a literal, not a pattern) OR-ed across fields, returning
	// only the projection fields.
	Search(ctx context.Context, fields []string, term string, projection []string) ([]domain.Document, error)
	// FindFirst returns one document whose fields equal the filter values, or
	// domain.ErrNotFound.
	FindFirst(ctx context.Context, filter map[string]string) (domain.Document, error)
	// Update applies a field-level merge; absent fields keep prior values.
	Update(ctx context.Context, id string, fields domain.Document) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
