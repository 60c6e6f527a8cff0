package ports

import (
	"context"

	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/export"
)

// Descriptor configures one instantiation of the generic resource engine.
// All behavioural differences between entity types live here; the engine
// itself is identical for every type.
type Descriptor struct {
	Type       domain.EntityType
	Slug       string // URL path segment, e.g. "sponsors"
	Collection string

	// Required fields must be present and non-blank on add.
	Required []string
	// Searchable fields participate in the substring search.
	Searchable []string
	// DuplicateKeys block an add when they equal an existing record's values.
	// Keys with no provided value are excluded from the check.
	DuplicateKeys []string
	// SearchProjection is the reduced field set search responses expose.
	SearchProjection []string
	// UpdateRequired fields must be non-blank whenever an update names any
	// field at all (a narrower check than the add-time Required set).
	UpdateRequired []string

	Export         export.Mapping
	ExportFileName string
	SheetName      string
}

// EntityService is the per-type resource engine. Every operation takes the
// request principal explicitly and consults the authorization policy before
// touching storage; a denial has no side effects.
type EntityService interface {
	Descriptor() Descriptor
	Search(ctx context.Context, p *domain.Principal, term string) ([]domain.Document, error)
	Add(ctx context.Context, p *domain.Principal, payload domain.Document) (string, error)
	Get(ctx context.Context, p *domain.Principal, id string) (domain.Document, error)
	List(ctx context.Context, p *domain.Principal) ([]domain.Document, error)
	Update(ctx context.Context, p *domain.Principal, id string, fields domain.Document) error
	Delete(ctx context.Context, p *domain.Principal, id string) error
	Count(ctx context.Context, p *domain.Principal) (int64, error)
	// Export renders the full record set as a spreadsheet and returns the
	// bytes plus the download file name.
	Export(ctx context.Context, p *domain.Principal) ([]byte, string, error)
}
