package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ruetfest/festcrm/internal/core/authz"
	"github.com/ruetfest/festcrm/internal/core/domain"
	"github.com/ruetfest/festcrm/internal/core/ports"
	"github.com/ruetfest/festcrm/internal/export"
)

// reservedFields are stamped by the engine and never client-settable.
var reservedFields = []string{"_id", "created_at", "created_by"}

// EntityService is the generic resource engine: one instance per entity
// type, all behavioural differences carried by the descriptor.
type EntityService struct {
	desc ports.Descriptor
	repo ports.EntityRepository
	log  zerolog.Logger
}

func NewEntityService(desc ports.Descriptor, repo ports.EntityRepository, log zerolog.Logger) *EntityService {
	return &EntityService{desc: desc, repo: repo, log: log}
}

func (s *EntityService) Descriptor() ports.Descriptor { return s.desc }

func (s *EntityService) authorize(p *domain.Principal, op authz.Operation) error {
	if p == nil || !authz.Allowed(p.Role, s.desc.Type, op) {
		return domain.ErrUnauthorized
	}
	return nil
}

// Search matches term case-insensitively as a literal substring across the
// searchable fields and returns the reduced projection. An empty term yields
// an empty result, not a full listing.
func (s *EntityService) Search(ctx context.Context, p *domain.Principal, term string) ([]domain.Document, error) {
	if err := s.authorize(p, authz.OpSearch); err != nil {
		return nil, err
	}
	if term == "" {
		return []domain.Document{}, nil
	}
	docs, err := s.repo.Search(ctx, s.desc.Searchable, term, s.desc.SearchProjection)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.desc.Type, err)
	}
	return docs, nil
}

// Add validates required fields, rejects duplicate-key collisions, stamps
// creation time and creator, and writes one record.
func (s *EntityService) Add(ctx context.Context, p *domain.Principal, payload domain.Document) (string, error) {
	if err := s.authorize(p, authz.OpAdd); err != nil {
		return "", err
	}

	for _, field := range s.desc.Required {
		if strings.TrimSpace(payload.String(field)) == "" {
			return "", &domain.ValidationError{Field: field}
		}
	}

	filter := make(map[string]string, len(s.desc.DuplicateKeys))
	for _, key := range s.desc.DuplicateKeys {
		if v := strings.TrimSpace(payload.String(key)); v != "" {
			filter[key] = v
		}
	}
	if len(filter) > 0 {
		// Read-then-write: two concurrent adds with the same key can both
		// pass this check. Accepted for this load profile.
		_, err := s.repo.FindFirst(ctx, filter)
		if err == nil {
			return "", domain.ErrDuplicate
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("duplicate check %s: %w", s.desc.Type, err)
		}
	}

	doc := make(domain.Document, len(payload)+2)
	for k, v := range payload {
		doc[k] = v
	}
	for _, field := range reservedFields {
		delete(doc, field)
	}
	// Persist the duplicate keys exactly as probed, so "Acme " and "Acme"
	// land on the same stored value.
	for key, v := range filter {
		doc[key] = v
	}
	doc["created_at"] = time.Now().UTC()
	doc["created_by"] = p.Username

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", s.desc.Type, err)
	}
	s.log.Info().Str("entity", string(s.desc.Type)).Str("id", id).Str("by", p.Username).Msg("record added")
	return id, nil
}

// Get returns one full record by identifier.
func (s *EntityService) Get(ctx context.Context, p *domain.Principal, id string) (domain.Document, error) {
	if err := s.authorize(p, authz.OpGet); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// List returns every record, newest first.
func (s *EntityService) List(ctx context.Context, p *domain.Principal) ([]domain.Document, error) {
	if err := s.authorize(p, authz.OpList); err != nil {
		return nil, err
	}
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.desc.Type, err)
	}
	return docs, nil
}

// Update merges the named fields into the record. Fields the engine stamps
// itself are silently dropped; descriptor-level update-required fields must
// arrive non-blank.
func (s *EntityService) Update(ctx context.Context, p *domain.Principal, id string, fields domain.Document) error {
	if err := s.authorize(p, authz.OpUpdate); err != nil {
		return err
	}

	for _, field := range s.desc.UpdateRequired {
		if strings.TrimSpace(fields.String(field)) == "" {
			return &domain.ValidationError{Field: field}
		}
	}

	clean := make(domain.Document, len(fields))
	for k, v := range fields {
		clean[k] = v
	}
	for _, field := range reservedFields {
		delete(clean, field)
	}
	if len(clean) == 0 {
		return domain.ErrEmptyUpdate
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update %s: %w", s.desc.Type, err)
	}
	s.log.Info().Str("entity", string(s.desc.Type)).Str("id", id).Str("by", p.Username).Msg("record updated")
	return nil
}

// Delete removes the record matching the identifier.
func (s *EntityService) Delete(ctx context.Context, p *domain.Principal, id string) error {
	if err := s.authorize(p, authz.OpDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete %s: %w", s.desc.Type, err)
	}
	s.log.Info().Str("entity", string(s.desc.Type)).Str("id", id).Str("by", p.Username).Msg("record deleted")
	return nil
}

// Count returns the total record count for the type.
func (s *EntityService) Count(ctx context.Context, p *domain.Principal) (int64, error) {
	if err := s.authorize(p, authz.OpCount); err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.desc.Type, err)
	}
	return n, nil
}

// Export renders the full record set as a one-sheet workbook.
func (s *EntityService) Export(ctx context.Context, p *domain.Principal) ([]byte, string, error) {
	if err := s.authorize(p, authz.OpExport); err != nil {
		return nil, "", err
	}
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("export %s: %w", s.desc.Type, err)
	}

	recs := make([]map[string]any, len(docs))
	for i, d := range docs {
		recs[i] = d
	}
	headers, rows := export.BuildTable(s.desc.Export, recs)
	b, err := export.WriteXLSX(s.desc.SheetName, headers, rows)
	if err != nil {
		return nil, "", fmt.Errorf("export %s: %w", s.desc.Type, err)
	}
	return b, s.desc.ExportFileName, nil
}
