package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/repository"
)

// CollectionService implements CRUD for one portfolio entity type. A single
// implementation serves all five collections; the descriptor supplies the
// required fields, defaults, list filter and ordering.
type CollectionService struct {
	repo *repository.DocumentRepository
	col  model.Collection
}

// NewCollectionService creates a CollectionService for one descriptor.
func NewCollectionService(repo *repository.DocumentRepository, col model.Collection) *CollectionService {
	return &CollectionService{repo: repo, col: col}
}

// Collection returns the descriptor this service was built from.
func (s *CollectionService) Collection() model.Collection {
	return s.col
}

// List returns the full collection, optionally filtered on the
// descriptor's boolean field. No pagination; callers get everything.
func (s *CollectionService) List(ctx context.Context, filter *bool) ([]map[string]any, error) {
	docs, err := s.repo.List(ctx, s.col.Name, s.col.FilterField, filter, s.col.Sort)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.col.Name, err)
	}

	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, render(doc))
	}
	return out, nil
}

// Get returns one record by ID.
func (s *CollectionService) Get(ctx context.Context, id string) (map[string]any, error) {
	doc, err := s.repo.GetByID(ctx, s.col.Name, id)
	if err != nil {
		return nil, err
	}
	return render(doc), nil
}

// Create validates required-field presence, applies the descriptor's
// defaults for absent fields, and stores the record.
func (s *CollectionService) Create(ctx context.Context, fields map[string]any) (map[string]any, error) {
	fields = stripReserved(fields)

	for _, field := range s.col.Required {
		if !present(fields[field]) {
			return nil, validationErr(s.col.RequiredMessage)
		}
	}

	if s.col.Defaults != nil {
		for k, v := range s.col.Defaults() {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}
	}

	doc := &model.Document{Collection: s.col.Name, Data: fields}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.col.Singular, err)
	}

	slog.Info("document created", "collection", s.col.Name, "id", doc.ID)
	return render(doc), nil
}

// Update merges the provided fields into the existing record. Only fields
// actually provided are validated: a required field may be omitted, but
// not blanked out. The merge is last-writer-wins.
func (s *CollectionService) Update(ctx context.Context, id string, fields map[string]any) (map[string]any, error) {
	fields = stripReserved(fields)

	for _, field := range s.col.Required {
		if v, ok := fields[field]; ok && !present(v) {
			return nil, validationErr(fmt.Sprintf("Field %q cannot be empty", field))
		}
	}

	doc, err := s.repo.GetByID(ctx, s.col.Name, id)
	if err != nil {
		return nil, err
	}

	for k, v := range fields {
		doc.Data[k] = v
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	slog.Info("document updated", "collection", s.col.Name, "id", doc.ID)
	return render(doc), nil
}

// Delete removes one record by ID.
func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, s.col.Name, id); err != nil {
		return err
	}
	slog.Info("document deleted", "collection", s.col.Name, "id", id)
	return nil
}

// render flattens a document into the API shape: data fields at the top
// level alongside id and the store-managed timestamps.
func render(doc *model.Document) map[string]any {
	out := make(map[string]any, len(doc.Data)+3)
	for k, v := range doc.Data {
		out[k] = v
	}
	out["id"] = doc.ID
	out["createdAt"] = doc.CreatedAt.Format(time.RFC3339)
	out["updatedAt"] = doc.UpdatedAt.Format(time.RFC3339)
	return out
}

// stripReserved drops fields the store owns so clients cannot overwrite
// them through create or update bodies.
func stripReserved(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "id", "createdAt", "updatedAt":
		default:
			out[k] = v
		}
	}
	return out
}

// present reports whether a decoded JSON value counts as supplied for
// required-field checks: nil, empty strings and empty arrays do not.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
