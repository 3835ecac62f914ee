package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/devfolio/devfolio-go/internal/model"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository persists flat JSON documents in named collections.
// One table serves all five portfolio entity types; filtering and ordering
// reach into the JSON payload with field names owned by the collection
// descriptors, never by request input.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Insert stores a new document, generating an ID and timestamps.
func (r *DocumentRepository) Insert(ctx context.Context, doc *model.Document) error {
	if doc.ID == "" {
		doc.ID = xid.New().String()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	query := `INSERT INTO documents (id, collection, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query, doc.ID, doc.Collection, data, doc.CreatedAt, doc.UpdatedAt)
	return err
}

// GetByID retrieves a document by ID within a collection.
func (r *DocumentRepository) GetByID(ctx context.Context, collection, id string) (*model.Document, error) {
	query := `SELECT id, collection, data, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	return doc, nil
}

// List returns every document in a collection, optionally filtered on one
// boolean data field, ordered per the given sort terms. There is no
// pagination; collections are small.
func (r *DocumentRepository) List(ctx context.Context, collection, filterField string, filterValue *bool, sort []model.SortOrder) ([]*model.Document, error) {
	query := `SELECT id, collection, data, created_at, updated_at FROM documents WHERE collection = ?`
	args := []any{collection}

	if filterField != "" && filterValue != nil {
		query += ` AND JSON_EXTRACT(data, ?) = CAST(? AS JSON)`
		args = append(args, "$."+filterField, fmt.Sprintf("%t", *filterValue))
	}

	if clause := orderClause(sort); clause != "" {
		query += " ORDER BY " + clause
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*model.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// Update rewrites a document's data in place. Last writer wins; there is
// no version check.
func (r *DocumentRepository) Update(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query, data, doc.UpdatedAt, doc.Collection, doc.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// Delete removes a document from a collection.
func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

// Count returns the number of documents in a collection.
func (r *DocumentRepository) Count(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&count)
	return count, err
}

// orderClause builds an ORDER BY expression from descriptor sort terms.
// Field names are compile-time constants from model.Collections, so
// interpolating them is safe.
func orderClause(sort []model.SortOrder) string {
	terms := make([]string, 0, len(sort))
	for _, s := range sort {
		expr := fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(data, '$.%s'))", s.Field)
		if s.Numeric {
			expr = fmt.Sprintf("CAST(JSON_EXTRACT(data, '$.%s') AS SIGNED)", s.Field)
		}
		if s.Desc {
			expr += " DESC"
		}
		terms = append(terms, expr)
	}
	return strings.Join(terms, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	doc := &model.Document{}
	var data []byte
	if err := row.Scan(&doc.ID, &doc.Collection, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &doc.Data); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", doc.ID, err)
	}
	return doc, nil
}
