package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cookideas/server/internal/models"
	"github.com/cookideas/server/internal/storage"
)

// DocumentService stores document content in object storage and its metadata
// in the documents table.
type DocumentService struct {
	db      *sql.DB
	objects *storage.Client
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(db *sql.DB, objects *storage.Client) *DocumentService {
	return &DocumentService{db: db, objects: objects}
}

// Upload stores the content and records its metadata. The object is keyed by
// a fresh UUID so renames never touch storage.
func (s *DocumentService) Upload(ctx context.Context, ideaID, uploadedBy, name, contentType string, content io.Reader, size int64) (*models.Document, error) {
	if name == "" {
		return nil, newError(ErrCodeInvalidInput, "name is required")
	}

	id := uuid.New().String()
	key := id
	if err := s.objects.PutObject(ctx, ideaID, key, content, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (id, idea_id, name, object_key, content_type, size, uploaded_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, ideaID, name, key, contentType, size, uploadedBy, now,
	)
	if err != nil {
		// Best effort: the metadata insert failed, drop the orphan object.
		s.objects.DeleteObject(ctx, ideaID, key)
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	return &models.Document{
		ID:          id,
		IdeaID:      ideaID,
		Name:        name,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Unix(now, 0),
	}, nil
}

// Get retrieves a document's metadata.
func (s *DocumentService) Get(ctx context.Context, ideaID, docID string) (*models.Document, error) {
	var d models.Document
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, idea_id, name, object_key, content_type, size, uploaded_by, created_at FROM documents WHERE id = ? AND idea_id = ?",
		docID, ideaID,
	).Scan(&d.ID, &d.IdeaID, &d.Name, &d.ObjectKey, &d.ContentType, &d.Size, &d.UploadedBy, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, newError(ErrCodeNotFound, "document not found")
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	d.CreatedAt = time.Unix(createdAt, 0)
	return &d, nil
}

// Open returns the stored content for download.
func (s *DocumentService) Open(ctx context.Context, ideaID, docID string) (*models.Document, *storage.GetObjectResult, error) {
	doc, err := s.Get(ctx, ideaID, docID)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.objects.GetObject(ctx, ideaID, doc.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, obj, nil
}

// List returns the idea's documents, newest first.
func (s *DocumentService) List(ctx context.Context, ideaID string) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, idea_id, name, object_key, content_type, size, uploaded_by, created_at FROM documents WHERE idea_id = ? ORDER BY created_at DESC",
		ideaID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var d models.Document
		var createdAt int64
		if err := rows.Scan(&d.ID, &d.IdeaID, &d.Name, &d.ObjectKey, &d.ContentType, &d.Size, &d.UploadedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.CreatedAt = time.Unix(createdAt, 0)
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// Delete removes the metadata row and the stored object.
func (s *DocumentService) Delete(ctx context.Context, ideaID, docID string) error {
	doc, err := s.Get(ctx, ideaID, docID)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", docID); err != nil {
		return wrapError(ErrCodeDeleteFailed, "failed to delete document", err)
	}
	if err := s.objects.DeleteObject(ctx, ideaID, doc.ObjectKey); err != nil && err != storage.ErrDisabled {
		return fmt.Errorf("failed to delete stored object: %w", err)
	}
	return nil
}
