package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/persistence"
)

// DocumentStore serializes the whole document to a blob store under one key.
type DocumentStore struct {
	blobs  persistence.BlobStore
	key    string
	logger *slog.Logger
}

// NewDocumentStore adapts a blob store. An empty key uses persistence.DefaultKey.
func NewDocumentStore(blobs persistence.BlobStore, key string, logger *slog.Logger) *DocumentStore {
	if key == "" {
		key = persistence.DefaultKey
	}
	return &DocumentStore{blobs: blobs, key: key, logger: defaultLogger(logger)}
}

// Key returns the blob key the document is stored under.
func (s *DocumentStore) Key() string {
	return s.key
}

// Load returns the stored document. When nothing is stored, the blob cannot be
// read, or it does not decode, the document built by seed is returned instead;
// only seed failures are reported.
func (s *DocumentStore) Load(ctx context.Context, seed func() (document.Document, error)) (document.Document, error) {
	logger := serviceLogger(ctx, s.logger, "DocumentStore", "Load", "key", s.key)

	data, err := s.blobs.Load(ctx, s.key)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		logger.InfoContext(ctx, "no stored document, seeding default")
		return seed()
	case err != nil:
		logger.WarnContext(ctx, "stored document unreadable, seeding default",
			"error", err, "error_kind", ErrorKind(&PersistenceError{Op: "load", Err: err}))
		return seed()
	}

	doc, err := document.Unmarshal(data)
	if err != nil {
		logger.WarnContext(ctx, "stored document corrupt, seeding default",
			"error", err, "error_kind", ErrorKind(&PersistenceError{Op: "decode", Err: err}))
		return seed()
	}
	return doc, nil
}

// Save replaces the stored document.
func (s *DocumentStore) Save(ctx context.Context, doc document.Document) error {
	data, err := document.Marshal(doc)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.blobs.Save(ctx, s.key, data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// Clear removes the stored document.
func (s *DocumentStore) Clear(ctx context.Context) error {
	if err := s.blobs.Delete(ctx, s.key); err != nil {
		return &PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
