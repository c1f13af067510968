package application

import (
	"context"

	"github.com/example/agenda/internal/document"
)

// Export serializes the whole document in the backup format. Backups are
// managed from the configuration screen and require an administrator.
func (a *Agenda) Export(ctx context.Context, principal Principal) ([]byte, error) {
	if err := Authorize(principal, ViewConfig); err != nil {
		return nil, err
	}
	return a.ExportDocument(ctx)
}

// ExportDocument serializes the document without an authorization check, for
// operators with direct access to the store.
func (a *Agenda) ExportDocument(ctx context.Context) (data []byte, err error) {
	logger := a.loggerWith(ctx, "Export")
	defer func() {
		logOutcome(ctx, logger, err, "document exported", "bytes", len(data))
	}()

	doc := a.Document()
	data, err = document.MarshalIndent(doc)
	if err != nil {
		err = &PersistenceError{Op: "export", Err: err}
		return nil, err
	}
	return data, nil
}

// Import replaces the whole document with a backup. Input that does not
// decode is rejected with a *PersistenceError and the current document is kept.
func (a *Agenda) Import(ctx context.Context, principal Principal, data []byte) error {
	if err := Authorize(principal, ViewConfig); err != nil {
		return err
	}
	return a.ImportDocument(ctx, data)
}

// ImportDocument is Import without an authorization check.
func (a *Agenda) ImportDocument(ctx context.Context, data []byte) (err error) {
	logger := a.loggerWith(ctx, "Import", "bytes", len(data))
	defer func() {
		logOutcome(ctx, logger, err, "document imported")
	}()

	imported, decodeErr := document.Unmarshal(data)
	if decodeErr != nil {
		return &PersistenceError{Op: "import", Err: decodeErr}
	}

	return a.mutate(ctx, func(doc *document.Document) error {
		*doc = imported
		return nil
	})
}

// Reset wipes the stored document and starts over from the first-run
// document. The fresh document is not stored until the next commit.
func (a *Agenda) Reset(ctx context.Context, principal Principal) error {
	if err := Authorize(principal, ViewConfig); err != nil {
		return err
	}
	return a.ResetDocument(ctx)
}

// ResetDocument is Reset without an authorization check.
func (a *Agenda) ResetDocument(ctx context.Context) (err error) {
	logger := a.loggerWith(ctx, "Reset")
	defer func() {
		logOutcome(ctx, logger, err, "document reset")
	}()

	fresh, err := a.seed()
	if err != nil {
		return err
	}
	if err = a.store.Clear(ctx); err != nil {
		return err
	}
	a.replace(fresh)
	return nil
}
