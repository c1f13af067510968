package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/credential"
	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/persistence"
)

// RenderFunc receives a copy of the document after every successful commit.
type RenderFunc func(document.Document)

// Options configure an Agenda.
type Options struct {
	Store persistence.BlobStore
	// Key overrides persistence.DefaultKey.
	Key         string
	Hasher      credential.Hasher
	Render      RenderFunc
	IDGenerator func() string
	Now         func() time.Time
	// Location decides which civil day is "today"; nil means UTC.
	Location *time.Location
	Logger   *slog.Logger
}

// Agenda owns the scheduling document. Operations are serialized; each
// mutation works on a copy that is persisted before it replaces the current
// document, so a failed operation leaves the document exactly as it was.
type Agenda struct {
	mu  sync.Mutex
	doc document.Document

	store       *DocumentStore
	hasher      credential.Hasher
	render      RenderFunc
	idGenerator func() string
	now         func() time.Time
	calendar    *calendar.Calendar
	views       *viewCache
	logger      *slog.Logger
}

// NewAgenda loads the stored document, seeding the default one when needed.
func NewAgenda(ctx context.Context, opts Options) (*Agenda, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("agenda: store is required")
	}
	if opts.Hasher == nil {
		opts.Hasher = credential.NewArgon2id(credential.DefaultArgon2idParams)
	}
	if opts.IDGenerator == nil {
		return nil, fmt.Errorf("agenda: id generator is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := defaultLogger(opts.Logger)

	a := &Agenda{
		store:       NewDocumentStore(opts.Store, opts.Key, logger),
		hasher:      opts.Hasher,
		render:      opts.Render,
		idGenerator: opts.IDGenerator,
		now:         opts.Now,
		calendar:    calendar.New(opts.Location, opts.Now),
		views:       newViewCache(defaultViewCacheSize),
		logger:      logger,
	}

	doc, err := a.store.Load(ctx, a.seed)
	if err != nil {
		return nil, err
	}
	a.doc = doc
	return a, nil
}

func (a *Agenda) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, a.logger, "Agenda", operation, attrs...)
}

// seed builds the first-run document.
func (a *Agenda) seed() (document.Document, error) {
	hash, err := a.hasher.Hash(document.DefaultAdminPassword)
	if err != nil {
		return document.Document{}, fmt.Errorf("hash default credential: %w", err)
	}
	return document.Default(a.idGenerator(), hash, a.timestamp()), nil
}

func (a *Agenda) timestamp() time.Time {
	return a.now().UTC().Truncate(time.Millisecond)
}

// Document returns a copy of the current document.
func (a *Agenda) Document() document.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc.Clone()
}

// Calendar returns the calendar used to resolve today's date.
func (a *Agenda) Calendar() *calendar.Calendar {
	return a.calendar
}

// read runs fn against the current document under the lock.
func (a *Agenda) read(fn func(doc document.Document)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.doc)
}

// mutate applies fn to a copy of the document and commits the copy when fn
// succeeds.
func (a *Agenda) mutate(ctx context.Context, fn func(doc *document.Document) error) error {
	next, err := a.commitLocked(ctx, fn)
	if err != nil {
		return err
	}
	a.notify(next)
	return nil
}

// commitLocked runs fn and stores its result while holding the lock. The lock
// is released even when fn panics.
func (a *Agenda) commitLocked(ctx context.Context, fn func(doc *document.Document) error) (document.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.doc.Clone()
	if err := fn(&next); err != nil {
		return document.Document{}, err
	}
	if err := a.store.Save(ctx, next); err != nil {
		return document.Document{}, err
	}
	a.swapLocked(next)
	return next, nil
}

// replace swaps in doc without persisting it.
func (a *Agenda) replace(doc document.Document) {
	func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.swapLocked(doc)
	}()

	a.notify(doc)
}

func (a *Agenda) swapLocked(doc document.Document) {
	a.doc = doc
	a.views.Invalidate()
}

// notify runs the render callback outside the lock so it may read the agenda.
func (a *Agenda) notify(doc document.Document) {
	if a.render != nil {
		a.render(doc.Clone())
	}
}
