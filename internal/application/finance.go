package application

import (
	"context"
	"sort"
	"strings"

	"github.com/example/agenda/internal/calendar"
	"github.com/example/agenda/internal/document"
)

// FinanceInput carries the editable fields of a finance entry. Amount is in
// cents. BookingID is stored as given and never checked against bookings.
type FinanceInput struct {
	ID          string
	Date        string
	Kind        document.FinanceKind
	Amount      int64
	Description string
	BookingID   string
}

// SaveFinanceEntry inserts or updates a finance entry.
func (a *Agenda) SaveFinanceEntry(ctx context.Context, principal Principal, input FinanceInput) (saved document.FinanceEntry, err error) {
	logger := a.loggerWith(ctx, "SaveFinanceEntry", "entry_id", input.ID)
	defer func() {
		logOutcome(ctx, logger, err, "finance entry saved", "entry_id", saved.ID, "kind", saved.Kind)
	}()

	if err = Authorize(principal, ViewFinance); err != nil {
		return
	}

	entry, vErr := validateFinanceInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	err = a.mutate(ctx, func(doc *document.Document) error {
		index := financeIndex(doc.Finance, entry.ID)
		if index < 0 {
			entry.ID = a.idGenerator()
			doc.Finance = append(doc.Finance, entry)
			return nil
		}
		doc.Finance[index] = entry
		return nil
	})
	if err != nil {
		return
	}
	saved = entry
	return
}

// DeleteFinanceEntry removes a finance entry.
func (a *Agenda) DeleteFinanceEntry(ctx context.Context, principal Principal, id string) (err error) {
	logger := a.loggerWith(ctx, "DeleteFinanceEntry", "entry_id", id)
	defer func() {
		logOutcome(ctx, logger, err, "finance entry deleted")
	}()

	if err = Authorize(principal, ViewFinance); err != nil {
		return
	}

	return a.mutate(ctx, func(doc *document.Document) error {
		index := financeIndex(doc.Finance, id)
		if index < 0 {
			return ErrNotFound
		}
		doc.Finance = append(doc.Finance[:index:index], doc.Finance[index+1:]...)
		return nil
	})
}

// ListFinance returns the entries ordered by date.
func (a *Agenda) ListFinance() []document.FinanceEntry {
	var out []document.FinanceEntry
	a.read(func(doc document.Document) {
		out = make([]document.FinanceEntry, len(doc.Finance))
		copy(out, doc.Finance)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// Balance returns incomes minus expenses in cents.
func (a *Agenda) Balance() (total int64) {
	a.read(func(doc document.Document) {
		total = doc.Balance()
	})
	return
}

func validateFinanceInput(input FinanceInput) (document.FinanceEntry, *ValidationError) {
	vErr := &ValidationError{}
	entry := document.FinanceEntry{
		ID:          strings.TrimSpace(input.ID),
		Kind:        document.FinanceKind(strings.TrimSpace(string(input.Kind))),
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		BookingID:   strings.TrimSpace(input.BookingID),
	}

	if day, err := calendar.ParseDate(strings.TrimSpace(input.Date)); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	} else {
		entry.Date = day.String()
	}
	if !entry.Kind.Valid() {
		vErr.add("kind", "kind must be entrada or saida")
	}
	if entry.Amount < 0 {
		vErr.add("amount", "amount must not be negative")
	}
	return entry, vErr
}

func financeIndex(entries []document.FinanceEntry, id string) int {
	if id == "" {
		return -1
	}
	for i, f := range entries {
		if f.ID == id {
			return i
		}
	}
	return -1
}
