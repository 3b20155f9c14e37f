// Package bills implements the expense-bill side of the client: fetching and
// normalizing the bill list, receipt submission, and bill updates.
package bills

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// Repository fetches bill records from the remote store and normalizes their
// date and status fields for display.
type Repository struct {
	store  store.Store // nil when no backend is configured
	logger *slog.Logger
}

// NewRepository wires a Repository. st may be nil; a nil logger falls back
// to slog.Default.
func NewRepository(st store.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: st, logger: logger}
}

// FetchNormalizedBills requests the raw bill list and normalizes each record
// independently.
//
// With no remote store configured it returns a nil slice and no error; the
// caller distinguishes that "not connected" state from an empty list, which
// comes back non-nil. A record whose date cannot be parsed keeps its raw
// date and a diagnostic naming the record is logged; corruption degrades a
// single field, never removes a record. A remote failure propagates to the
// caller untouched.
func (r *Repository) FetchNormalizedBills(ctx context.Context) ([]models.Bill, error) {
	if r.store == nil {
		return nil, nil
	}

	raw, err := r.store.Bills().List(ctx)
	if err != nil {
		return nil, err
	}

	normalized := make([]models.Bill, 0, len(raw))
	for _, bill := range raw {
		formatted, err := FormatDate(bill.Date)
		if err != nil {
			r.logger.Warn("keeping raw date for corrupted bill", "bill_id", bill.ID, "date", bill.Date, "error", err)
		} else {
			bill.Date = formatted
		}
		bill.Status = FormatStatus(bill.Status)
		normalized = append(normalized, bill)
	}
	return normalized, nil
}

// SortByDate orders bills ascending by date, earliest first. Normalized
// dates compare lexicographically; records that kept a corrupted raw date
// sort wherever string comparison puts them.
func SortByDate(bills []models.Bill) {
	slices.SortStableFunc(bills, func(a, b models.Bill) int {
		return strings.Compare(a.Date, b.Date)
	})
}
