package repository

import (
	"context"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

// Store is the persistence contract shared by all backends. Collections are
// read and written whole: the dataset is a single-tenant registry measured in
// hundreds of records, and whole-collection writes keep every operation an
// all-or-nothing replace.
type Store interface {
	Products(ctx context.Context) ([]models.Product, error)
	SaveProducts(ctx context.Context, products []models.Product) error

	Entries(ctx context.Context) ([]models.Entry, error)
	SaveEntries(ctx context.Context, entries []models.Entry) error

	Sessions(ctx context.Context) ([]models.DeviceSession, error)
	SaveSessions(ctx context.Context, sessions []models.DeviceSession) error
}

// SummarySink receives finished daily summaries.
type SummarySink interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}
