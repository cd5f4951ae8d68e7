package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/domain/models"
	"github.com/the3rafas/cr7system/internal/repository"
	"github.com/the3rafas/cr7system/internal/repository/sheets"
	"github.com/the3rafas/cr7system/pkg/clients/notify"
)

// Service aggregates one registry day into a DailySummary and fans it out to
// the configured destinations. Exporter and notifier are optional; the sink
// is not.
type Service struct {
	store    repository.Store
	sink     repository.SummarySink
	exporter sheets.Exporter
	notifier notify.Client
	logger   *zap.Logger

	now func() time.Time
}

// NewService wires a new reporting service instance. exporter and notifier
// may be nil when the corresponding integrations are not configured.
func NewService(store repository.Store, sink repository.SummarySink, exporter sheets.Exporter, notifier notify.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		sink:     sink,
		exporter: exporter,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Summarize computes the summary for one date: entries opened, entries
// billed, and billed revenue rounded to 2 decimals.
func (s *Service) Summarize(ctx context.Context, date string) (models.DailySummary, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("load entries for summary: %w", err)
	}

	summary := models.DailySummary{Date: date}
	for _, e := range entries {
		if e.Date != date {
			continue
		}
		summary.Entries++
		if e.Status == models.StatusDone {
			summary.Billed++
			summary.Revenue += e.TotalPrice
		}
	}
	summary.Revenue = math.Round(summary.Revenue*100) / 100
	return summary, nil
}

// Run summarizes the given date, persists the result, and pushes it to the
// optional sheet export and webhook. Export and webhook failures are logged
// but do not fail the run; losing the persisted summary does.
func (s *Service) Run(ctx context.Context, date string) error {
	summary, err := s.Summarize(ctx, date)
	if err != nil {
		return err
	}
	summary.CreatedAt = s.now()

	if err := s.sink.SaveDailySummary(ctx, summary); err != nil {
		return fmt.Errorf("persist summary for %s: %w", date, err)
	}

	if s.exporter != nil {
		if err := s.exporter.AppendSummary(ctx, summary); err != nil {
			s.logger.Error("failed exporting summary to sheet", zap.String("date", date), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendSummary(ctx, summary); err != nil {
			s.logger.Error("failed sending summary webhook", zap.String("date", date), zap.Error(err))
		}
	}

	s.logger.Info("daily summary completed",
		zap.String("date", date),
		zap.Int("entries", summary.Entries),
		zap.Int("billed", summary.Billed),
		zap.Float64("revenue", summary.Revenue))
	return nil
}
