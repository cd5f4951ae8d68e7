package registry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/the3rafas/cr7system/internal/domain/models"
	"github.com/the3rafas/cr7system/internal/repository"
	"github.com/the3rafas/cr7system/internal/service/catalog"
)

// Daily entry ids are drawn from [MinEntryID, MaxEntryID] inclusive, giving
// IDSpaceSize possible slots per date.
const (
	MinEntryID  = 100
	MaxEntryID  = 700
	IDSpaceSize = MaxEntryID - MinEntryID + 1

	dateLayout = "2006-01-02"
)

// ListFilter selects which entries List returns.
type ListFilter string

const (
	// FilterPending surfaces today's open work: entries not yet done on the
	// most recent date present in the store. Unfinished entries from older
	// dates intentionally drop out of this view once a newer date exists.
	FilterPending ListFilter = "pending"
	// FilterDone returns every done entry plus everything dated on the most
	// recent date, whatever its status.
	FilterDone ListFilter = "done"
)

// BillItemInput is one requested bill line: a product reference and a count.
type BillItemInput struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Service describes the registry operations the HTTP layer can perform.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]models.Entry, error)
	Get(ctx context.Context, id int, date string) (models.Entry, error)
	Create(ctx context.Context, name, number string) (models.Entry, error)
	Hold(ctx context.Context, id int, date string) (models.Entry, error)
	CreateBill(ctx context.Context, id int, date string, items []BillItemInput) (models.Entry, error)
	Delete(ctx context.Context, id int, date string) ([]models.Entry, error)
}

// RegistryService is the production implementation backed by the injected
// store; it resolves bill prices through the catalog service.
type RegistryService struct {
	store   repository.Store
	catalog catalog.Service
	logger  *zap.Logger

	now     func() time.Time
	randInt func(min, max int) int
}

// NewService wires a new registry service instance.
func NewService(store repository.Store, catalogSvc catalog.Service, logger *zap.Logger) *RegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryService{
		store:   store,
		catalog: catalogSvc,
		logger:  logger,
		now:     time.Now,
		randInt: func(min, max int) int { return rand.Intn(max-min+1) + min },
	}
}

// List applies the latest-date view rules. The latest date is the
// lexicographic maximum of the stored YYYY-MM-DD strings.
func (s *RegistryService) List(ctx context.Context, filter ListFilter) ([]models.Entry, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	latestDate := ""
	for _, e := range entries {
		if e.Date > latestDate {
			latestDate = e.Date
		}
	}

	result := []models.Entry{}
	for _, e := range entries {
		switch filter {
		case FilterDone:
			if e.Status == models.StatusDone || e.Date == latestDate {
				result = append(result, e)
			}
		default:
			if e.Status != models.StatusDone && e.Date == latestDate {
				result = append(result, e)
			}
		}
	}
	return result, nil
}

// Get returns the entry addressed by the exact (id, date) pair.
func (s *RegistryService) Get(ctx context.Context, id int, date string) (models.Entry, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load entries: %w", err)
	}
	idx := findEntry(entries, id, date)
	if idx < 0 {
		return models.Entry{}, fmt.Errorf("%w: no entry with id=%d on date=%s", models.ErrNotFound, id, date)
	}
	return entries[idx], nil
}

// Create registers a new pending entry for today with a random unused id.
func (s *RegistryService) Create(ctx context.Context, name, number string) (models.Entry, error) {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" || number == "" {
		return models.Entry{}, fmt.Errorf("%w: name and number must not be empty", models.ErrInvalidArgument)
	}

	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load entries: %w", err)
	}

	today := s.now().Format(dateLayout)
	usedIDs := make(map[int]struct{})
	for _, e := range entries {
		if e.Date == today {
			usedIDs[e.ID] = struct{}{}
		}
	}

	// Check exhaustion before drawing so the sampling loop below always
	// terminates.
	if len(usedIDs) >= IDSpaceSize {
		return models.Entry{}, fmt.Errorf("%w: no more available ids for %s", models.ErrResourceExhausted, today)
	}

	id := s.randInt(MinEntryID, MaxEntryID)
	for {
		if _, taken := usedIDs[id]; !taken {
			break
		}
		id = s.randInt(MinEntryID, MaxEntryID)
	}

	entry := models.Entry{
		ID:        id,
		Name:      name,
		Number:    number,
		Date:      today,
		Status:    models.StatusPending,
		BillItems: []models.BillItem{},
	}
	entries = append(entries, entry)

	if err := s.store.SaveEntries(ctx, entries); err != nil {
		return models.Entry{}, fmt.Errorf("save entries: %w", err)
	}

	s.logger.Info("entry created", zap.Int("id", entry.ID), zap.String("date", entry.Date))
	return entry, nil
}

// Hold puts the (id, date) entry on hold; done entries cannot be held.
func (s *RegistryService) Hold(ctx context.Context, id int, date string) (models.Entry, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load entries: %w", err)
	}

	idx := findEntry(entries, id, date)
	if idx < 0 {
		return models.Entry{}, fmt.Errorf("%w: no entry with id=%d on date=%s", models.ErrNotFound, id, date)
	}
	if !entries[idx].Status.CanTransition(models.StatusOnHold) {
		return models.Entry{}, fmt.Errorf("%w: cannot hold a %s entry", models.ErrInvalidState, entries[idx].Status)
	}

	entries[idx].Status = models.StatusOnHold
	if err := s.store.SaveEntries(ctx, entries); err != nil {
		return models.Entry{}, fmt.Errorf("save entries: %w", err)
	}

	s.logger.Info("entry held", zap.Int("id", id), zap.String("date", date))
	return entries[idx], nil
}

// CreateBill finalizes the (id, date) entry: it snapshots product names and
// prices for every requested item, computes the total, and marks the entry
// done. The operation is all-or-nothing: any unknown product aborts it before
// anything is written.
func (s *RegistryService) CreateBill(ctx context.Context, id int, date string, items []BillItemInput) (models.Entry, error) {
	for _, item := range items {
		if item.Quantity <= 0 {
			return models.Entry{}, fmt.Errorf("%w: quantity must be positive for product id=%d", models.ErrInvalidArgument, item.ProductID)
		}
	}

	entries, err := s.store.Entries(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load entries: %w", err)
	}

	idx := findEntry(entries, id, date)
	if idx < 0 {
		return models.Entry{}, fmt.Errorf("%w: no entry with id=%d on date=%s", models.ErrNotFound, id, date)
	}
	if !entries[idx].Status.CanTransition(models.StatusDone) {
		return models.Entry{}, fmt.Errorf("%w: cannot bill a %s entry", models.ErrInvalidState, entries[idx].Status)
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("load catalog for billing: %w", err)
	}
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	total := 0.0
	billItems := make([]models.BillItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return models.Entry{}, fmt.Errorf("%w: no product with id=%d", models.ErrNotFound, item.ProductID)
		}
		subTotal := product.Price * float64(item.Quantity)
		total += subTotal
		billItems = append(billItems, models.BillItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			SubTotal:    subTotal,
		})
	}

	entries[idx].BillItems = billItems
	entries[idx].TotalPrice = math.Round(total*100) / 100
	entries[idx].Status = models.StatusDone

	if err := s.store.SaveEntries(ctx, entries); err != nil {
		return models.Entry{}, fmt.Errorf("save entries: %w", err)
	}

	s.logger.Info("bill created",
		zap.Int("id", id),
		zap.String("date", date),
		zap.Int("items", len(billItems)),
		zap.Float64("total", entries[idx].TotalPrice))
	return entries[idx], nil
}

// Delete removes the (id, date) entry and its bill items, from any status,
// and returns the remaining entries.
func (s *RegistryService) Delete(ctx context.Context, id int, date string) ([]models.Entry, error) {
	entries, err := s.store.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	remaining := make([]models.Entry, 0, len(entries))
	found := false
	for _, e := range entries {
		if e.ID == id && e.Date == date {
			found = true
			continue
		}
		remaining = append(remaining, e)
	}
	if !found {
		return nil, fmt.Errorf("%w: no entry with id=%d on date=%s", models.ErrNotFound, id, date)
	}

	if err := s.store.SaveEntries(ctx, remaining); err != nil {
		return nil, fmt.Errorf("save entries: %w", err)
	}

	s.logger.Info("entry deleted", zap.Int("id", id), zap.String("date", date))
	return remaining, nil
}

func findEntry(entries []models.Entry, id int, date string) int {
	for i, e := range entries {
		if e.ID == id && e.Date == date {
			return i
		}
	}
	return -1
}
