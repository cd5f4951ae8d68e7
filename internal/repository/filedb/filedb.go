package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/the3rafas/cr7system/internal/domain/models"
)

// File names inside the data directory. They match the JSON files the
// administrators already know, so an existing dataset can be pointed at
// directly.
const (
	productsFile  = "products.json"
	registryFile  = "registry.json"
	authFile      = "auth.json"
	summariesFile = "summaries.json"
)

// FileDB persists every collection as a pretty-printed JSON array inside a
// single directory. A mutex serializes access; each operation reads or
// rewrites a whole file.
type FileDB struct {
	mu  sync.Mutex
	dir string
}

// Open prepares the data directory and returns a file-backed store.
func Open(dir string) (*FileDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", models.ErrStorageFailure, err)
	}
	return &FileDB{dir: dir}, nil
}

// Products returns every catalog product.
func (db *FileDB) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := db.read(ctx, productsFile, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SaveProducts replaces the product collection.
func (db *FileDB) SaveProducts(ctx context.Context, products []models.Product) error {
	return db.write(ctx, productsFile, products)
}

// Entries returns every registry entry, all dates included.
func (db *FileDB) Entries(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if err := db.read(ctx, registryFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntries replaces the registry collection.
func (db *FileDB) SaveEntries(ctx context.Context, entries []models.Entry) error {
	return db.write(ctx, registryFile, entries)
}

// Sessions returns every issued device session.
func (db *FileDB) Sessions(ctx context.Context) ([]models.DeviceSession, error) {
	var sessions []models.DeviceSession
	if err := db.read(ctx, authFile, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SaveSessions replaces the device session collection.
func (db *FileDB) SaveSessions(ctx context.Context, sessions []models.DeviceSession) error {
	return db.write(ctx, authFile, sessions)
}

// SaveDailySummary appends a summary to the summaries file.
func (db *FileDB) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var summaries []models.DailySummary
	if err := db.readLocked(summariesFile, &summaries); err != nil {
		return err
	}
	summaries = append(summaries, summary)
	return db.writeLocked(summariesFile, summaries)
}

func (db *FileDB) read(ctx context.Context, name string, out any) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.readLocked(name, out)
}

func (db *FileDB) write(ctx context.Context, name string, value any) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.writeLocked(name, value)
}

func (db *FileDB) readLocked(name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(db.dir, name))
	if err != nil {
		// A missing file is just an empty collection.
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", models.ErrStorageFailure, name, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", models.ErrStorageFailure, name, err)
	}
	return nil
}

func (db *FileDB) writeLocked(name string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", models.ErrStorageFailure, name, err)
	}
	if err := os.WriteFile(filepath.Join(db.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", models.ErrStorageFailure, name, err)
	}
	return nil
}
