package repository

import (
	"context"

	"github.com/astexai/waitlist-backend/internal/domain/model"
)

//go:generate mockgen -source=entry_repo.go -destination=mocks/entry_store_mock.go -package=mocks

// EntryStore defines the contract for entry persistence.
type EntryStore interface {
	// Load returns every stored record. A missing or malformed store yields an empty slice, never an error.
	Load(ctx context.Context) ([]model.Record, error)

	// ReadAll returns every stored record and reports malformed data or I/O failures as a StorageError.
	ReadAll(ctx context.Context) ([]model.Record, error)

	// Append adds the entry after the existing ones and rewrites the store.
	Append(ctx context.Context, entry *model.WhitelistEntry) error
}
