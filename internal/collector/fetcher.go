package collector

import (
	"context"

	"Vaultium/internal/model"
)

// Fetcher retrieves the baseline state snapshot.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
	Name() string
}
