// Package store persists completed runs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// Record is one persisted run.
type Record struct {
	ID           string                  `json:"id"`
	CodecVersion int                     `json:"codec_version"`
	Strategy     optimization.Strategy   `json:"strategy"`
	Iterations   int                     `json:"iterations"`
	Seed         int64                   `json:"seed"`
	Bounds       optimization.Bounds     `json:"bounds"`
	CreatedAt    time.Time               `json:"created_at"`
	Result       *optimization.RunResult `json:"result"`
}

// NewRecord wraps result in a Record with a fresh ID.
func NewRecord(result *optimization.RunResult, now time.Time) Record {
	return Record{
		ID:           uuid.NewString(),
		CodecVersion: CurrentCodecVersion,
		Strategy:     result.Strategy,
		Iterations:   len(result.History),
		Seed:         result.Seed,
		Bounds:       result.Bounds,
		CreatedAt:    now.UTC(),
		Result:       result,
	}
}

// Store defines persistence operations for runs. Lookups of unknown IDs
// report ok == false; DeleteRun of an unknown ID returns an error wrapping
// optimization.ErrNotFound.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, record Record) error
	GetRun(ctx context.Context, id string) (Record, bool, error)
	// ListRuns returns runs oldest first. limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]Record, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}

func notFound(id string) error {
	return optimization.WrapErrorf(optimization.ErrNotFound, "run %s", id).WithComponent("store")
}
