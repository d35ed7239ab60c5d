package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
	"github.com/dmitrijs2005/tgcloud/internal/common"
	"github.com/dmitrijs2005/tgcloud/internal/filex"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

var _ Repository = (*JSONRepository)(nil)

// JSONRepository keeps the log in memory and mirrors it to a snapshot file.
type JSONRepository struct {
	path   string
	logger logging.Logger

	mu      sync.Mutex // guards records
	records []models.FileRecord

	// saveMu serializes snapshot writers so a later save never lands before
	// an earlier one.
	saveMu sync.Mutex
}

// Open loads the snapshot at path. It never fails on a missing or damaged
// snapshot; the only error is being unable to create the snapshot directory.
func Open(ctx context.Context, path string, logger logging.Logger) (*JSONRepository, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("store", path)

	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, common.Wrap(common.ErrIO, err)
	}

	r := &JSONRepository{path: path, logger: logger}
	r.records = r.load(ctx)
	return r, nil
}

func (r *JSONRepository) load(ctx context.Context) []models.FileRecord {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn(ctx, "snapshot unreadable, starting with empty log", "error", err)
		}
		return nil
	}

	var recs []models.FileRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		r.logger.Warn(ctx, "snapshot corrupt, starting with empty log",
			"error", common.Wrap(common.ErrStoreCorrupt, err))
		return nil
	}

	r.logger.Debug(ctx, "snapshot loaded", "records", len(recs))
	return recs
}

func (r *JSONRepository) Insert(ctx context.Context, rec models.FileRecord) error {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()

	return r.Save(ctx)
}

func (r *JSONRepository) Save(ctx context.Context) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.Lock()
	snapshot := slices.Clone(r.records)
	r.mu.Unlock()

	if snapshot == nil {
		snapshot = []models.FileRecord{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := filex.WriteFileAtomic(r.path, data, 0o600); err != nil {
		r.logger.Error(ctx, "snapshot write failed", "error", err)
		return common.Wrap(common.ErrIO, err)
	}

	r.logger.Debug(ctx, "snapshot written", "records", len(snapshot))
	return nil
}

func (r *JSONRepository) ReadAll(ctx context.Context) []models.FileRecord {
	r.mu.Lock()
	out := slices.Clone(r.records)
	r.mu.Unlock()

	slices.Reverse(out)
	return out
}

func (r *JSONRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
