package records

import (
	"context"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
)

// Repository is the contract the upload triggers and the list view use.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Insert appends rec and persists the full log. On a persistence error the
	// record stays in memory ("recorded, not yet durable"); Save may be retried.
	Insert(ctx context.Context, rec models.FileRecord) error

	// Save persists the current log.
	Save(ctx context.Context) error

	// ReadAll returns a copy of the log, most recent first.
	ReadAll(ctx context.Context) []models.FileRecord

	// Len reports the number of records in memory.
	Len() int
}
