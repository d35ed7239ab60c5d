package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/tgcloud/internal/client/client"
	"github.com/dmitrijs2005/tgcloud/internal/client/models"
	"github.com/dmitrijs2005/tgcloud/internal/common"
	"github.com/dmitrijs2005/tgcloud/internal/filex"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

// DefaultIDPrefix is prepended to the file name to build the local remote id.
const DefaultIDPrefix = "tg_file_"

// ProgressSink receives upload progress. Implementations must not block.
type ProgressSink interface {
	Progress(p models.Progress)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(models.Progress)

func (f ProgressFunc) Progress(p models.Progress) { f(p) }

// UploadResult describes a finished upload. The caller turns it into a
// FileRecord.
type UploadResult struct {
	Filename  string
	RemoteID  string
	SizeBytes uint64
}

// UploadCoordinator runs the whole-file upload workflow against a connection.
// It never touches the metadata store: a failed upload has nothing to undo.
type UploadCoordinator struct {
	idPrefix string
	logger   logging.Logger
}

type UploadOption func(*UploadCoordinator)

// WithIDPrefix overrides DefaultIDPrefix.
func WithIDPrefix(prefix string) UploadOption {
	return func(c *UploadCoordinator) { c.idPrefix = prefix }
}

func NewUploadCoordinator(logger logging.Logger, opts ...UploadOption) *UploadCoordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	c := &UploadCoordinator{idPrefix: DefaultIDPrefix, logger: logger.With("component", "upload")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends the file at path to the connection's self destination.
// Progress is reported as 0.1, 0.8 and 1.0, in that order; a failing step
// stops the sequence. Errors wrap common.ErrIO, ErrTransfer, ErrResolution or
// ErrDelivery depending on the step.
func (c *UploadCoordinator) Upload(ctx context.Context, conn client.Conn, path string, sink ProgressSink) (UploadResult, error) {
	if sink == nil {
		sink = ProgressFunc(func(models.Progress) {})
	}
	name := filepath.Base(path)
	log := c.logger.With("file", name)

	size, err := filex.RegularFileSize(path)
	if err != nil {
		log.Error(ctx, "stat failed", "error", err)
		return UploadResult{}, common.Wrap(common.ErrIO, err)
	}

	sink.Progress(models.Progress{Fraction: 0.1, Status: fmt.Sprintf("Uploading %s...", name)})

	media, err := conn.UploadBlob(ctx, path)
	if err != nil {
		log.Error(ctx, "transfer failed", "error", err)
		return UploadResult{}, common.Wrap(common.ErrTransfer, err)
	}
	log.Debug(ctx, "blob uploaded", "bytes", size)

	sink.Progress(models.Progress{Fraction: 0.8})

	dst, err := conn.ResolveSelf(ctx)
	if err != nil {
		log.Error(ctx, "resolve self failed", "error", err)
		return UploadResult{}, common.Wrap(common.ErrResolution, err)
	}

	ref, err := conn.Send(ctx, dst, media)
	if err != nil {
		log.Error(ctx, "delivery failed", "destination", dst.ID, "error", err)
		return UploadResult{}, common.Wrap(common.ErrDelivery, err)
	}

	sink.Progress(models.Progress{Fraction: 1.0})

	res := UploadResult{
		Filename:  name,
		RemoteID:  c.remoteID(name, ref),
		SizeBytes: uint64(size),
	}
	log.Info(ctx, "upload delivered", "remote_id", res.RemoteID, "bytes", size)
	return res, nil
}

func (c *UploadCoordinator) remoteID(name, ref string) string {
	id := c.idPrefix + name
	if ref != "" {
		id += "_" + ref
	}
	return id
}
