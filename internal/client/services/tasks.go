package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
	"github.com/dmitrijs2005/tgcloud/internal/client/repositories/records"
	"github.com/dmitrijs2005/tgcloud/internal/client/session"
	"github.com/dmitrijs2005/tgcloud/internal/client/utils"
	"github.com/dmitrijs2005/tgcloud/internal/common"
	"github.com/dmitrijs2005/tgcloud/internal/filex"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

// Notifier is how background tasks talk to the presentation surface.
// observer.Bridge implements it. Calls must not block.
type Notifier interface {
	ProgressSink
	Status(text string)
	Authenticated(ok bool)
	Uploading(on bool)
	Selected(name string)
	Records(rows []models.RecordView)
}

// Snapshot is a point-in-time summary for the status command.
type Snapshot struct {
	Backend       string
	State         ConnState
	Authenticated bool
	Selected      string
	Uploading     bool
	Records       int
}

// Tasks holds the user-facing triggers. Each trigger validates on the
// caller's goroutine and, when accepted, runs the work in the background;
// results reach the surface only through the Notifier.
type Tasks struct {
	ctx     context.Context
	state   *session.State
	conns   *ConnectionManager
	uploads *UploadCoordinator
	repo    records.Repository
	notify  Notifier
	logger  logging.Logger
	now     func() time.Time

	authSem   *semaphore.Weighted
	uploadSem *semaphore.Weighted
	uploading atomic.Bool
	wg        sync.WaitGroup
}

// NewTasks wires the triggers. ctx is the parent of every background task.
func NewTasks(
	ctx context.Context,
	state *session.State,
	conns *ConnectionManager,
	uploads *UploadCoordinator,
	repo records.Repository,
	notify Notifier,
	logger logging.Logger,
) *Tasks {
	if logger == nil {
		logger = logging.Discard()
	}
	t := &Tasks{
		ctx:       ctx,
		state:     state,
		conns:     conns,
		uploads:   uploads,
		repo:      repo,
		notify:    notify,
		logger:    logger,
		now:       time.Now,
		authSem:   semaphore.NewWeighted(1),
		uploadSem: semaphore.NewWeighted(1),
	}
	conns.OnStateChange(t.connStateChanged)
	return t
}

// connStateChanged reports the login steps that wait for the user. It runs
// before the matching prompt is issued, so the line precedes the prompt.
func (t *Tasks) connStateChanged(s ConnState) {
	switch s {
	case StateAwaitingCode:
		t.notify.Status("Login code requested.")
	case StateAwaitingTwoFactor:
		t.notify.Status("Two-factor password required.")
	}
}

func (t *Tasks) spawn(name string, fn func(ctx context.Context, log logging.Logger)) {
	log := t.logger.With("task", name, "task_id", uuid.NewString())
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		log.Debug(t.ctx, "task started")
		fn(t.ctx, log)
		log.Debug(t.ctx, "task finished")
	}()
}

// PickFile selects path for the next upload. A later pick replaces it, even
// while an upload runs; that upload keeps the file it started with.
func (t *Tasks) PickFile(path string) error {
	if _, err := filex.RegularFileSize(path); err != nil {
		t.logger.Warn(t.ctx, "file rejected", "path", path, "error", err)
		t.notify.Status(fmt.Sprintf("Cannot select file: %v", err))
		return common.Wrap(common.ErrIO, err)
	}
	t.state.Selected.Store(path)
	t.notify.Selected(filepath.Base(path))
	t.notify.Status("File selected. Ready to upload.")
	return nil
}

// Authenticate connects and logs in with phone in the background. The
// connection is published to the session only after a successful login.
func (t *Tasks) Authenticate(phone string) error {
	if _, ok := t.state.Conn.Load(); ok {
		t.notify.Status("Already authenticated")
		return ErrAlreadyAuthenticated
	}
	if !t.authSem.TryAcquire(1) {
		t.notify.Status("Authentication already in progress")
		return ErrAuthInProgress
	}

	t.spawn("auth", func(ctx context.Context, log logging.Logger) {
		defer t.authSem.Release(1)

		t.notify.Status(fmt.Sprintf("Connecting to %s...", t.conns.Backend()))
		conn, err := t.conns.Connect(ctx)
		if err != nil {
			t.notify.Status(fmt.Sprintf("Connection failed: %v", common.Cause(err)))
			t.notify.Authenticated(false)
			return
		}

		if err := t.conns.Authenticate(ctx, conn, phone); err != nil {
			if cerr := conn.Close(); cerr != nil {
				log.Warn(ctx, "close after failed login", "error", cerr)
			}
			t.notify.Status(fmt.Sprintf("Auth failed: %v", common.Cause(err)))
			t.notify.Authenticated(false)
			return
		}

		if !t.state.Conn.StoreIfEmpty(conn) {
			// can only happen if something else published a connection meanwhile
			_ = conn.Close()
		}
		log.Info(ctx, "authenticated")
		// the console resumes reading commands on Authenticated, so the
		// status goes first
		t.notify.Status("Successfully authenticated!")
		t.notify.Authenticated(true)
	})
	return nil
}

// StartUpload uploads the currently selected file in the background. The
// file and connection are captured now; only one upload runs at a time.
func (t *Tasks) StartUpload() error {
	if !t.uploadSem.TryAcquire(1) {
		t.notify.Status("Upload already in progress")
		return ErrUploadInProgress
	}
	path, ok := t.state.Selected.Load()
	if !ok {
		t.uploadSem.Release(1)
		t.notify.Status("No file selected")
		return ErrNoFileSelected
	}
	conn, ok := t.state.Conn.Load()
	if !ok {
		t.uploadSem.Release(1)
		t.notify.Status("Not authenticated")
		return ErrNotAuthenticated
	}

	t.uploading.Store(true)
	t.spawn("upload", func(ctx context.Context, log logging.Logger) {
		defer t.uploadSem.Release(1)
		defer t.uploading.Store(false)

		t.notify.Uploading(true)
		t.notify.Progress(models.Progress{Fraction: 0, Status: "Starting upload..."})
		defer func() {
			t.notify.Uploading(false)
			t.notify.Progress(models.Progress{Fraction: 0})
		}()

		res, err := t.uploads.Upload(ctx, conn, path, t.notify)
		if err != nil {
			t.notify.Status(fmt.Sprintf("Upload failed: %v", err))
			return
		}

		rec := models.NewFileRecord(res.Filename, res.RemoteID, res.SizeBytes, t.now())
		if err := t.repo.Insert(ctx, rec); err != nil {
			log.Error(ctx, "history not saved", "remote_id", rec.RemoteID, "error", err)
			t.notify.Status(fmt.Sprintf("Upload successful, but history not saved: %v", common.Cause(err)))
		} else {
			t.notify.Status("Upload successful!")
		}

		if t.state.Selected.CompareAndClear(path) {
			t.notify.Selected("")
		}
		t.Refresh()
	})
	return nil
}

// NeedsPhone reports whether Authenticate must be given a phone number.
func (t *Tasks) NeedsPhone() bool {
	return t.conns.NeedsPhone()
}

// Refresh pushes the current record list, newest first, to the surface.
func (t *Tasks) Refresh() {
	recs := t.repo.ReadAll(t.ctx)
	rows := make([]models.RecordView, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, models.RecordView{
			Filename:   r.Filename,
			RemoteID:   r.RemoteID,
			UploadedAt: r.UploadedAt,
			Size:       utils.FormatSize(r.SizeBytes),
		})
	}
	t.notify.Records(rows)
}

func (t *Tasks) Snapshot() Snapshot {
	_, authed := t.state.Conn.Load()
	selected, _ := t.state.Selected.Load()
	return Snapshot{
		Backend:       t.conns.Backend(),
		State:         t.conns.State(),
		Authenticated: authed,
		Selected:      selected,
		Uploading:     t.uploading.Load(),
		Records:       t.repo.Len(),
	}
}

// Wait blocks until every background task has returned.
func (t *Tasks) Wait() {
	t.wg.Wait()
}

// Close waits for running tasks (or ctx) and closes the session connection.
func (t *Tasks) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if conn, ok := t.state.Conn.Take(); ok {
		if err := conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}
