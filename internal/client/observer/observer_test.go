package observer

import (
	"runtime"
	"sync"
	"testing"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingView stores every setter call in order.
type recordingView struct {
	mu     sync.Mutex
	events []string
	prog   []float64
	rows   []models.RecordView
	auth   bool
}

func (r *recordingView) add(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recordingView) SetAuthenticated(ok bool) { r.auth = ok; r.add("auth") }
func (r *recordingView) SetStatus(text string)    { r.add("status:" + text) }
func (r *recordingView) SetProgress(f float64)    { r.prog = append(r.prog, f); r.add("progress") }
func (r *recordingView) SetUploading(on bool)     { r.add("uploading") }
func (r *recordingView) SetSelectedFile(n string) { r.add("selected:" + n) }
func (r *recordingView) SetRecords(rows []models.RecordView) {
	r.rows = rows
	r.add("records")
}

// queueLoop is a manual single-threaded loop: invoke enqueues, drain runs.
type queueLoop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
}

func (q *queueLoop) invoke(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return false
	}
	q.queue = append(q.queue, fn)
	return true
}

func (q *queueLoop) drain() int {
	q.mu.Lock()
	fns := q.queue
	q.queue = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func TestBridge_NotifyRunsOnLoopOnly(t *testing.T) {
	view := &recordingView{}
	loop := &queueLoop{}
	host := NewHost(view, loop.invoke)
	b := host.Bridge()

	b.Status("Connecting...")
	b.Authenticated(true)
	assert.Empty(t, view.events, "nothing runs until the loop drains")

	require.Equal(t, 2, loop.drain())
	assert.Equal(t, []string{"status:Connecting...", "auth"}, view.events)
	assert.True(t, view.auth)
	runtime.KeepAlive(host)
}

func TestBridge_ProgressKeepsOrderAndClamps(t *testing.T) {
	view := &recordingView{}
	loop := &queueLoop{}
	host := NewHost(view, loop.invoke)
	b := host.Bridge()

	b.Progress(models.Progress{Fraction: 0.1, Status: "Uploading a.txt..."})
	b.Progress(models.Progress{Fraction: 0.8})
	b.Progress(models.Progress{Fraction: 1.5})
	loop.drain()

	assert.Equal(t, []float64{0.1, 0.8, 1.0}, view.prog)
	assert.Equal(t, []string{"progress", "status:Uploading a.txt...", "progress", "progress"}, view.events)
	runtime.KeepAlive(host)
}

func TestBridge_ClosedHostDropsSilently(t *testing.T) {
	view := &recordingView{}
	loop := &queueLoop{}
	host := NewHost(view, loop.invoke)
	b := host.Bridge()

	b.Status("queued before close")
	host.Close()
	b.Status("after close")

	loop.drain()
	assert.Empty(t, view.events)
	runtime.KeepAlive(host)
}

func TestBridge_StoppedLoopDropsSilently(t *testing.T) {
	view := &recordingView{}
	loop := &queueLoop{stopped: true}
	host := NewHost(view, loop.invoke)

	assert.NotPanics(t, func() { host.Bridge().Status("x") })
	assert.Zero(t, loop.drain())
	runtime.KeepAlive(host)
}

func TestBridge_ZeroValueDrops(t *testing.T) {
	var b Bridge
	assert.NotPanics(t, func() {
		b.Status("x")
		b.Records(nil)
	})
}

func TestBridge_CollectedHostDrops(t *testing.T) {
	loop := &queueLoop{}
	b := func() Bridge {
		return NewHost(&recordingView{}, loop.invoke).Bridge()
	}()

	// weak pointers are cleared once the host is unreachable
	for i := 0; i < 5; i++ {
		runtime.GC()
	}

	b.Status("nobody home")
	assert.Zero(t, loop.drain())
}

func TestBridge_RecordsAndSelection(t *testing.T) {
	view := &recordingView{}
	loop := &queueLoop{}
	host := NewHost(view, loop.invoke)
	b := host.Bridge()

	rows := []models.RecordView{{Filename: "a", Size: "1 B"}}
	b.Selected("a")
	b.Uploading(true)
	b.Records(rows)
	loop.drain()

	assert.Equal(t, []string{"selected:a", "uploading", "records"}, view.events)
	assert.Equal(t, rows, view.rows)
	runtime.KeepAlive(host)
}
