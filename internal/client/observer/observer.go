// Package observer carries notifications from background tasks to the
// single-threaded presentation loop.
//
// The surface owns a Host. Tasks only hold a Bridge, which keeps a weak
// pointer to the Host: once the surface is torn down (Host.Close, or the Host
// is garbage collected) every notification is silently dropped.
package observer

import (
	"sync/atomic"
	"weak"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
)

// View is the set of setters the presentation surface exposes. Its methods
// are only ever called on the surface's own loop.
type View interface {
	SetAuthenticated(ok bool)
	SetStatus(text string)
	SetProgress(fraction float64)
	SetUploading(on bool)
	SetSelectedFile(name string)
	SetRecords(rows []models.RecordView)
}

// Host binds a View to the loop that owns it.
type Host struct {
	view   View
	invoke func(func()) bool
	closed atomic.Bool
}

// NewHost wraps view. invoke must enqueue fn onto the surface loop and report
// false if the loop no longer accepts work; it must not block on the loop.
func NewHost(view View, invoke func(fn func()) bool) *Host {
	return &Host{view: view, invoke: invoke}
}

// Close marks the surface as torn down. Pending and future notifications
// are dropped.
func (h *Host) Close() {
	h.closed.Store(true)
}

// Bridge returns a non-owning handle for background tasks.
func (h *Host) Bridge() Bridge {
	return Bridge{ref: weak.Make(h)}
}

// Bridge is a non-owning, copyable handle to a Host. The zero Bridge drops
// everything.
type Bridge struct {
	ref weak.Pointer[Host]
}

// Notify runs fn against the View on the surface loop, or does nothing when
// the surface is gone. It never blocks on the loop and never fails.
func (b Bridge) Notify(fn func(View)) {
	h := b.ref.Value()
	if h == nil || h.closed.Load() {
		return
	}
	h.invoke(func() {
		if h.closed.Load() {
			return
		}
		fn(h.view)
	})
}

func (b Bridge) Status(text string) {
	b.Notify(func(v View) { v.SetStatus(text) })
}

// Progress implements services.ProgressSink.
func (b Bridge) Progress(p models.Progress) {
	p = p.Clamp()
	b.Notify(func(v View) {
		v.SetProgress(p.Fraction)
		if p.Status != "" {
			v.SetStatus(p.Status)
		}
	})
}

func (b Bridge) Authenticated(ok bool) {
	b.Notify(func(v View) { v.SetAuthenticated(ok) })
}

func (b Bridge) Uploading(on bool) {
	b.Notify(func(v View) { v.SetUploading(on) })
}

func (b Bridge) Selected(name string) {
	b.Notify(func(v View) { v.SetSelectedFile(name) })
}

func (b Bridge) Records(rows []models.RecordView) {
	b.Notify(func(v View) { v.SetRecords(rows) })
}
