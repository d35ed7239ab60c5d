package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/dmitrijs2005/tgcloud/internal/client/models"
	"github.com/dmitrijs2005/tgcloud/internal/client/observer"
	"github.com/dmitrijs2005/tgcloud/internal/client/services"
	"github.com/dmitrijs2005/tgcloud/internal/logging"
)

const shutdownTimeout = 30 * time.Second

var (
	_ observer.View     = (*App)(nil)
	_ services.Prompter = (*App)(nil)
)

// Triggers is the command surface the console drives. *services.Tasks
// satisfies it; tests provide a lightweight stub.
type Triggers interface {
	PickFile(path string) error
	Authenticate(phone string) error
	NeedsPhone() bool
	StartUpload() error
	Refresh()
	Snapshot() services.Snapshot
	Close(ctx context.Context) error
}

// App is the interactive console. Everything that touches the terminal runs
// on the goroutine executing Run; background tasks reach it only through the
// Host's invoke queue and the prompt channel.
type App struct {
	out    io.Writer
	in     *lineReader
	logger logging.Logger
	phone  string

	host     *observer.Host
	triggers Triggers

	mu      sync.Mutex // guards queue and stopped
	queue   []func()
	stopped bool
	wake    chan struct{}

	prompts chan promptReq
	done    chan struct{}

	// loop-owned state
	pending  []promptReq
	reading  bool
	authBusy bool

	authenticated bool
	status        string
	selected      string
	bar           *progressbar.ProgressBar
	records       []models.RecordView
}

// NewApp builds a console reading commands from in and writing to out.
// phone is the default for "auth" without an argument.
func NewApp(in io.Reader, out io.Writer, logger logging.Logger, phone string) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	a := &App{
		out:     out,
		in:      newLineReader(in),
		logger:  logger.With("component", "console"),
		phone:   phone,
		wake:    make(chan struct{}, 1),
		prompts: make(chan promptReq),
		done:    make(chan struct{}),
	}
	a.host = observer.NewHost(a, a.invoke)
	return a
}

// Bridge returns the notification handle for background tasks.
func (a *App) Bridge() observer.Bridge {
	return a.host.Bridge()
}

// invoke queues fn for the loop. It never blocks and reports false once the
// loop has stopped.
func (a *App) invoke(fn func()) bool {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return false
	}
	a.queue = append(a.queue, fn)
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return true
}

func (a *App) drain() {
	a.mu.Lock()
	q := a.queue
	a.queue = nil
	a.mu.Unlock()

	for _, fn := range q {
		fn()
	}
}

// Run executes the read-eval-print loop until "exit", end of input or ctx is
// done. On the way out it waits for running tasks through t.Close.
//
// Input is read one line at a time and only when the loop asks for it. While
// a login is running and has not prompted yet, no line is requested, so the
// code the user types next goes to the login and not to the command parser.
func (a *App) Run(ctx context.Context, t Triggers) error {
	a.triggers = t
	a.println("tgcloud console (type 'help' for commands)")

	err := a.loop(ctx)
	a.shutdown(ctx)
	return err
}

func (a *App) loop(ctx context.Context) error {
	for {
		if !a.reading && (len(a.pending) > 0 || !a.authBusy) {
			secret := false
			if len(a.pending) > 0 {
				secret = a.pending[0].secret
				a.printf("%s: ", a.pending[0].label)
			} else {
				a.printf("tgcloud%s> ", a.promptStatus())
			}
			a.in.reqs <- secret
			a.reading = true
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-a.wake:
			a.drain()

		case p := <-a.prompts:
			// notifications the task sent before prompting come first
			a.drain()
			if a.reading && len(a.pending) == 0 {
				// a command read is already outstanding; it will answer p
				a.printf("\n%s: ", p.label)
			}
			a.pending = append(a.pending, p)

		case res := <-a.in.out:
			a.reading = false
			if len(a.pending) > 0 {
				p := a.pending[0]
				a.pending = a.pending[1:]
				if p.secret {
					a.println()
				}
				p.reply <- res
				continue
			}
			if res.err != nil {
				if !errors.Is(res.err, io.EOF) {
					a.logger.Error(ctx, "read input", "error", res.err)
					return res.err
				}
				return nil
			}
			if a.dispatch(res.text) {
				return nil
			}
		}
	}
}

func (a *App) shutdown(ctx context.Context) {
	close(a.done)
	for _, p := range a.pending {
		p.reply <- lineResult{err: ErrClosed}
	}
	a.pending = nil

	// ctx may already be cancelled by a signal; the session still gets closed
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	// keep rendering notifications while tasks finish
	closed := make(chan error, 1)
	go func() { closed <- a.triggers.Close(closeCtx) }()
	for waiting := true; waiting; {
		select {
		case err := <-closed:
			if err != nil {
				a.logger.Warn(ctx, "shutdown", "error", err)
			}
			waiting = false
		case <-a.wake:
			a.drain()
		}
	}
	a.drain()

	a.host.Close()
	a.mu.Lock()
	a.stopped = true
	a.queue = nil
	a.mu.Unlock()

	a.println("Bye!")
}

func (a *App) promptStatus() string {
	switch {
	case a.authenticated && a.selected != "":
		return fmt.Sprintf(" (online, %s)", a.selected)
	case a.authenticated:
		return " (online)"
	case a.selected != "":
		return fmt.Sprintf(" (%s)", a.selected)
	default:
		return ""
	}
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
