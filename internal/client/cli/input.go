package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrClosed is returned to prompts that are still waiting when the console
// shuts down.
var ErrClosed = errors.New("console closed")

type lineResult struct {
	text   string
	secret []byte
	err    error
}

// lineReader reads exactly one line per request. Reading on demand lets a
// secret prompt switch the terminal to no-echo for that single line.
type lineReader struct {
	r    *bufio.Reader
	fd   int
	tty  bool
	reqs chan bool // true for a secret line
	out  chan lineResult
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{
		r:    bufio.NewReader(in),
		reqs: make(chan bool),
		out:  make(chan lineResult, 1),
	}
	if f, ok := in.(interface{ Fd() uintptr }); ok && isTerminal(int(f.Fd())) {
		lr.fd, lr.tty = int(f.Fd()), true
	}
	go lr.run()
	return lr
}

func (lr *lineReader) run() {
	for secret := range lr.reqs {
		lr.out <- lr.read(secret)
	}
}

// read returns the next line without its line terminator. A final line
// without a newline is still returned; only a bare EOF is an error.
func (lr *lineReader) read(secret bool) lineResult {
	if secret && lr.tty {
		pw, err := readPassword(lr.fd)
		if err != nil {
			return lineResult{err: err}
		}
		return lineResult{secret: pw}
	}

	line, err := lr.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return lineResult{err: err}
	}
	line = strings.TrimRight(line, "\r\n")
	if secret {
		return lineResult{secret: []byte(line)}
	}
	return lineResult{text: line}
}

type promptReq struct {
	label  string
	secret bool
	reply  chan lineResult
}

// ReadCode asks the user for a one-time code. It implements
// services.Prompter and may be called from any goroutine.
func (a *App) ReadCode(ctx context.Context, label string) (string, error) {
	res, err := a.ask(ctx, label, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.text), nil
}

// ReadSecret asks for a secret without echo when stdin is a terminal. The
// caller wipes the returned buffer.
func (a *App) ReadSecret(ctx context.Context, label string) ([]byte, error) {
	res, err := a.ask(ctx, label, true)
	if err != nil {
		return nil, err
	}
	return res.secret, nil
}

func (a *App) ask(ctx context.Context, label string, secret bool) (lineResult, error) {
	req := promptReq{label: label, secret: secret, reply: make(chan lineResult, 1)}

	select {
	case a.prompts <- req:
	case <-a.done:
		return lineResult{}, ErrClosed
	case <-ctx.Done():
		return lineResult{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res, res.err
	case <-a.done:
		return lineResult{}, ErrClosed
	case <-ctx.Done():
		return lineResult{}, ctx.Err()
	}
}
