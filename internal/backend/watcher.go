package backend

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/teacher-workspace/internal/auth"
	"github.com/atomicstack/teacher-workspace/internal/logging/events"
	"golang.org/x/term"
)

// Kind represents the type of data emitted by the watcher.
type Kind int

const (
	// KindViewport events carry the terminal width as an int.
	KindViewport Kind = iota
	// KindAuth events report whether the auth backend answered.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindViewport:
		return "viewport"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// Event conveys a polled value or an error.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Fetcher produces the data for one poll.
type Fetcher func(ctx context.Context) (interface{}, error)

// Watcher polls its sources at a fixed interval and publishes events.
type Watcher struct {
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Options selects what a Watcher polls. Nil fetchers are skipped.
type Options struct {
	Interval time.Duration
	Viewport Fetcher
	Auth     Fetcher
}

// NewWatcher starts a poller for every non-nil fetcher in opts.
func NewWatcher(opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		interval: opts.Interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	if opts.Viewport != nil {
		w.start(KindViewport, throttled(opts.Viewport, 100*time.Millisecond))
	}
	if opts.Auth != nil {
		w.start(KindAuth, throttled(opts.Auth, 250*time.Millisecond))
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// TerminalWidth reads the width of the terminal attached to f.
func TerminalWidth(f *os.File) Fetcher {
	return func(context.Context) (interface{}, error) {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			return nil, fmt.Errorf("%s is not a terminal", f.Name())
		}
		width, _, err := term.GetSize(fd)
		if err != nil {
			return nil, fmt.Errorf("terminal size: %w", err)
		}
		return width, nil
	}
}

// AuthReachable pings p with a per-poll timeout.
func AuthReachable(p auth.Pinger, timeout time.Duration) Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := p.Ping(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
}

// Events returns the channel of watcher events. It is closed once every
// poller has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.once.Do(func() {
		w.cancel()
		events.Backend.Stopped()
	})
}

// Wait blocks until all pollers have exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) start(kind Kind, fetch Fetcher) {
	w.wg.Add(1)
	go w.poll(kind, fetch)
}

func throttled(fetch Fetcher, interval time.Duration) Fetcher {
	t := newThrottle(interval)
	return func(ctx context.Context) (interface{}, error) {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}
		return fetch(ctx)
	}
}

func (w *Watcher) poll(kind Kind, fetch Fetcher) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		events.Backend.Event(kind.String(), err)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
