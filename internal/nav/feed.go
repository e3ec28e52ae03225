package nav

import "sync"

// Feed is an in-process Source. The UI publishes terminal widths into it and
// every subscriber is called synchronously on the publishing goroutine.
type Feed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(int)
	last   int
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: map[int]func(int){}}
}

// Subscribe registers fn. If a width has already been published, fn receives
// it immediately.
func (f *Feed) Subscribe(fn func(width int)) (release func()) {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	last := f.last
	f.mu.Unlock()

	if last > 0 {
		fn(last)
	}
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// Publish delivers width to every subscriber. Repeats of the last published
// width are dropped.
func (f *Feed) Publish(width int) {
	f.mu.Lock()
	if width == f.last {
		f.mu.Unlock()
		return
	}
	f.last = width
	subs := make([]func(int), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(width)
	}
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
