package widget

import (
	"context"
	"errors"
	"sync"
)

var ErrLoopStopped = errors.New("event loop stopped")

// Loop runs posted functions one at a time on a single goroutine.
// Widget state is confined to it.
type Loop struct {
	events   chan func()
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewLoop(buffer int) *Loop {
	return &Loop{
		events: make(chan func(), buffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Post queues fn. It returns false once the loop is stopped, either by Stop
// or by Run's context ending.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stop:
		return false
	case <-l.done:
		return false
	default:
	}

	select {
	case <-l.stop:
		return false
	case <-l.done:
		return false
	case l.events <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Run processes events until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case fn := <-l.events:
			fn()
		}
	}
}

func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
