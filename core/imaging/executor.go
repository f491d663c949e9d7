package imaging

import (
	"context"
	"fmt"
	"sync"
)

// Executor runs a function on the thread context image operations require.
type Executor interface {
	Do(ctx context.Context, fn func()) error
}

// RenderExecutor serializes submitted work onto one dedicated goroutine. It
// stands in for the engine's render-thread affinity: every image encode in
// the process goes through the same goroutine, in submission order.
type RenderExecutor struct {
	jobs      chan func()
	closeOnce sync.Once
	closed    chan struct{}
}

// NewRenderExecutor starts the executor goroutine.
func NewRenderExecutor() *RenderExecutor {
	e := &RenderExecutor{
		jobs:   make(chan func()),
		closed: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *RenderExecutor) loop() {
	for {
		select {
		case job := <-e.jobs:
			job()
		case <-e.closed:
			return
		}
	}
}

// Do submits fn and waits for it to finish. Returns the context error if ctx
// ends before the executor picks the job up, or an error after Close.
func (e *RenderExecutor) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		fn()
		close(done)
	}

	select {
	case e.jobs <- wrapped:
	case <-e.closed:
		return fmt.Errorf("render executor is closed")
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done
	return nil
}

// Close stops the executor. Jobs already picked up still complete.
func (e *RenderExecutor) Close() {
	e.closeOnce.Do(func() {
		close(e.closed)
	})
}

// DirectExecutor runs work inline on the calling goroutine. Used in tests and
// in the one-shot scan command, where no engine thread exists to hop to.
type DirectExecutor struct{}

// Do runs fn immediately.
func (DirectExecutor) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn()
	return nil
}
