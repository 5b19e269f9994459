// Package loader runs the fetch, parse and transform pipeline as a
// cancellable background task.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/source"
)

// Task is a handle on one running load.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	cancelled bool
	err       error
}

// Start loads src in a new goroutine and hands the resulting model to
// onLoaded, unless the task was cancelled first. Failures are logged and
// recorded in Err; onLoaded is not called for them. A Cancel racing with a
// delivery already in progress does not stop it, so owners still guard
// their own teardown.
func Start(ctx context.Context, src source.Source, onLoaded func(pyramid.ChartModel)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go t.run(ctx, src, onLoaded)
	return t
}

// Load runs the pipeline synchronously.
func Load(ctx context.Context, src source.Source) (pyramid.ChartModel, error) {
	defer logging.TimeTrack(time.Now(), "load "+src.Name())
	body, err := source.ReadAll(ctx, src)
	if err != nil {
		return pyramid.ChartModel{}, err
	}
	res, err := pyramid.ParseRows(bytes.NewReader(body))
	if err != nil {
		return pyramid.ChartModel{}, fmt.Errorf("parse %s: %w", src.Name(), err)
	}
	for _, a := range res.Anomalies {
		logging.Warnf("[loader] %s: %v", src.Name(), a)
	}
	m := pyramid.Transform(res.Rows)
	logging.Debugf("[loader] %s: %d age groups", src.Name(), m.Len())
	return m, nil
}

func (t *Task) run(ctx context.Context, src source.Source, onLoaded func(pyramid.ChartModel)) {
	defer close(t.done)
	defer t.cancel()
	m, err := Load(ctx, src)

	t.mu.Lock()
	cancelled := t.cancelled || ctx.Err() != nil
	switch {
	case err != nil:
		t.err = err
	case cancelled:
		t.err = context.Canceled
	}
	t.mu.Unlock()

	if err != nil {
		if !cancelled {
			logging.Warnf("[loader] load failed, chart stays empty: %v", err)
		}
		return
	}
	if cancelled || onLoaded == nil {
		return
	}
	onLoaded(m)
}

// Cancel stops the load. It is safe to call more than once and after completion.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
	t.cancel()
}

// Done is closed when the task has finished, successfully or not.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the failure of a finished task, nil on success.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
