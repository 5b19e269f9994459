// Package view holds the population pyramid a window or page displays. A
// Container loads its source once, keeps the resulting model and tells
// subscribers when the model is replaced.
package view

import (
	"context"
	"slices"
	"sync"

	"github.com/iafilius/PopulationPyramid/src/loader"
	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/source"
)

// State of a Container. There is no error state: a failed load stays Empty.
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// Listener receives the new model after every replacement.
type Listener func(pyramid.ChartModel)

// Option configures a Container.
type Option func(*Container)

// WithOptions overrides the static chart configuration.
func WithOptions(o pyramid.Options) Option {
	return func(c *Container) { c.opts = o }
}

// Container owns the displayed ChartModel for the lifetime of a view.
type Container struct {
	src  source.Source
	opts pyramid.Options

	// delivering is held while listeners run so Teardown can wait them out
	delivering sync.Mutex

	mu        sync.Mutex
	model     pyramid.ChartModel
	state     State
	listeners map[int]Listener
	nextID    int
	shown     bool
	torn      bool
	task      *loader.Task
}

// New returns an empty container reading from src.
func New(src source.Source, opts ...Option) *Container {
	c := &Container{
		src:       src,
		opts:      pyramid.DefaultOptions(),
		model:     pyramid.EmptyModel(),
		listeners: map[int]Listener{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Show starts the one and only load. Calls after the first, or after
// Teardown, do nothing.
func (c *Container) Show(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shown || c.torn {
		return
	}
	c.shown = true
	logging.Infof("[view] loading %s", c.src.Name())
	c.task = loader.Start(ctx, c.src, c.replace)
}

// Done is closed once the load started by Show has finished. It returns nil
// before Show.
func (c *Container) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return nil
	}
	return c.task.Done()
}

// Err returns the load failure, if any, once Done is closed.
func (c *Container) Err() error {
	c.mu.Lock()
	t := c.task
	c.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Err()
}

func (c *Container) replace(m pyramid.ChartModel) {
	c.delivering.Lock()
	defer c.delivering.Unlock()
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		logging.Debugf("[view] dropping model for torn down view")
		return
	}
	c.model = m
	c.state = StateLoaded
	ls := make([]Listener, 0, len(c.listeners))
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		ls = append(ls, c.listeners[id])
	}
	c.mu.Unlock()

	logging.Infof("[view] loaded %d age groups from %s", m.Len(), c.src.Name())
	for _, l := range ls {
		if c.isTorn() {
			logging.Debugf("[view] torn down during delivery; skipping remaining listeners")
			return
		}
		l(m.Clone())
	}
}

// CurrentModel returns a copy of the displayed model.
func (c *Container) CurrentModel() pyramid.ChartModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model.Clone()
}

// State reports whether data has been loaded.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Options returns the static chart configuration.
func (c *Container) Options() pyramid.Options { return c.opts }

// Source returns the data source the container reads.
func (c *Container) Source() source.Source { return c.src }

// OnModelReplaced registers l and returns a function removing it.
// Listeners run on the loading goroutine, in registration order.
func (c *Container) OnModelReplaced(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Container) isTorn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.torn
}

// Teardown cancels an outstanding load and detaches all listeners. The
// model is never replaced afterwards. A listener already running is waited
// for; no listener runs once Teardown has returned. Listeners must not call
// Teardown themselves.
func (c *Container) Teardown() {
	c.mu.Lock()
	if c.torn {
		c.mu.Unlock()
		return
	}
	c.torn = true
	t := c.task
	c.listeners = map[int]Listener{}
	c.mu.Unlock()
	if t != nil {
		t.Cancel()
	}
	// wait for an in-flight delivery to finish
	c.delivering.Lock()
	c.delivering.Unlock()
}
