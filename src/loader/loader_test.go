package loader

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

// gatedSource blocks Open until release is closed or the context ends.
type gatedSource struct {
	body    string
	err     error
	release chan struct{}
}

func (g *gatedSource) Name() string { return "gated.csv" }

func (g *gatedSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return io.NopCloser(strings.NewReader(g.body)), nil
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("task did not finish")
	}
}

func TestStartDeliversModel(t *testing.T) {
	src := &gatedSource{body: "Age,Male,Female\n0-9,10,9\n10-19,-8,8.5\n"}
	got := make(chan pyramid.ChartModel, 1)
	task := Start(context.Background(), src, func(m pyramid.ChartModel) { got <- m })
	waitDone(t, task)
	require.NoError(t, task.Err())

	m := <-got
	assert.Equal(t, []string{"0-9", "10-19"}, m.Labels)
	assert.Equal(t, []float64{-10, -8}, m.Male.Values)
	assert.Equal(t, []float64{9, 8.5}, m.Female.Values)
}

func TestStartFailureSkipsCallback(t *testing.T) {
	boom := errors.New("unreachable")
	var calls int32
	task := Start(context.Background(), &gatedSource{err: boom}, func(pyramid.ChartModel) { atomic.AddInt32(&calls, 1) })
	waitDone(t, task)
	assert.ErrorIs(t, task.Err(), boom)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCancelBeforeCompletion(t *testing.T) {
	src := &gatedSource{body: "Age,Male,Female\n0-9,1,1\n", release: make(chan struct{})}
	var calls int32
	task := Start(context.Background(), src, func(pyramid.ChartModel) { atomic.AddInt32(&calls, 1) })
	task.Cancel()
	close(src.release)
	waitDone(t, task)

	assert.ErrorIs(t, task.Err(), context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&calls))
	task.Cancel()
}

func TestLoadSync(t *testing.T) {
	m, err := Load(context.Background(), &gatedSource{body: "Age,Male,Female\n"})
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
}
