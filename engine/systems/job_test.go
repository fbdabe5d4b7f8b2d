package systems

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)

	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestRunAllRunsEveryJob(t *testing.T) {
	js, err := NewJobSystem(4, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	var count atomic.Int32
	jobs := make([]Job, 32)
	for i := range jobs {
		jobs[i] = Job{Name: "count", Run: func() error {
			count.Add(1)
			return nil
		}}
	}
	require.NoError(t, js.RunAll(jobs...))
	assert.Equal(t, int32(32), count.Load())
}

func TestRunAllJoinsErrors(t *testing.T) {
	js, err := NewJobSystem(2, 2)
	require.NoError(t, err)
	defer js.Shutdown()

	boom := errors.New("boom")
	err = js.RunAll(
		Job{Name: "ok", Run: func() error { return nil }},
		Job{Name: "fails", Run: func() error { return boom }},
		Job{Name: "panics", Run: func() error { panic("bad mesh") }},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job `fails` failed")
	assert.Contains(t, err.Error(), "job `panics` panicked: bad mesh")
}

func TestSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	assert.ErrorIs(t, js.Submit(Job{Name: "late", Run: func() error { return nil }}, nil), ErrJobSystemClosed)
	assert.ErrorIs(t, js.RunAll(Job{Name: "late", Run: func() error { return nil }}), ErrJobSystemClosed)
}
