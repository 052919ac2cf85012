package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReclaimer struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (c *countingReclaimer) Reclaim(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep must run with a deadline")
	}
	return c.n, c.err
}

func TestRunOnce(t *testing.T) {
	r := &countingReclaimer{n: 3}
	s := NewScheduler(r, nil)

	assert.Equal(t, int64(3), s.RunOnce(context.Background()))
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestRunOnce_ErrorReportsZero(t *testing.T) {
	r := &countingReclaimer{n: 5, err: errors.New("db down")}
	s := NewScheduler(r, nil)

	assert.Zero(t, s.RunOnce(context.Background()))
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&countingReclaimer{}, nil)
	assert.Error(t, s.Start("not a cron spec"))
}

func TestStart_RunsOnSchedule(t *testing.T) {
	r := &countingReclaimer{}
	s := NewScheduler(r, nil)
	require.NoError(t, s.Start("@every 1s"))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
