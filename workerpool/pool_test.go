package workerpool_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/alanrogers/legofit/workerpool"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllSubmittedJobs(t *testing.T) {
	var completed int64
	p := workerpool.New(4, nil, nil)

	const n = 200
	for i := 0; i < n; i++ {
		p.Submit(workerpool.Job{Fn: func(state any) {
			atomic.AddInt64(&completed, 1)
		}})
	}
	p.Join()

	require.EqualValues(t, n, atomic.LoadInt64(&completed))
	stats := p.Stats()
	require.Equal(t, n, stats.Submitted)
	require.Equal(t, n, stats.Completed)
	require.Equal(t, 4, stats.Idle)
}

func TestWaitIdleBlocksUntilQueueDrains(t *testing.T) {
	var completed int64
	p := workerpool.New(2, nil, nil)

	for i := 0; i < 50; i++ {
		p.Submit(workerpool.Job{Fn: func(state any) {
			atomic.AddInt64(&completed, 1)
		}})
	}

	done := make(chan struct{})
	go func() {
		p.WaitIdle()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WaitIdle did not return")
	}

	require.EqualValues(t, 50, atomic.LoadInt64(&completed))
	p.Join()
}

func TestNoJobsDispatchedWhenNoneSubmitted(t *testing.T) {
	var stateBuilds int64
	p := workerpool.New(3, func() any {
		atomic.AddInt64(&stateBuilds, 1)
		return nil
	}, nil)

	p.WaitIdle()
	stats := p.Stats()
	require.Equal(t, 0, stats.Submitted)
	require.Equal(t, 0, stats.Completed)
	require.Equal(t, 3, stats.Idle)
	require.Zero(t, atomic.LoadInt64(&stateBuilds), "makeState must not run when no job was ever dispatched")

	p.Join()
}

func TestThreadStateIsBuiltLazilyAndAlwaysDropped(t *testing.T) {
	var builds, drops int64
	p := workerpool.New(4, func() any {
		atomic.AddInt64(&builds, 1)
		return atomic.LoadInt64(&builds)
	}, func(state any) {
		atomic.AddInt64(&drops, 1)
	})

	p.Submit(workerpool.Job{Fn: func(state any) {}})
	p.Join()

	b := atomic.LoadInt64(&builds)
	require.GreaterOrEqual(t, b, int64(1))
	require.LessOrEqual(t, b, int64(4))
	require.Equal(t, b, atomic.LoadInt64(&drops), "every worker that built a state must drop exactly one")
}
