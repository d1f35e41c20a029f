package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFailure is reserved for construction-time thread/lock setup
// failures. Go's goroutine creation does not itself fail the way the
// source's pthread_create call could, so New never actually returns
// this error today; it exists so callers can match on it by sentinel
// rather than by a future concrete error type if that changes.
var ErrPoolFailure = errors.New("workerpool: pool failed to start")

// Job carries an opaque parameter and the function to invoke with it.
// Fn receives the calling worker's ThreadState (built by makeState on
// that worker's first job) so it can reuse scratch buffers instead of
// allocating per job.
type Job struct {
	Param any
	Fn    func(state any)
}

// PoolStats is a snapshot of pool activity, useful for tests that need
// to assert no job was ever dispatched without inspecting internals.
type PoolStats struct {
	Submitted int
	Completed int
	Idle      int
}

// Pool runs jobs on maxThreads worker goroutines. makeState is called
// once per worker, lazily, on that worker's first job; dropState is
// called once per worker when the pool shuts down. Neither is called
// if a worker never receives a job.
type Pool struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	allIdle  *sync.Cond

	queue      []Job
	accepting  bool
	idle       int
	maxThreads int
	submitted  int
	completed  int

	makeState func() any
	dropState func(any)

	wg sync.WaitGroup
}

// New starts maxThreads worker goroutines, all initially idle, and
// returns the running Pool.
func New(maxThreads int, makeState func() any, dropState func(any)) *Pool {
	p := &Pool{
		maxThreads: maxThreads,
		idle:       maxThreads,
		accepting:  true,
		makeState:  makeState,
		dropState:  dropState,
	}
	p.notEmpty = sync.NewCond(&p.mu)
	p.allIdle = sync.NewCond(&p.mu)

	p.wg.Add(maxThreads)
	for i := 0; i < maxThreads; i++ {
		go p.runWorker()
	}

	return p
}

// Submit enqueues job and wakes one idle worker. Submitting after
// NoMoreJobs is a no-op: the queue is already closed.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	if !p.accepting {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, job)
	p.submitted++
	p.mu.Unlock()
	p.notEmpty.Signal()
}

// NoMoreJobs closes the queue: workers drain whatever remains, then
// exit instead of waiting for another Submit.
func (p *Pool) NoMoreJobs() {
	p.mu.Lock()
	p.accepting = false
	alreadyIdle := len(p.queue) == 0 && p.idle == p.maxThreads
	p.mu.Unlock()

	p.notEmpty.Broadcast()
	if alreadyIdle {
		p.allIdle.Broadcast()
	}
}

// WaitIdle blocks until the queue is empty and every worker is idle.
func (p *Pool) WaitIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !(len(p.queue) == 0 && p.idle == p.maxThreads) {
		p.allIdle.Wait()
	}
}

// Join closes the queue and blocks until every worker goroutine has
// exited, releasing its ThreadState via dropState.
func (p *Pool) Join() {
	p.NoMoreJobs()
	p.wg.Wait()
}

// MaxThreads returns the fixed worker count the pool was created with.
func (p *Pool) MaxThreads() int { return p.maxThreads }

// Stats reports a point-in-time snapshot of pool activity.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{Submitted: p.submitted, Completed: p.completed, Idle: p.idle}
}

func (p *Pool) runWorker() {
	defer p.wg.Done()

	var state any
	haveState := false

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && p.accepting {
			p.notEmpty.Wait()
		}
		if len(p.queue) == 0 && !p.accepting {
			p.mu.Unlock()
			break
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.idle--
		p.mu.Unlock()

		if !haveState && p.makeState != nil {
			state = p.makeState()
			haveState = true
		}
		job.Fn(state)

		p.mu.Lock()
		p.completed++
		p.idle++
		done := len(p.queue) == 0 && p.idle == p.maxThreads
		p.mu.Unlock()
		if done {
			p.allIdle.Broadcast()
		}
	}

	if haveState && p.dropState != nil {
		p.dropState(state)
	}
}
