package concurrent

import (
	"errors"
	"time"
)

var ErrScheduleTimeout = errors.New("schedule error: timed out")

/*
Pool. bounded goroutine pool for short tasks (websocket reads). at most cap(sem) goroutines exist at once, spawned
lazily; idle goroutines keep pulling from work.

ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
*/
type Pool struct {
	sem  chan struct{}
	work chan func()
	done chan struct{}
}

func NewPool(size, queue int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
		done: make(chan struct{}),
	}
}

// Spawn. start n goroutines up front (capped at the pool size).
func (p *Pool) Spawn(n int) {
	for i := 0; i < n && i < cap(p.sem); i++ {
		p.sem <- struct{}{}
		go p.worker(func() {})
	}
}

// Schedule. block until task is handed to a goroutine.
func (p *Pool) Schedule(task func()) {
	_ = p.schedule(task, nil)
}

// ScheduleTimeout. like Schedule but give up after timeout with ErrScheduleTimeout.
func (p *Pool) ScheduleTimeout(timeout time.Duration, task func()) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return p.schedule(task, timer.C)
}

func (p *Pool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		go p.worker(task)
		return nil
	}
}

func (p *Pool) worker(task func()) {
	defer func() { <-p.sem }()

	task()
	for {
		select {
		case task := <-p.work:
			task()
		case <-p.done:
			return
		}
	}
}

// Close. stop idle goroutines, tasks already running finish normally.
func (p *Pool) Close() {
	close(p.done)
}
