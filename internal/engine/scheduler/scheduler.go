// Package scheduler implements the dependency-gated execution engine: a
// readiness loop over the pending output set feeding a bounded worker pool.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports"
	"github.com/droverbuild/drover/internal/engine/depcache"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting on its dependencies.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task's action is executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the action finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the action returned an error.
	StatusFailed TaskStatus = "Failed"
	// StatusCached indicates the task was skipped as already up to date.
	StatusCached TaskStatus = "Cached"
)

// livenessInterval bounds how long an idle worker waits before logging a
// progress heartbeat. It exists purely for reporting, never for correctness.
const livenessInterval = 10 * time.Second

// Scheduler drives the task list to completion. It is the sole mutator of
// the pending set and the cache; workers only ever touch the two channels.
type Scheduler struct {
	executor  ports.Executor
	cache     *depcache.Cache
	telemetry ports.Telemetry
	logger    ports.Logger

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a Scheduler.
func NewScheduler(
	executor ports.Executor,
	cache *depcache.Cache,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:   executor,
		cache:      cache,
		telemetry:  telemetry,
		logger:     logger,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

// Run executes the task list with at most width actions in flight. width 0
// selects the synchronous fallback: the identical readiness loop on the
// calling goroutine, one action at a time.
//
// Ready means none of a task's inputs, explicit deps, or alternate deps is
// still a key of the pending set. Up-to-date tasks complete instantly
// without consuming a worker slot. If tasks remain but nothing is ready and
// nothing is in flight, Run fails with an unsatisfiable-dependency error
// rather than hanging. The first action failure stops new dispatch; work
// already in flight drains before Run returns.
func (s *Scheduler) Run(ctx context.Context, tasks []domain.Task, width int) error {
	s.initStatuses(tasks)
	state := s.newRunState(ctx, tasks, width)
	if width <= 0 {
		return state.runSequential()
	}
	return state.runParallel()
}

func (s *Scheduler) initStatuses(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range tasks {
		s.taskStatus[tasks[i].Name()] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

type result struct {
	task *domain.Task
	err  error
}

type runState struct {
	s   *Scheduler
	ctx context.Context

	remaining []*domain.Task
	pending   map[domain.InternedString]struct{}
	inFlight  int
	width     int

	taskCh   chan *domain.Task
	resultCh chan result

	failed bool
	errs   error
}

func (s *Scheduler) newRunState(ctx context.Context, tasks []domain.Task, width int) *runState {
	remaining := make([]*domain.Task, len(tasks))
	pending := make(map[domain.InternedString]struct{})
	for i := range tasks {
		remaining[i] = &tasks[i]
		for _, out := range tasks[i].Outputs {
			pending[out] = struct{}{}
		}
	}
	return &runState{
		s:         s,
		ctx:       ctx,
		remaining: remaining,
		pending:   pending,
		width:     width,
		taskCh:    make(chan *domain.Task, width),
		resultCh:  make(chan result, width),
	}
}

// runParallel is the readiness loop over the pending set: rescan the
// remaining tasks, instantly complete the up-to-date ones, dispatch the rest
// up to width, then block for a completion before rescanning. The linear
// rescan tolerates the registry's append-based construction; target counts
// in the low thousands keep it cheap.
func (state *runState) runParallel() error {
	workers := &errgroup.Group{}
	for range state.width {
		workers.Go(state.worker)
	}

	for len(state.remaining) > 0 || state.inFlight > 0 {
		progressed := false
		if !state.aborting() {
			progressed = state.dispatch()
		}

		if state.inFlight == 0 {
			if state.aborting() {
				break
			}
			if progressed {
				// Skips may have unblocked more tasks; rescan right away.
				continue
			}
			if len(state.remaining) > 0 {
				state.errs = errors.Join(state.errs, state.starvationError())
			}
			break
		}

		if progressed && state.inFlight < state.width && !state.aborting() {
			continue
		}
		state.handleResult(<-state.resultCh)
	}

	close(state.taskCh)
	_ = workers.Wait()

	if err := state.ctx.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

// runSequential executes at most one task at a time on the calling
// goroutine, with no queueing, reusing the same readiness evaluation.
func (state *runState) runSequential() error {
	total := len(state.remaining)
	done := 0

	for len(state.remaining) > 0 {
		if state.aborting() {
			break
		}
		progressed := false
		keep := state.remaining[:0]
		for _, t := range state.remaining {
			if state.aborting() || !state.ready(t) {
				keep = append(keep, t)
				continue
			}
			progressed = true
			if state.trySkip(t) {
				done++
				continue
			}

			state.s.updateStatus(t.Name(), StatusRunning)
			ctx, vertex := state.s.telemetry.Record(state.ctx, t.Name().String())
			vertex.Progress(float64(done) / float64(total))
			err := runAction(ctx, state.s.executor, t)
			vertex.Complete(err)
			if err != nil {
				state.recordFailure(t, err)
				continue
			}
			state.s.updateStatus(t.Name(), StatusCompleted)
			state.complete(t)
			done++
		}
		state.remaining = keep

		if !progressed && len(state.remaining) > 0 {
			state.errs = errors.Join(state.errs, state.starvationError())
			break
		}
	}

	if err := state.ctx.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

// dispatch performs one scan over the remaining task list. It reports
// whether any task was skipped or handed to a worker.
func (state *runState) dispatch() bool {
	progressed := false
	keep := state.remaining[:0]
	for _, t := range state.remaining {
		if state.failed || !state.ready(t) {
			keep = append(keep, t)
			continue
		}
		if state.trySkip(t) {
			progressed = true
			continue
		}
		if state.inFlight >= state.width {
			keep = append(keep, t)
			continue
		}
		state.s.updateStatus(t.Name(), StatusRunning)
		state.inFlight++
		state.taskCh <- t
		progressed = true
	}
	state.remaining = keep
	return progressed
}

// ready reports whether none of the task's blockers is still pending.
func (state *runState) ready(t *domain.Task) bool {
	ok := true
	t.BlockedBy(func(name domain.InternedString) bool {
		if _, blocked := state.pending[name]; blocked {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// trySkip completes the task without invoking its action when its recorded
// outputs are still current. The skip is recorded in the cache so downstream
// staleness checks keep passing on the next invocation.
func (state *runState) trySkip(t *domain.Task) bool {
	if state.s.cache.NeedsBuild(t.OutputPaths(), t.InputPaths()) {
		return false
	}
	state.s.updateStatus(t.Name(), StatusCached)
	_, vertex := state.s.telemetry.Record(state.ctx, t.Name().String())
	vertex.Cached()
	vertex.Complete(nil)
	state.complete(t)
	return true
}

// complete removes the task's outputs from the pending set and restamps them.
// Called only from the scheduling goroutine.
func (state *runState) complete(t *domain.Task) {
	for _, out := range t.Outputs {
		delete(state.pending, out)
	}
	state.s.cache.RecordBuilt(t.OutputPaths(), t.InputPaths())
}

func (state *runState) handleResult(res result) {
	state.inFlight--
	if res.err != nil {
		state.recordFailure(res.task, res.err)
		return
	}
	state.s.updateStatus(res.task.Name(), StatusCompleted)
	state.complete(res.task)
}

func (state *runState) recordFailure(t *domain.Task, err error) {
	state.failed = true
	state.s.updateStatus(t.Name(), StatusFailed)
	wrapped := zerr.With(zerr.Wrap(err, "action failed"), "target", t.Name().String())
	state.errs = errors.Join(state.errs, wrapped)
}

func (state *runState) aborting() bool {
	return state.failed || state.ctx.Err() != nil
}

func (state *runState) starvationError() error {
	// Wrapping keeps the sentinel reachable through errors.Is.
	err := zerr.Wrap(domain.ErrUnsatisfiedDependency, "no task is ready and none are running")
	err = zerr.With(err, "stuck_tasks", len(state.remaining))
	return zerr.With(err, "first_target", state.remaining[0].Name().String())
}

// worker consumes tasks until the task channel closes. Each action runs
// behind a recover so a panicking action reports as a failed result instead
// of killing the pool. The periodic timeout only feeds liveness logging.
func (state *runState) worker() error {
	for {
		select {
		case t, ok := <-state.taskCh:
			if !ok {
				return nil
			}
			state.resultCh <- result{task: t, err: state.execute(t)}
		case <-time.After(livenessInterval):
			state.s.logger.Info("waiting for tasks")
		}
	}
}

func (state *runState) execute(t *domain.Task) error {
	ctx, vertex := state.s.telemetry.Record(state.ctx, t.Name().String())
	err := runAction(ctx, state.s.executor, t)
	vertex.Complete(err)
	return err
}

func runAction(ctx context.Context, executor ports.Executor, t *domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.New("action panicked"), "panic", fmt.Sprint(r))
		}
	}()
	return executor.Execute(ctx, t)
}
