package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestScheduler_Run_FailureAbortsDependents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		tasks := []domain.Task{
			task([]string{"broken"}, nil),
			task([]string{"dependent"}, []string{"broken"}),
		}

		actionErr := errors.New("compiler exited with status 1")
		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *domain.Task) error {
				require.Equal(t, "broken", tk.Name().String())
				return actionErr
			}).Times(1)

		err := f.sched.Run(context.Background(), tasks, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, actionErr)

		statuses := f.sched.GetTaskStatusMap()
		assert.Equal(t, scheduler.StatusFailed, statuses[domain.NewInternedString("broken")])
		assert.Equal(t, scheduler.StatusPending, statuses[domain.NewInternedString("dependent")])
	})
}

func TestScheduler_Run_FailureDrainsInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		tasks := []domain.Task{
			task([]string{"bad"}, nil),
			task([]string{"slow"}, nil),
			task([]string{"late"}, []string{"slow"}),
		}

		slowStarted := make(chan struct{})
		slowProceed := make(chan struct{})
		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *domain.Task) error {
				switch tk.Name().String() {
				case "bad":
					return errors.New("boom")
				case "slow":
					close(slowStarted)
					<-slowProceed
					return nil
				default:
					t.Errorf("unexpected dispatch of %s after failure", tk.Name().String())
					return nil
				}
			}).Times(2)

		errCh := make(chan error)
		go func() {
			errCh <- f.sched.Run(context.Background(), tasks, 2)
		}()

		synctest.Wait()
		<-slowStarted
		close(slowProceed)

		require.Error(t, <-errCh)

		// The in-flight action was allowed to finish; its dependent was not.
		statuses := f.sched.GetTaskStatusMap()
		assert.Equal(t, scheduler.StatusCompleted, statuses[domain.NewInternedString("slow")])
		assert.Equal(t, scheduler.StatusPending, statuses[domain.NewInternedString("late")])
	})
}

func TestScheduler_Run_CycleAborts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)

		x := task([]string{"x"}, []string{"y"})
		y := task([]string{"y"}, []string{"x"})

		err := f.sched.Run(context.Background(), []domain.Task{x, y}, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnsatisfiedDependency)

		var zed *zerr.Error
		require.ErrorAs(t, err, &zed)
		md := zed.Metadata()
		assert.Equal(t, 2, md["stuck_tasks"])
		assert.Equal(t, "x", md["first_target"])
	})
}

func TestScheduler_Run_SequentialCycleAborts(t *testing.T) {
	f := newFixture(t)

	x := task([]string{"x"}, []string{"y"})
	y := task([]string{"y"}, []string{"x"})

	err := f.sched.Run(context.Background(), []domain.Task{x, y}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsatisfiedDependency)
}

func TestScheduler_Run_PanicInAction(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *domain.Task) error {
				panic("linker ate the object file")
			}).Times(1)

		err := f.sched.Run(context.Background(), []domain.Task{task([]string{"obj"}, nil)}, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
	})
}

func TestScheduler_Run_NoTasks(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sched.Run(context.Background(), nil, 4))
}
