package scheduler_test

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/droverbuild/drover/internal/adapters/telemetry"
	"github.com/droverbuild/drover/internal/core/domain"
	"github.com/droverbuild/drover/internal/core/ports/mocks"
	"github.com/droverbuild/drover/internal/engine/depcache"
	"github.com/droverbuild/drover/internal/engine/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	exec     *mocks.MockExecutor
	store    *mocks.MockStampStore
	hasher   *mocks.MockHasher
	verifier *mocks.MockVerifier
	cache    *depcache.Cache
	sched    *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		exec:     mocks.NewMockExecutor(ctrl),
		store:    mocks.NewMockStampStore(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		verifier: mocks.NewMockVerifier(ctrl),
	}
	f.cache = depcache.New(f.store, f.hasher, f.verifier, logger)
	f.sched = scheduler.NewScheduler(f.exec, f.cache, telemetry.NewNoop(), logger)
	return f
}

// alwaysStale makes every staleness check fail so every action runs.
func (f *fixture) alwaysStale() {
	f.verifier.EXPECT().OutputsExist(gomock.Any()).Return(false, nil).AnyTimes()
	f.hasher.EXPECT().Signature(gomock.Any()).Return("sig", nil).AnyTimes()
}

func task(outputs []string, inputs []string) domain.Task {
	t := domain.Task{}
	for _, o := range outputs {
		t.Outputs = append(t.Outputs, domain.NewInternedString(o))
	}
	for _, i := range inputs {
		t.Inputs = append(t.Inputs, domain.NewInternedString(i))
	}
	return t
}

func TestScheduler_Run_Diamond(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		// a is a leaf; b and c consume a; d consumes both.
		tasks := []domain.Task{
			task([]string{"a"}, nil),
			task([]string{"b"}, []string{"a"}),
			task([]string{"c"}, []string{"a"}),
			task([]string{"d"}, []string{"b", "c"}),
		}

		started := map[string]chan struct{}{}
		proceed := map[string]chan struct{}{}
		for _, name := range []string{"a", "b", "c", "d"} {
			started[name] = make(chan struct{})
			proceed[name] = make(chan struct{})
		}

		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *domain.Task) error {
				name := tk.Name().String()
				close(started[name])
				<-proceed[name]
				return nil
			}).AnyTimes()

		errCh := make(chan error)
		go func() {
			errCh <- f.sched.Run(context.Background(), tasks, 2)
		}()

		synctest.Wait()
		select {
		case <-started["a"]:
		default:
			t.Fatal("a did not start")
		}
		assertNotStarted(t, started["b"], "b")
		assertNotStarted(t, started["c"], "c")

		close(proceed["a"])
		synctest.Wait()
		<-started["b"]
		<-started["c"]
		assertNotStarted(t, started["d"], "d")

		close(proceed["b"])
		close(proceed["c"])
		synctest.Wait()
		<-started["d"]
		close(proceed["d"])

		require.NoError(t, <-errCh)

		statuses := f.sched.GetTaskStatusMap()
		for _, name := range []string{"a", "b", "c", "d"} {
			assert.Equal(t, scheduler.StatusCompleted, statuses[domain.NewInternedString(name)])
		}
	})
}

func assertNotStarted(t *testing.T, ch chan struct{}, name string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("%s started before its dependencies completed", name)
	default:
	}
}

func TestScheduler_Run_WidthCap(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		tasks := []domain.Task{
			task([]string{"t1"}, nil),
			task([]string{"t2"}, nil),
			task([]string{"t3"}, nil),
			task([]string{"t4"}, nil),
		}

		const width = 2
		var active, peak atomic.Int32
		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *domain.Task) error {
				cur := active.Add(1)
				if cur > peak.Load() {
					peak.Store(cur)
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return nil
			}).Times(len(tasks))

		require.NoError(t, f.sched.Run(context.Background(), tasks, width))
		assert.LessOrEqual(t, peak.Load(), int32(width))
	})
}

func TestScheduler_Run_SkipUpToDate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)

		// a's recorded stamp still matches; b has never been built.
		f.store.EXPECT().Load().Return(domain.StampMap{
			"a": {"src": "s1"},
		}, nil)
		f.cache.Load()

		f.verifier.EXPECT().OutputsExist([]string{"a"}).Return(true, nil)
		f.verifier.EXPECT().OutputsExist([]string{"b"}).Return(false, nil)
		f.hasher.EXPECT().Signature("src").Return("s1", nil)
		f.hasher.EXPECT().Signature("a").Return("asig", nil)

		tasks := []domain.Task{
			task([]string{"a"}, []string{"src"}),
			task([]string{"b"}, []string{"a"}),
		}

		// Only b's action runs; a completes by skipping.
		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *domain.Task) error {
				assert.Equal(t, "b", tk.Name().String())
				return nil
			}).Times(1)

		require.NoError(t, f.sched.Run(context.Background(), tasks, 2))

		statuses := f.sched.GetTaskStatusMap()
		assert.Equal(t, scheduler.StatusCached, statuses[domain.NewInternedString("a")])
		assert.Equal(t, scheduler.StatusCompleted, statuses[domain.NewInternedString("b")])
	})
}

func TestScheduler_Run_AlternateDepsGateReadiness(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.alwaysStale()

		gen := task([]string{"gen.h"}, nil)
		consumer := task([]string{"app"}, []string{"main.c"})
		consumer.AltDeps = []domain.InternedString{domain.NewInternedString("gen.h")}

		var order []string
		f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, tk *domain.Task) error {
				order = append(order, tk.Name().String())
				return nil
			}).Times(2)

		// Width 1 keeps the recorded order deterministic.
		require.NoError(t, f.sched.Run(context.Background(), []domain.Task{consumer, gen}, 1))
		assert.Equal(t, []string{"gen.h", "app"}, order)
	})
}

func TestScheduler_Run_Sequential(t *testing.T) {
	f := newFixture(t)
	f.alwaysStale()

	tasks := []domain.Task{
		task([]string{"d"}, []string{"b", "c"}),
		task([]string{"b"}, []string{"a"}),
		task([]string{"c"}, []string{"a"}),
		task([]string{"a"}, nil),
	}

	var order []string
	f.exec.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tk *domain.Task) error {
			order = append(order, tk.Name().String())
			return nil
		}).Times(len(tasks))

	// Width 0: the same readiness loop, inline on this goroutine.
	require.NoError(t, f.sched.Run(context.Background(), tasks, 0))

	require.Len(t, order, 4)
	assert.Equal(t, "a", order[0])
	assert.Equal(t, "d", order[3])
}
