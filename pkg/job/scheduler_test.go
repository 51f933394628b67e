package job_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/pkg/job"
)

type countTask struct {
	calls atomic.Int64
}

func (t *countTask) Name() string     { return "count" }
func (t *countTask) Schedule() string { return "@every 1s" }
func (t *countTask) Handle(context.Context) error {
	t.calls.Add(1)
	return nil
}

func TestScheduler(t *testing.T) {
	t.Parallel()

	t.Run("runs on schedule", func(t *testing.T) {
		t.Parallel()
		task := &countTask{}
		s, err := job.NewScheduler(job.WithScheduledTask(task))
		require.NoError(t, err)

		require.NoError(t, s.Start(context.Background()))
		require.ErrorIs(t, s.Start(context.Background()), job.ErrAlreadyStarted)

		assert.Eventually(t, func() bool { return task.calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
		require.NoError(t, s.Stop(context.Background()))
		require.ErrorIs(t, s.Stop(context.Background()), job.ErrNotStarted)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		t.Parallel()
		_, err := job.NewScheduler(job.WithFunc("bad", "every tuesday", func(context.Context) error { return nil }))
		require.ErrorIs(t, err, job.ErrInvalidSchedule)
	})

	t.Run("descriptors and cron expressions", func(t *testing.T) {
		t.Parallel()
		noop := func(context.Context) error { return nil }
		_, err := job.NewScheduler(
			job.WithFunc("hourly", "@hourly", noop),
			job.WithFunc("nightly", "0 3 * * *", noop),
		)
		require.NoError(t, err)
	})

	t.Run("run now", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		s, err := job.NewScheduler(job.WithFunc("fail", "@daily", func(context.Context) error { return boom }))
		require.NoError(t, err)

		require.ErrorIs(t, s.RunNow(context.Background(), "fail"), boom)
		require.Error(t, s.RunNow(context.Background(), "missing"))
	})

	t.Run("stop cancels run context", func(t *testing.T) {
		t.Parallel()
		started := make(chan struct{}, 1)
		s, err := job.NewScheduler(job.WithFunc("block", "@every 1s", func(ctx context.Context) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			return ctx.Err()
		}))
		require.NoError(t, err)
		require.NoError(t, s.Start(context.Background()))

		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatal("task did not start")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, s.Stop(ctx))
	})
}
