package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/chhitz007/nexora-page/internal/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPagesPartitionInOrder(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 10; n++ {
		for size := 1; size <= 4; size++ {
			items := seq(n)
			pages := Pages(items, size)
			require.Len(t, pages, TotalPages(n, size))

			var flat []int
			for _, p := range pages {
				require.NotEmpty(t, p)
				require.LessOrEqual(t, len(p), size)
				flat = append(flat, p...)
			}
			if n == 0 {
				require.Empty(t, flat)
				continue
			}
			require.Equal(t, items, flat, "n=%d size=%d", n, size)
		}
	}
}

func TestPageLastIsShortWithoutWrapping(t *testing.T) {
	t.Parallel()

	items := seq(5)
	require.Equal(t, 2, TotalPages(5, 3))
	require.Equal(t, []int{4, 5}, Page(items, 3, 1))
	require.Nil(t, Page(items, 3, 2))
	require.Equal(t, 1, Padding(5, 3, 1))
	require.Zero(t, Padding(5, 3, 0))
	require.Zero(t, TotalPages(0, 3))
}

func TestRotatorCyclesBackToStart(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	r := NewRotator(TotalPages(5, 3), WithClock(fake), WithInterval(6*time.Second))
	r.Start()
	defer r.Stop()

	for i := 0; i < r.TotalPages(); i++ {
		fake.Advance(6 * time.Second)
	}
	require.Zero(t, r.Current())

	r7 := NewRotator(7, WithClock(fake), WithInterval(time.Second))
	r7.Start()
	defer r7.Stop()
	fake.Advance(7 * time.Second)
	require.Zero(t, r7.Current())
}

func TestRotatorNoTickBeforeStart(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	r := NewRotator(3, WithClock(fake))
	fake.Advance(time.Minute)
	require.Zero(t, r.Current())
	require.True(t, r.NextTickAt().IsZero())
	require.Zero(t, fake.Pending())
}

func TestRotatorSelectResetsTimer(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	fake := clock.NewFake(start)
	r := NewRotator(4, WithClock(fake), WithInterval(6*time.Second))
	r.Start()
	defer r.Stop()

	fake.Advance(5 * time.Second)
	require.NoError(t, r.Select(2))
	require.Equal(t, 2, r.Current())
	require.Equal(t, start.Add(11*time.Second), r.NextTickAt())

	fake.Advance(6*time.Second - time.Millisecond)
	require.Equal(t, 2, r.Current(), "no change before a full interval")

	fake.Advance(time.Millisecond)
	require.Equal(t, 3, r.Current())
	require.Equal(t, 1, fake.Pending())
}

func TestRotatorSelectOutOfRangeKeepsTimer(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	r := NewRotator(2, WithClock(fake))
	r.Start()
	defer r.Stop()

	due := r.NextTickAt()
	err := r.Select(2)
	require.ErrorIs(t, err, ErrPageOutOfRange)
	require.ErrorIs(t, r.Select(-1), ErrPageOutOfRange)
	require.Equal(t, due, r.NextTickAt())
	require.Zero(t, r.Current())
}

func TestRotatorStopCancelsTimer(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	ticks := 0
	r := NewRotator(3, WithClock(fake), WithOnTick(func(int) { ticks++ }))
	r.Start()
	fake.Advance(DefaultInterval)
	require.Equal(t, 1, ticks)

	r.Stop()
	r.Stop()
	require.Zero(t, fake.Pending())
	fake.Advance(time.Hour)
	require.Equal(t, 1, ticks)
	require.Equal(t, 1, r.Current())

	r.Start()
	require.Zero(t, fake.Pending(), "start after stop stays stopped")
}

func TestRotatorSinglePageSchedulesNothing(t *testing.T) {
	t.Parallel()

	fake := clock.NewFake(time.Unix(0, 0))
	for _, total := range []int{0, 1} {
		r := NewRotator(total, WithClock(fake))
		r.Start()
		require.Zero(t, fake.Pending())
		require.Zero(t, r.Tick())
		require.Zero(t, r.Current())
		r.Stop()
	}
}

func TestRotatorRealClockTicksUntilStopped(t *testing.T) {
	fired := make(chan int, 4)
	r := NewRotator(3, WithInterval(5*time.Millisecond), WithOnTick(func(p int) {
		select {
		case fired <- p:
		default:
		}
	}))
	r.Start()

	select {
	case page := <-fired:
		require.Equal(t, 1, page)
	case <-time.After(2 * time.Second):
		t.Fatal("rotator never ticked")
	}
	r.Stop()
}
