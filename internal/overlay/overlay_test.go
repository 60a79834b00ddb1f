package overlay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chhitz007/nexora-page/internal/content"
)

type countingLock struct {
	engaged  int
	released int
	locked   bool
}

func (l *countingLock) Engage() {
	if l.locked {
		panic("engage while locked")
	}
	l.engaged++
	l.locked = true
}

func (l *countingLock) Release() {
	if !l.locked {
		panic("release while unlocked")
	}
	l.released++
	l.locked = false
}

func testFounders(n int) []content.Founder {
	out := make([]content.Founder, n)
	for i := range out {
		out[i] = content.Founder{ID: i + 1, Name: "Founder"}
	}
	return out
}

func TestOpenReplacesActiveAndLocksOnce(t *testing.T) {
	t.Parallel()

	lock := &countingLock{}
	c := NewCoordinator(testFounders(3), lock)

	c.OpenPillar(0, content.Pillar{Name: "TradeSphere"})
	c.OpenVisionMission(content.Panel{Type: content.PanelVision})
	require.Equal(t, KindVisionMission, c.Active().Kind())
	require.Equal(t, 1, lock.engaged)

	_, _, ok := c.Active().Pillar()
	require.False(t, ok)

	require.False(t, c.ClosePillar(), "stale close is a no-op")
	require.True(t, lock.locked)

	require.True(t, c.CloseVisionMission())
	require.False(t, lock.locked)
	require.Equal(t, 1, lock.released)
	require.False(t, c.CloseVisionMission())
	require.Equal(t, 1, lock.released)
}

func TestAtMostOneOverlayUnderRandomSequences(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	lock := &countingLock{}
	c := NewCoordinator(testFounders(5), lock)

	for step := 0; step < 2000; step++ {
		switch rng.Intn(8) {
		case 0:
			c.OpenPillar(rng.Intn(4), content.Pillar{})
		case 1:
			c.OpenVisionMission(content.Panel{Type: content.PanelMission})
		case 2:
			require.NoError(t, c.OpenFounder(rng.Intn(5)))
		case 3:
			c.ClosePillar()
		case 4:
			c.CloseVisionMission()
		case 5:
			c.CloseFounder()
		case 6:
			c.NextFounder()
		case 7:
			c.PrevFounder()
		}

		active := c.Active()
		_, _, p := active.Pillar()
		_, v := active.Panel()
		_, _, f := active.Founder()
		open := 0
		for _, b := range []bool{p, v, f} {
			if b {
				open++
			}
		}
		require.LessOrEqual(t, open, 1)
		require.Equal(t, open == 1, lock.locked)
		require.Equal(t, c.Locked(), lock.locked)
	}
}

func TestFounderNavigationWraps(t *testing.T) {
	t.Parallel()

	founders := testFounders(5)
	for start := range founders {
		lock := &countingLock{}
		c := NewCoordinator(founders, lock)
		require.NoError(t, c.OpenFounder(start))

		for i := 0; i < len(founders); i++ {
			_, ok := c.NextFounder()
			require.True(t, ok)
		}
		f, _, _ := c.Active().Founder()
		require.Equal(t, founders[start].ID, f.ID)

		for i := 0; i < len(founders); i++ {
			c.PrevFounder()
		}
		f, _, _ = c.Active().Founder()
		require.Equal(t, founders[start].ID, f.ID)
		require.Equal(t, 1, lock.engaged)
		require.Zero(t, lock.released)
	}
}

func TestFounderNavigationEdges(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(testFounders(5), nil)
	_, ok := c.NextFounder()
	require.False(t, ok, "no founder open")

	require.NoError(t, c.OpenFounder(0))
	prev, _ := c.PrevFounder()
	require.Equal(t, 5, prev.ID)
	next, _ := c.NextFounder()
	require.Equal(t, 1, next.ID)

	require.Error(t, c.OpenFounder(5))
}

func TestLockRecorderDrain(t *testing.T) {
	t.Parallel()

	rec := &LockRecorder{}
	c := NewCoordinator(testFounders(2), rec)
	require.Equal(t, TransitionNone, rec.Drain())

	require.NoError(t, c.OpenFounder(1))
	require.Equal(t, TransitionEngaged, rec.Drain())

	c.OpenPillar(2, content.Pillar{})
	require.Equal(t, TransitionNone, rec.Drain())

	c.ClosePillar()
	require.Equal(t, TransitionReleased, rec.Drain())
	require.False(t, rec.Locked())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, ok := ParseKind("Mission")
	require.True(t, ok)
	require.Equal(t, KindVisionMission, k)
	require.Equal(t, "founder", KindFounder.String())

	_, ok = ParseKind("form")
	require.False(t, ok)
}
