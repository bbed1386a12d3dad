package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/formula"
)

// fixedSampler always returns given inches in millimeters.
type fixedSampler struct {
	def   conversion.Definition
	given float64
	calls int
	last  float64
}

func (s *fixedSampler) Next(_ *catalog.Catalog, difficulty float64) conversion.Problem {
	s.calls++
	s.last = difficulty
	return s.def.ProblemFor(s.given)
}

type fakeScheduler struct {
	scheduled int
	cancelled int
	tick      func()
	period    time.Duration
}

func (f *fakeScheduler) Schedule(period time.Duration, tick func()) func() {
	f.scheduled++
	f.period = period
	f.tick = tick
	return func() { f.cancelled++ }
}

func (f *fakeScheduler) active() int { return f.scheduled - f.cancelled }

func fixture(t *testing.T) (*catalog.Catalog, *fixedSampler) {
	t.Helper()
	def := conversion.MustNew(conversion.Spec{
		Category:      conversion.Distance,
		CustomaryKey:  "inches",
		MetricKey:     "millimeters",
		CustomaryUnit: "in",
		MetricUnit:    "mm",
		Conversion:    conversion.LinearRatio(25.4),
		Magnitude:     conversion.Coarse,
	}, formula.Fixed)
	cat, err := catalog.New([]conversion.Definition{def})
	require.NoError(t, err)
	return cat, &fixedSampler{def: def, given: 3}
}

func settings() Settings {
	return Settings{
		StartQuota:        2,
		StartDifficulty:   5,
		DifficultyStep:    5,
		Tolerance:         5,
		SecondsPerProblem: 3,
	}
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	_, err := New(nil, &fixedSampler{}, settings())
	assert.ErrorIs(t, err, catalog.ErrEmpty)
}

func TestSubmitBeforeStart(t *testing.T) {
	cat, smp := fixture(t)
	m, err := New(cat, smp, settings())
	require.NoError(t, err)

	_, err = m.Submit("76")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.True(t, m.Problem().IsZero())

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Start(), ErrWrongPhase)
}

func TestRoundCompletesOnQuota(t *testing.T) {
	cat, smp := fixture(t)
	m, err := New(cat, smp, settings())
	require.NoError(t, err)
	require.NoError(t, m.Start())

	out, err := m.Submit("76")
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, PhaseActive, m.Phase())
	assert.Equal(t, 1, m.State().LevelUpProgress)
	assert.Equal(t, 2, smp.calls)

	out, err = m.Submit("76")
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, PhaseRoundComplete, m.Phase())
	assert.Equal(t, 0, m.State().LevelUpProgress)
	assert.Equal(t, 2, smp.calls)
	assert.Len(t, m.Round(), 2)

	_, err = m.Submit("76")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestRejectedAnswer(t *testing.T) {
	cat, smp := fixture(t)
	m, err := New(cat, smp, settings())
	require.NoError(t, err)
	require.NoError(t, m.Start())

	before := m.State()
	out, err := m.Submit("10")
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.True(t, m.WrongSignal())
	assert.Equal(t, before.Tries+1, m.State().Tries)
	assert.Equal(t, before.LevelUpProgress, m.State().LevelUpProgress)

	_, err = m.Submit("")
	require.NoError(t, err)
	assert.False(t, m.WrongSignal())
	assert.Equal(t, 3, m.State().Tries)

	out, err = m.Submit("76.2")
	require.NoError(t, err)
	require.True(t, out.Accepted)
	assert.Equal(t, 3, out.Stat.Tries)
	assert.Equal(t, 1, m.State().Tries)
	assert.Equal(t, 3, m.Stats().AttemptCount)
	assert.Equal(t, 1, m.Stats().ProblemsSolvedCount)
}

func TestDismissRoundBoostsExactlyOne(t *testing.T) {
	tests := []struct {
		name      string
		roll      float64
		wantDiff  float64
		wantQuota int
		wantBoost Boost
	}{
		{"difficulty", 0.49, 10, 2, BoostDifficulty},
		{"quota", 0.5, 5, 3, BoostQuota},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, smp := fixture(t)
			m, err := New(cat, smp, settings(), WithRoll(func() float64 { return tt.roll }))
			require.NoError(t, err)
			require.NoError(t, m.Start())

			assert.ErrorIs(t, m.DismissRound(), ErrWrongPhase)
			for i := 0; i < 2; i++ {
				_, err = m.Submit("76")
				require.NoError(t, err)
			}
			require.NoError(t, m.DismissRound())

			st := m.State()
			assert.Equal(t, PhaseActive, m.Phase())
			assert.Equal(t, 1, st.Level)
			assert.Equal(t, tt.wantDiff, st.Difficulty)
			assert.Equal(t, tt.wantQuota, st.LevelUpQuota)
			assert.Equal(t, tt.wantBoost, m.LastBoost())
			assert.Empty(t, m.Round())
			assert.Equal(t, tt.wantDiff, smp.last)

			_, err = m.Submit("76")
			require.NoError(t, err)
			assert.Equal(t, BoostNone, m.LastBoost())
		})
	}
}

func TestTimerLifecycle(t *testing.T) {
	cat, smp := fixture(t)
	s := settings()
	s.Timed = true
	sched := &fakeScheduler{}
	m, err := New(cat, smp, s, WithScheduler(sched), WithRoll(func() float64 { return 0 }))
	require.NoError(t, err)

	assert.Equal(t, 0, sched.scheduled)
	require.NoError(t, m.Start())
	assert.Equal(t, 1, sched.active())
	assert.Equal(t, DefaultTickPeriod, sched.period)

	sched.tick()
	assert.Equal(t, 2, m.State().SecondsLeft)

	// accepted answer resets the countdown
	_, err = m.Submit("76")
	require.NoError(t, err)
	assert.Equal(t, 3, m.State().SecondsLeft)

	// round complete cancels the countdown, stale ticks are ignored
	stale := sched.tick
	_, err = m.Submit("76")
	require.NoError(t, err)
	assert.Equal(t, PhaseRoundComplete, m.Phase())
	assert.Equal(t, 0, sched.active())
	assert.False(t, m.TimerRunning())
	stale()
	assert.Equal(t, 3, m.State().SecondsLeft)

	require.NoError(t, m.DismissRound())
	assert.Equal(t, 1, sched.active())

	m.SetPaused(true)
	sched.tick()
	assert.Equal(t, 3, m.State().SecondsLeft)
	m.SetPaused(false)

	for i := 0; i < 3; i++ {
		sched.tick()
	}
	assert.Equal(t, PhaseLost, m.Phase())
	assert.Equal(t, 0, m.State().SecondsLeft)
	assert.Equal(t, 0, sched.active())

	_, err = m.Submit("76")
	assert.ErrorIs(t, err, ErrWrongPhase)

	require.NoError(t, m.DismissLoss())
	assert.Equal(t, PhaseActive, m.Phase())
	assert.Equal(t, 1, sched.active())
	assert.Equal(t, State{
		LevelUpQuota:      2,
		Difficulty:        5,
		Tries:             1,
		SecondsPerProblem: 3,
		SecondsLeft:       3,
	}, m.State())
	assert.Equal(t, Stats{}, m.Stats())

	m.Close()
	assert.Equal(t, 0, sched.active())
}

func TestUntimedNeverSchedules(t *testing.T) {
	cat, smp := fixture(t)
	sched := &fakeScheduler{}
	m, err := New(cat, smp, settings(), WithScheduler(sched))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	m.Reset()
	assert.Equal(t, 0, sched.scheduled)
}

func TestResetMidRound(t *testing.T) {
	cat, smp := fixture(t)
	m, err := New(cat, smp, settings())
	require.NoError(t, err)
	require.NoError(t, m.Start())
	_, err = m.Submit("76")
	require.NoError(t, err)

	m.Reset()
	assert.Equal(t, 0, m.State().LevelUpProgress)
	assert.Equal(t, Stats{}, m.Stats())
	assert.False(t, m.Problem().IsZero())
}
