package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/formula"
	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/progress"
)

type fixedSampler struct {
	def conversion.Definition
}

func (s fixedSampler) Next(*catalog.Catalog, float64) conversion.Problem {
	return s.def.ProblemFor(3)
}

type fakeRecorder struct {
	games   []model.GameRecord
	updates []model.GameRecord
	solves  []model.SolveRecord
}

func (f *fakeRecorder) InsertGame(_ context.Context, g model.GameRecord) (string, error) {
	f.games = append(f.games, g)
	return "g" + string(rune('0'+len(f.games))), nil
}

func (f *fakeRecorder) UpdateGame(_ context.Context, g model.GameRecord) error {
	f.updates = append(f.updates, g)
	return nil
}

func (f *fakeRecorder) InsertSolve(_ context.Context, r model.SolveRecord) error {
	f.solves = append(f.solves, r)
	return nil
}

func (f *fakeRecorder) lastUpdate() model.GameRecord {
	return f.updates[len(f.updates)-1]
}

type manualScheduler struct {
	tick func()
}

func (s *manualScheduler) Schedule(_ time.Duration, tick func()) func() {
	s.tick = tick
	return func() { s.tick = nil }
}

func newMachine(t *testing.T, timed bool, opts ...progress.Option) *progress.Machine {
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
	opts = append(opts, progress.WithRoll(func() float64 { return 0.1 }))
	m, err := progress.New(cat, fixedSampler{def: def}, progress.Settings{
		StartQuota:        2,
		StartDifficulty:   5,
		DifficultyStep:    5,
		Tolerance:         5,
		Timed:             timed,
		SecondsPerProblem: 2,
	}, opts...)
	require.NoError(t, err)
	return m
}

func typeAnswer(m *Model, answer string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(answer)})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestFactSplashStartsGameOnKey(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(Options{Machine: newMachine(t, false), Recorder: rec, Fact: "A mile is about 1.6 kilometers"})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Contains(t, m.View(), "A mile is about 1.6 kilometers")
	assert.Empty(t, rec.games)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Len(t, rec.games, 1)
	assert.Equal(t, model.OutcomePlaying, rec.games[0].Outcome)
	assert.Equal(t, "g1", m.game.ID)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "3 in")
}

func TestRejectThenAccept(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(Options{Machine: newMachine(t, false), Recorder: rec})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	typeAnswer(m, "1")
	assert.Equal(t, 2, m.machine.State().Tries)
	assert.Equal(t, "1", m.input.Value())
	assert.Contains(t, m.View(), "Not close enough")
	assert.Empty(t, rec.solves)

	m.input.Reset()
	typeAnswer(m, "abc")
	assert.Contains(t, m.View(), "Enter a number")

	m.input.Reset()
	typeAnswer(m, "76")
	require.Len(t, rec.solves, 1)
	solve := rec.solves[0]
	assert.Equal(t, "g1", solve.GameID)
	assert.Equal(t, "inches/millimeters", solve.ConversionKey)
	assert.Equal(t, "distance", solve.Category)
	assert.Equal(t, 3, solve.Tries)
	assert.Equal(t, 5.0, solve.Difficulty)
	assert.InDelta(t, 76.2, solve.Exact, 1e-9)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, rec.lastUpdate().Solved)
	assert.Contains(t, m.View(), "Accepted, off by < 1%")
}

func TestRoundCompleteDialogAndLevelUp(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(Options{Machine: newMachine(t, false), Recorder: rec})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	typeAnswer(m, "76")
	typeAnswer(m, "77")
	require.Equal(t, progress.PhaseRoundComplete, m.machine.Phase())

	view := m.View()
	assert.Contains(t, view, "Level 0 complete")
	assert.Contains(t, view, "Off by")
	assert.Contains(t, view, "3 in")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, progress.PhaseActive, m.machine.Phase())
	assert.Equal(t, 1, m.machine.State().Level)
	assert.Equal(t, 10.0, m.machine.State().Difficulty)
	assert.Contains(t, m.renderFooter(), "difficulty increased")

	typeAnswer(m, "76")
	assert.NotContains(t, m.renderFooter(), "increased")
	assert.Len(t, rec.solves, 3)
	assert.Equal(t, 1, rec.solves[2].Level)
	assert.Equal(t, 10.0, rec.solves[2].Difficulty)
}

func TestTimerLossFinishesGame(t *testing.T) {
	rec := &fakeRecorder{}
	sched := &manualScheduler{}
	m := NewModel(Options{Machine: newMachine(t, true, progress.WithScheduler(sched)), Recorder: rec})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	require.NotNil(t, sched.tick)

	assert.Contains(t, m.renderFooter(), "Time 2s")
	m.Update(tickMsg{fn: sched.tick})
	assert.Contains(t, m.renderFooter(), "Time 1s")
	m.Update(tickMsg{fn: sched.tick})

	require.Equal(t, progress.PhaseLost, m.machine.Phase())
	assert.Contains(t, m.View(), "Time's up!")
	assert.Equal(t, model.OutcomeLost, rec.lastUpdate().Outcome)
	assert.False(t, m.gameOpen)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, progress.PhaseActive, m.machine.Phase())
	require.Len(t, rec.games, 2)
	assert.Equal(t, "g2", m.game.ID)
}

func TestPauseIgnoresInput(t *testing.T) {
	m := NewModel(Options{Machine: newMachine(t, false)})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	require.True(t, m.machine.State().Paused)
	assert.Contains(t, m.View(), "Paused")
	assert.Contains(t, m.renderFooter(), "paused")

	typeAnswer(m, "76")
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 0, m.machine.Stats().ProblemsSolvedCount)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.False(t, m.machine.State().Paused)
}

func TestFormulaToggle(t *testing.T) {
	m := NewModel(Options{Machine: newMachine(t, false)})
	assert.NotContains(t, m.View(), "25.4")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Contains(t, m.View(), "25.4")
}

func TestQuitRecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(Options{Machine: newMachine(t, false), Recorder: rec})
	typeAnswer(m, "76")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	last := rec.lastUpdate()
	assert.Equal(t, model.OutcomeQuit, last.Outcome)
	assert.Equal(t, 1, last.Solved)
	assert.Equal(t, 1, last.Attempts)
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(Options{Machine: newMachine(t, true, progress.WithScheduler(&manualScheduler{}))})
	out := m.renderFooter()
	for _, want := range []string{"Level 0", "Progress 0/2", "Difficulty 5", "Time 2s"} {
		assert.True(t, strings.Contains(out, want), "footer missing %q: %s", want, out)
	}
}
