// Package progress drives levels, difficulty and the optional countdown of a
// practice game.
package progress

import (
	"errors"
	"math/rand"
	"time"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/scoring"
)

// ErrWrongPhase is returned when an action does not apply to the current phase.
var ErrWrongPhase = errors.New("progress: action not allowed in current phase")

// DefaultTickPeriod is the countdown resolution.
const DefaultTickPeriod = time.Second

// Phase is the state of the game loop.
type Phase int

const (
	// PhaseActive accepts answers.
	PhaseActive Phase = iota
	// PhaseRoundComplete waits for the round summary to be dismissed.
	PhaseRoundComplete
	// PhaseLost waits for the game over dialog to be dismissed.
	PhaseLost
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseRoundComplete:
		return "round complete"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Boost records what the last level-up increased.
type Boost int

const (
	BoostNone Boost = iota
	BoostDifficulty
	BoostQuota
)

// Sampler draws problems.
type Sampler interface {
	Next(c *catalog.Catalog, difficulty float64) conversion.Problem
}

// Settings are the starting values of a game.
type Settings struct {
	StartQuota        int
	StartDifficulty   float64
	DifficultyStep    float64
	Tolerance         float64
	Timed             bool
	SecondsPerProblem int
	TickPeriod        time.Duration
}

// SettingsFromOptions maps resolved options to game settings.
func SettingsFromOptions(opts model.Options) Settings {
	return Settings{
		StartQuota:        opts.Game.LevelUpQuota,
		StartDifficulty:   opts.Game.Difficulty,
		DifficultyStep:    opts.Game.DifficultyStep,
		Tolerance:         opts.General.Precision,
		Timed:             opts.Game.Timed,
		SecondsPerProblem: opts.Game.SecondsPerProblem,
		TickPeriod:        DefaultTickPeriod,
	}
}

// State is the progression snapshot shown to the player.
type State struct {
	Level             int
	LevelUpProgress   int
	LevelUpQuota      int
	Difficulty        float64
	Tries             int
	SecondsPerProblem int
	SecondsLeft       int
	Paused            bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithScheduler sets the countdown scheduler. Timed games without one never tick.
func WithScheduler(s TickScheduler) Option {
	return func(m *Machine) { m.sched = s }
}

// WithRoll sets the level-up roll source, uniform in [0,1).
func WithRoll(roll func() float64) Option {
	return func(m *Machine) { m.roll = roll }
}

// Machine is the single-threaded game loop. All methods, including the tick
// callbacks it schedules, must run on the same goroutine.
type Machine struct {
	cat      *catalog.Catalog
	smp      Sampler
	settings Settings
	eval     scoring.Evaluator
	sched    TickScheduler
	roll     func() float64

	started bool
	phase   Phase
	state   State
	stats   Stats
	problem conversion.Problem
	round   []scoring.RoundStat
	wrong   bool
	boost   Boost

	cancelTick func()
	gen        uint64
}

// New returns a Machine in its initial state. Call Start to draw the first
// problem.
func New(cat *catalog.Catalog, smp Sampler, settings Settings, opts ...Option) (*Machine, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmpty
	}
	if settings.TickPeriod <= 0 {
		settings.TickPeriod = DefaultTickPeriod
	}
	if settings.StartQuota < 1 {
		settings.StartQuota = 1
	}
	m := &Machine{
		cat:      cat,
		smp:      smp,
		settings: settings,
		eval:     scoring.Evaluator{Tolerance: settings.Tolerance},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.roll == nil {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		m.roll = rnd.Float64
	}
	m.resetState()
	return m, nil
}

// Start draws the first problem and starts the countdown of timed games.
func (m *Machine) Start() error {
	if m.started {
		return ErrWrongPhase
	}
	m.started = true
	m.nextProblem()
	m.startTimer()
	return nil
}

// Submit evaluates answer against the current problem.
func (m *Machine) Submit(answer string) (scoring.Outcome, error) {
	if !m.started || m.phase != PhaseActive {
		return scoring.Outcome{}, ErrWrongPhase
	}

	out := m.eval.Evaluate(m.problem, answer, m.state.Tries)
	if !out.Accepted {
		m.state.Tries++
		m.wrong = !m.wrong
		return out, nil
	}

	m.round = append(m.round, out.Stat)
	m.stats.Record(out.Stat.ErrorPercent.Numeric(), out.Stat.Tries)
	m.state.Tries = 1
	m.state.SecondsLeft = m.state.SecondsPerProblem
	m.boost = BoostNone
	m.state.LevelUpProgress++

	if m.state.LevelUpProgress >= m.state.LevelUpQuota {
		m.state.LevelUpProgress = 0
		m.phase = PhaseRoundComplete
		m.stopTimer()
		return out, nil
	}
	m.nextProblem()
	return out, nil
}

// DismissRound levels up after the round summary was closed.
func (m *Machine) DismissRound() error {
	if m.phase != PhaseRoundComplete {
		return ErrWrongPhase
	}
	m.phase = PhaseActive
	m.state.Level++
	if m.roll() < 0.5 {
		m.state.Difficulty += m.settings.DifficultyStep
		m.boost = BoostDifficulty
	} else {
		m.state.LevelUpQuota++
		m.boost = BoostQuota
	}
	m.round = nil
	m.state.SecondsLeft = m.state.SecondsPerProblem
	m.nextProblem()
	m.startTimer()
	return nil
}

// DismissLoss starts over after the game over dialog was closed.
func (m *Machine) DismissLoss() error {
	if m.phase != PhaseLost {
		return ErrWrongPhase
	}
	m.Reset()
	return nil
}

// Reset restores the initial state from any phase and draws a new problem.
func (m *Machine) Reset() {
	m.stopTimer()
	m.resetState()
	m.started = true
	m.nextProblem()
	m.startTimer()
}

// SetPaused freezes the countdown without leaving the active phase.
func (m *Machine) SetPaused(paused bool) {
	m.state.Paused = paused
}

// Close cancels any running countdown.
func (m *Machine) Close() {
	m.stopTimer()
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// State returns a snapshot of the progression.
func (m *Machine) State() State { return m.state }

// Stats returns the game statistics.
func (m *Machine) Stats() Stats { return m.stats }

// Problem returns the current problem. It is zero before Start.
func (m *Machine) Problem() conversion.Problem { return m.problem }

// Round returns the answers accepted during the current round.
func (m *Machine) Round() []scoring.RoundStat {
	return append([]scoring.RoundStat(nil), m.round...)
}

// WrongSignal flips on every rejected answer.
func (m *Machine) WrongSignal() bool { return m.wrong }

// LastBoost reports what the last level-up increased until the next answer
// is accepted.
func (m *Machine) LastBoost() Boost { return m.boost }

// Settings returns the starting settings.
func (m *Machine) Settings() Settings { return m.settings }

// TimerRunning reports whether a countdown is scheduled.
func (m *Machine) TimerRunning() bool { return m.cancelTick != nil }

func (m *Machine) resetState() {
	m.phase = PhaseActive
	m.state = State{
		LevelUpQuota:      m.settings.StartQuota,
		Difficulty:        m.settings.StartDifficulty,
		Tries:             1,
		SecondsPerProblem: m.settings.SecondsPerProblem,
		SecondsLeft:       m.settings.SecondsPerProblem,
	}
	m.stats = Stats{}
	m.round = nil
	m.wrong = false
	m.boost = BoostNone
	m.problem = conversion.Problem{}
}

func (m *Machine) nextProblem() {
	m.problem = m.smp.Next(m.cat, m.state.Difficulty)
	m.state.Tries = 1
}

func (m *Machine) startTimer() {
	if !m.settings.Timed || m.sched == nil || m.phase != PhaseActive {
		return
	}
	m.stopTimer()
	gen := m.gen
	m.cancelTick = m.sched.Schedule(m.settings.TickPeriod, func() { m.tick(gen) })
}

func (m *Machine) stopTimer() {
	if m.cancelTick != nil {
		m.cancelTick()
		m.cancelTick = nil
	}
	m.gen++
}

func (m *Machine) tick(gen uint64) {
	if gen != m.gen || m.phase != PhaseActive || m.state.Paused {
		return
	}
	m.state.SecondsLeft--
	if m.state.SecondsLeft <= 0 {
		m.state.SecondsLeft = 0
		m.phase = PhaseLost
		m.stopTimer()
	}
}
