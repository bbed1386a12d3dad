// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/FireLemons/ToMetric/internal/formula"
	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/progress"
	"github.com/FireLemons/ToMetric/internal/scoring"
)

// Recorder persists games and solved problems. *store.Store satisfies it.
type Recorder interface {
	InsertGame(ctx context.Context, g model.GameRecord) (string, error)
	UpdateGame(ctx context.Context, g model.GameRecord) error
	InsertSolve(ctx context.Context, r model.SolveRecord) error
}

// Options configures a practice Model.
type Options struct {
	Machine     *progress.Machine
	Ticks       <-chan func() // countdown ticks, nil for untimed games
	Recorder    Recorder      // optional
	Logger      *slog.Logger  // optional
	Fact        string        // shown before the first problem when set
	ShowFormula bool
}

type tickMsg struct{ fn func() }

var (
	givenStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	unitStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	formulaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A8CC8")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	inputStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	// Two shades so consecutive rejections still change the border.
	wrongBorders = [2]lipgloss.Color{"#FF4D4F", "#D9363E"}
	modalStyle   = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8CC8"))
)

// Model implements the Bubble Tea practice UI.
type Model struct {
	machine  *progress.Machine
	ticks    <-chan func()
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	fact        string
	showFact    bool
	showFormula bool
	input       textinput.Model

	game     model.GameRecord
	gameOpen bool

	lastOutcome scoring.Outcome
	hasOutcome  bool

	width  int
	height int
}

// NewModel constructs a practice TUI model. The game starts once the fact
// splash is dismissed, or immediately without a fact.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	input := textinput.New()
	input.Placeholder = "your estimate"
	input.Prompt = "≈ "
	input.CharLimit = 32
	input.Width = 20
	input.Focus()

	m := &Model{
		machine:     opts.Machine,
		ticks:       opts.Ticks,
		recorder:    opts.Recorder,
		logger:      logger,
		now:         time.Now,
		fact:        opts.Fact,
		showFact:    opts.Fact != "",
		showFormula: opts.ShowFormula,
		input:       input,
	}
	if !m.showFact {
		m.start()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForTick(m.ticks))
}

func waitForTick(ticks <-chan func()) tea.Cmd {
	if ticks == nil {
		return nil
	}
	return func() tea.Msg {
		fn, ok := <-ticks
		if !ok {
			return nil
		}
		return tickMsg{fn: fn}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		before := m.machine.Phase()
		msg.fn()
		if before != progress.PhaseLost && m.machine.Phase() == progress.PhaseLost {
			m.finishGame(model.OutcomeLost)
		}
		return m, waitForTick(m.ticks)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.showFact {
			m.showFact = false
			m.start()
			return m, nil
		}
		switch m.machine.Phase() {
		case progress.PhaseRoundComplete:
			return m.updateRoundComplete(msg)
		case progress.PhaseLost:
			return m.updateLost(msg)
		default:
			return m.updateActive(msg)
		}
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "ctrl+f":
		m.showFormula = !m.showFormula
		return m, nil
	case "ctrl+p":
		m.machine.SetPaused(!m.machine.State().Paused)
		return m, nil
	}
	if m.machine.State().Paused {
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		m.submit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateRoundComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "enter", " ":
		if err := m.machine.DismissRound(); err != nil {
			m.logger.Warn("dismiss round", "err", err)
		}
		m.hasOutcome = false
		m.input.Reset()
	}
	return m, nil
}

func (m *Model) updateLost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.quit()
	case "enter", " ":
		if err := m.machine.DismissLoss(); err != nil {
			m.logger.Warn("dismiss loss", "err", err)
			return m, nil
		}
		m.hasOutcome = false
		m.input.Reset()
		m.beginGame()
	}
	return m, nil
}

func (m *Model) start() {
	if err := m.machine.Start(); err != nil {
		m.logger.Warn("start game", "err", err)
		return
	}
	m.beginGame()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.gameOpen {
		m.finishGame(model.OutcomeQuit)
	}
	m.machine.Close()
	return m, tea.Quit
}

func (m *Model) submit() {
	before := m.machine.State()
	out, err := m.machine.Submit(m.input.Value())
	if err != nil {
		m.logger.Warn("submit answer", "err", err)
		return
	}
	m.lastOutcome = out
	m.hasOutcome = true
	if !out.Accepted {
		return
	}
	m.input.Reset()
	m.recordSolve(before, out.Stat)
}

func (m *Model) beginGame() {
	settings := m.machine.Settings()
	now := m.now()
	m.game = model.GameRecord{
		StartedAt: now,
		EndedAt:   now,
		Timed:     settings.Timed,
		Tolerance: settings.Tolerance,
		Outcome:   model.OutcomePlaying,
	}
	m.gameOpen = true
	if m.recorder == nil {
		return
	}
	id, err := m.recorder.InsertGame(context.Background(), m.game)
	if err != nil {
		m.logger.Warn("save game", "err", err)
		return
	}
	m.game.ID = id
}

func (m *Model) syncGame() {
	state, stats := m.machine.State(), m.machine.Stats()
	m.game.EndedAt = m.now()
	m.game.Level = state.Level
	m.game.Attempts = stats.AttemptCount
	m.game.Solved = stats.ProblemsSolvedCount
	m.game.AvgError = stats.AverageErrorPercent
}

func (m *Model) recordSolve(before progress.State, stat scoring.RoundStat) {
	m.syncGame()
	if m.recorder == nil || m.game.ID == "" {
		return
	}
	ctx := context.Background()
	err := m.recorder.InsertSolve(ctx, model.SolveRecord{
		GameID:        m.game.ID,
		SolvedAt:      m.game.EndedAt,
		Level:         before.Level,
		Difficulty:    before.Difficulty,
		ConversionKey: stat.Key,
		Category:      string(stat.Category),
		CustomaryUnit: stat.CustomaryUnit,
		MetricUnit:    stat.MetricUnit,
		Given:         stat.GivenValue,
		Exact:         stat.ExactValue,
		Answer:        stat.AnswerValue,
		ErrorPercent:  stat.PercentError,
		Tries:         stat.Tries,
	})
	if err != nil {
		m.logger.Warn("save solve", "game", m.game.ID, "err", err)
	}
	if err := m.recorder.UpdateGame(ctx, m.game); err != nil {
		m.logger.Warn("update game", "game", m.game.ID, "err", err)
	}
}

func (m *Model) finishGame(outcome string) {
	m.syncGame()
	m.game.Outcome = outcome
	m.gameOpen = false
	if m.recorder == nil || m.game.ID == "" {
		return
	}
	if err := m.recorder.UpdateGame(context.Background(), m.game); err != nil {
		m.logger.Warn("finish game", "game", m.game.ID, "outcome", outcome, "err", err)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	contentWidth := max(20, int(float64(width)*0.70))

	var content string
	switch {
	case m.showFact:
		content = m.renderFact(contentWidth)
	case m.machine.Phase() == progress.PhaseRoundComplete:
		content = m.renderRoundDialog()
	case m.machine.Phase() == progress.PhaseLost:
		content = m.renderGameOver()
	default:
		content = m.renderProblem()
	}
	footer := ""
	if !m.showFact {
		footer = m.renderFooter()
	}
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFact(width int) string {
	lines := []string{titleStyle.Render("Did you know?"), ""}
	lines = append(lines, wrapWords(m.fact, min(width, 64))...)
	lines = append(lines, "", footerStyle.Render("Press any key to start"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderProblem() string {
	state := m.machine.State()
	if state.Paused {
		return titleStyle.Render("Paused") + "\n\n" + footerStyle.Render("ctrl+p to resume")
	}
	p := m.machine.Problem()
	lines := []string{
		givenStyle.Render(p.GivenDisplay()) + " " + unitStyle.Render(p.CustomaryUnit) +
			"  ≈  ? " + unitStyle.Render(p.MetricUnit),
	}
	if m.showFormula {
		lines = append(lines, formulaStyle.Render(p.Formula))
	}

	box := inputStyle
	if state.Tries > 1 {
		idx := 0
		if m.machine.WrongSignal() {
			idx = 1
		}
		box = box.BorderForeground(wrongBorders[idx])
	}
	lines = append(lines, "", box.Render(m.input.View()))

	if m.hasOutcome {
		lines = append(lines, m.outcomeLine())
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "", footerStyle.Render("enter submit · ctrl+f formula · ctrl+p pause · esc quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) outcomeLine() string {
	out := m.lastOutcome
	if out.Accepted {
		return acceptedStyle.Render(fmt.Sprintf("Accepted, off by %s%%", out.Stat.ErrorPercent))
	}
	if math.IsInf(out.PercentError, 0) {
		return incorrectStyle.Render("Enter a number")
	}
	return incorrectStyle.Render(fmt.Sprintf("Not close enough, try %d", m.machine.State().Tries))
}

func (m *Model) renderRoundDialog() string {
	state := m.machine.State()
	round := m.machine.Round()
	rows := make([][]string, 0, len(round))
	for _, r := range round {
		rows = append(rows, []string{
			r.Given + " " + r.CustomaryUnit,
			r.Exact + " " + r.MetricUnit,
			r.UserAnswer,
			r.ErrorAmount,
			r.ErrorPercent.String() + "%",
			fmt.Sprintf("%d", r.Tries),
		})
	}
	grid := formatGrid(
		[]string{"Given", "Exact", "Answer", "Off by", "Error", "Tries"},
		rows,
		map[int]bool{2: true, 3: true, 4: true, 5: true},
	)
	lines := []string{titleStyle.Render(fmt.Sprintf("Level %d complete", state.Level)), ""}
	lines = append(lines, grid...)
	lines = append(lines, "", footerStyle.Render("enter to continue · esc to quit"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderGameOver() string {
	state, stats := m.machine.State(), m.machine.Stats()
	rows := [][]string{
		{"Level reached", fmt.Sprintf("%d", state.Level)},
		{"Problems solved", fmt.Sprintf("%d", stats.ProblemsSolvedCount)},
		{"Attempts", fmt.Sprintf("%d", stats.AttemptCount)},
		{"Average error", fmt.Sprintf("%.1f%%", stats.AverageErrorPercent)},
	}
	lines := []string{titleStyle.Render("Time's up!"), ""}
	for _, row := range rows {
		lines = append(lines, padRight(row[0], 16)+padLeft(row[1], 8))
	}
	lines = append(lines, "", footerStyle.Render("enter to play again · esc to quit"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	state := m.machine.State()
	segments := []string{
		fmt.Sprintf("Level %d", state.Level),
		fmt.Sprintf("Progress %d/%d", state.LevelUpProgress, state.LevelUpQuota),
		"Difficulty " + formula.Quantity(state.Difficulty),
	}
	if m.machine.Settings().Timed {
		segments = append(segments, fmt.Sprintf("Time %ds", state.SecondsLeft))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	switch m.machine.LastBoost() {
	case progress.BoostDifficulty:
		footer += "  " + badgeStyle.Render("difficulty increased")
	case progress.BoostQuota:
		footer += "  " + badgeStyle.Render("quota increased")
	}
	if state.Paused {
		footer += "  " + badgeStyle.Render("paused")
	}
	return footer
}
