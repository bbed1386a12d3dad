// Package model defines shared data structures.
package model

import "time"

// Options is the resolved game configuration.
type Options struct {
	Measurements map[string]Measurement
	General      General
	Game         Game
}

// Measurement holds the enablement of one category and its units, keyed by
// unit key (e.g. "inches").
type Measurement struct {
	On        bool
	Customary map[string]bool
	Metric    map[string]bool
}

// General mirrors the general section of the options.
type General struct {
	OddConversions bool
	Precision      float64 // tolerance, percent, inclusive
	Scientific     bool
}

// Game defines progression settings.
type Game struct {
	Timed             bool
	SecondsPerProblem int
	LevelUpQuota      int
	Difficulty        float64
	DifficultyStep    float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Category    string
}

// GameRecord captures a game as it is stored.
type GameRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Timed     bool
	Tolerance float64
	Outcome   string
	Level     int
	Attempts  int
	Solved    int
	AvgError  float64
}

// Game outcomes.
const (
	OutcomePlaying = "playing"
	OutcomeLost    = "lost"
	OutcomeQuit    = "quit"
)

// SolveRecord stores one accepted answer.
type SolveRecord struct {
	GameID        string
	SolvedAt      time.Time
	Level         int
	Difficulty    float64
	ConversionKey string
	Category      string
	CustomaryUnit string
	MetricUnit    string
	Given         float64
	Exact         float64
	Answer        float64
	ErrorPercent  float64
	Tries         int
}

// ConversionAggregate summarizes solves of one conversion.
type ConversionAggregate struct {
	ConversionKey string
	CustomaryUnit string
	MetricUnit    string
	Solves        int
	Tries         int
	ErrorSum      float64
}
