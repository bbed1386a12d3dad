package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tometric.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		id, err := st.InsertGame(ctx, model.GameRecord{StartedAt: start, Tolerance: 10, Level: i})
		if err != nil {
			t.Fatalf("insert game: %v", err)
		}
		ids = append(ids, id)
		for j, key := range []string{"inches/millimeters", "pounds/kilograms"} {
			category := "distance"
			if j == 1 {
				category = "mass"
			}
			err := st.InsertSolve(ctx, model.SolveRecord{
				GameID:        id,
				SolvedAt:      start.Add(time.Duration(j) * time.Second),
				ConversionKey: key,
				Category:      category,
				CustomaryUnit: "in",
				MetricUnit:    "mm",
				ErrorPercent:  float64(2 + j*4),
				Tries:         1 + j,
			})
			if err != nil {
				t.Fatalf("insert solve: %v", err)
			}
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(report.Games))
	}
	if report.Games[0].ID != ids[1] || report.Games[1].ID != ids[2] {
		t.Fatalf("unexpected game ids: %+v", report.Games)
	}
	if len(report.Solves) != 4 {
		t.Fatalf("expected 4 solves, got %d", len(report.Solves))
	}
	if report.Summary.Attempts != 6 || report.Summary.BestLevel != 2 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Conversions) != 2 || report.Conversions[0].Key != "pounds/kilograms" {
		t.Fatalf("expected hardest conversion first: %+v", report.Conversions)
	}
	if len(report.WindowConversions) != 2 || report.WindowConversions[0].Solves != 1 {
		t.Fatalf("unexpected window conversions: %+v", report.WindowConversions)
	}
	if report.Distribution.Count != 4 || report.Distribution.Mean != 4 {
		t.Fatalf("unexpected distribution: %+v", report.Distribution)
	}

	filtered, err := BuildReport(ctx, st, model.StatsConfig{Category: "mass"})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(filtered.Solves) != 3 {
		t.Fatalf("expected 3 mass solves, got %d", len(filtered.Solves))
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, report, NewPrinter()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "Games: 2 (0 lost)") {
		t.Fatalf("unexpected summary output: %q", buf.String())
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Report{}, NewPrinter()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderConversionTable(&buf, "x", nil); err != nil {
		t.Fatalf("render table: %v", err)
	}
	if err := RenderRecent(&buf, nil, 5); err != nil {
		t.Fatalf("render recent: %v", err)
	}
	want := "No games found.\nNo conversions solved yet.\nNo solves found.\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
