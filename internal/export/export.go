// Package export writes play history to spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/FireLemons/ToMetric/internal/model"
)

const (
	gamesSheet  = "Games"
	solvesSheet = "Solves"
	timeFormat  = time.RFC3339
)

var (
	gameHeaders  = []string{"Game", "Started", "Ended", "Timed", "Tolerance %", "Outcome", "Level", "Attempts", "Solved", "Avg error %"}
	solveHeaders = []string{"Game", "Solved at", "Level", "Difficulty", "Conversion", "Category", "Given", "Customary unit", "Exact", "Answer", "Metric unit", "Error %", "Tries"}
)

// WriteXLSX writes games and solves to path as two sheets.
func WriteXLSX(path string, games []model.GameRecord, solves []model.SolveRecord) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close; SaveAs already reported write errors.
			_ = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", gamesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(solvesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	gameRows := make([][]any, 0, len(games))
	for _, g := range games {
		gameRows = append(gameRows, []any{
			g.ID,
			g.StartedAt.Local().Format(timeFormat),
			g.EndedAt.Local().Format(timeFormat),
			g.Timed,
			g.Tolerance,
			g.Outcome,
			g.Level,
			g.Attempts,
			g.Solved,
			g.AvgError,
		})
	}
	if err := writeSheet(f, gamesSheet, gameHeaders, gameRows); err != nil {
		return err
	}

	solveRows := make([][]any, 0, len(solves))
	for _, s := range solves {
		solveRows = append(solveRows, []any{
			s.GameID,
			s.SolvedAt.Local().Format(timeFormat),
			s.Level,
			s.Difficulty,
			s.ConversionKey,
			s.Category,
			s.Given,
			s.CustomaryUnit,
			s.Exact,
			s.Answer,
			s.MetricUnit,
			s.ErrorPercent,
			s.Tries,
		})
	}
	if err := writeSheet(f, solvesSheet, solveHeaders, solveRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("%s header: %w", sheet, err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%s row %d: %w", sheet, r+1, err)
			}
		}
	}
	if len(headers) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("%s panes: %w", sheet, err)
		}
	}
	return nil
}
