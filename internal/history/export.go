// Package history exports the attempt log as a spreadsheet.
package history

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizly/internal/store"
)

// Sheet names in the exported workbook.
const (
	AttemptsSheet = "Attempts"
	AnswersSheet  = "Answers"
)

var (
	attemptHeader = []any{"Attempt", "Topic", "Level", "Score", "Total", "Passed", "Started", "Finished"}
	answerHeader  = []any{"Attempt", "#", "Question", "Your answer", "Correct answer", "Correct", "Timed out", "Hint used"}
)

const timeLayout = "2006-01-02 15:04:05"

// WriteXLSX writes records to w as an xlsx workbook with one row per
// attempt and one row per answer.
func WriteXLSX(w io.Writer, records []store.AttemptRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AttemptsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AnswersSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for _, sheet := range []struct {
		name   string
		header []any
	}{
		{AttemptsSheet, attemptHeader},
		{AnswersSheet, answerHeader},
	} {
		if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
			return fmt.Errorf("write %s header: %w", sheet.name, err)
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, bold); err != nil {
			return fmt.Errorf("style %s header: %w", sheet.name, err)
		}
		if err := f.SetPanes(sheet.name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("freeze %s header: %w", sheet.name, err)
		}
	}

	answerRow := 2
	for i, rec := range records {
		row := []any{
			rec.AttemptID, rec.TopicID, rec.Level, rec.Score, rec.Total, rec.Passed,
			formatTime(rec.StartedAt), formatTime(rec.FinishedAt),
		}
		if err := setRow(f, AttemptsSheet, i+2, row); err != nil {
			return err
		}

		for j, a := range rec.Answers {
			row := []any{rec.AttemptID, j + 1, a.Question, a.Selected, a.Correct, a.IsCorrect, a.TimedOut, a.HintUsed}
			if err := setRow(f, AnswersSheet, answerRow, row); err != nil {
				return err
			}
			answerRow++
		}
	}

	if err := f.SetColWidth(AttemptsSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(AnswersSheet, "C", "E", 32); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
