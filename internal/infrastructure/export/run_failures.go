// Package export renders sync results as downloadable spreadsheets
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/erp/storesync/internal/domain/integration"
)

const (
	summarySheet  = "Summary"
	failuresSheet = "Failures"
	timeLayout    = "2006-01-02 15:04:05"
)

// ContentTypeXLSX is the media type of the workbook written by WriteRunFailures
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RunFailuresFilename names the download for a run
func RunFailuresFilename(run *integration.SyncRun) string {
	return fmt.Sprintf("sync-%s-%s-%s.xlsx", run.Kind, run.Direction, run.StartedAt.UTC().Format("20060102-150405"))
}

// WriteRunFailures writes a workbook with a run summary sheet and one row
// per failed record.
func WriteRunFailures(w io.Writer, run *integration.SyncRun) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"Kind", run.Kind.String()},
		{"Direction", string(run.Direction)},
		{"Status", string(run.Status)},
		{"Result", run.Summary()},
		{"Total", run.Total},
		{"Created", run.Created},
		{"Updated", run.Updated},
		{"Started", run.StartedAt.UTC().Format(timeLayout)},
		{"Finished", run.FinishedAt.UTC().Format(timeLayout)},
	}
	if run.FirstError != "" {
		summary = append(summary, []any{"First error", run.FirstError})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(failuresSheet); err != nil {
		return err
	}
	rows := make([][]any, 0, len(run.Failures)+1)
	rows = append(rows, []any{"Record", "Reason", "Error kind"})
	for _, fail := range run.Failures {
		rows = append(rows, []any{fail.Ref, fail.Reason, fail.ErrorKind})
	}
	if err := writeRows(f, failuresSheet, rows); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(failuresSheet, "A1", "C1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 14)
	_ = f.SetColWidth(summarySheet, "B", "B", 40)
	_ = f.SetColWidth(failuresSheet, "A", "A", 28)
	_ = f.SetColWidth(failuresSheet, "B", "B", 80)
	_ = f.SetColWidth(failuresSheet, "C", "C", 14)

	_, err = f.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
