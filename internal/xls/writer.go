// Package xls serializes report rows to a spreadsheet file. The
// workbook is fully assembled in memory and written with a single file
// write, so an aborted run never leaves partial output on disk.
package xls

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jira-tools/jira-report/internal/model"
	"github.com/jira-tools/jira-report/internal/report"
)

// ErrFileExists is returned when the target file exists and overwrite
// was not forced. Nothing is written in that case.
var ErrFileExists = errors.New("file already exists")

// Filename returns the deterministic file name for a range,
// e.g. "Jira_2019_01-2019_03.xlsx".
func Filename(r model.DateRange) string {
	return "Jira_" + r.Title() + ".xlsx"
}

// Path returns the output path for a range under dir.
func Path(dir string, r model.DateRange) string {
	return filepath.Join(dir, Filename(r))
}

// linkColumn is the zero-based index of the Link column in the schema.
const linkColumn = 9

// Column widths track the longest value written to the column, clamped
// so a page-long summary can't exceed the format's width limit.
const (
	minColWidth = 10.0
	maxColWidth = 80.0
)

// Write serializes a header row plus one row per report row to path.
// When the file exists and force is false it fails with ErrFileExists
// and leaves the existing file untouched. It returns the number of
// bytes written.
func Write(rows []report.Row, withPRs bool, sheet, path string, force bool) (int, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return 0, fmt.Errorf("%q: %w (use --force-overwrite)", path, ErrFileExists)
		} else if !os.IsNotExist(err) {
			return 0, fmt.Errorf("checking %q: %w", path, err)
		}
	}

	f, err := build(rows, withPRs, sheet)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return 0, fmt.Errorf("serializing workbook: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing %q: %w", path, err)
	}
	return buf.Len(), nil
}

// build assembles the in-memory workbook.
func build(rows []report.Row, withPRs bool, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		f.Close()
		return nil, err
	}
	hoursFmt := `0.0" h"`
	hoursStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		f.Close()
		return nil, err
	}

	header := report.Header(withPRs)
	widths := make([]float64, len(header))

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			f.Close()
			return nil, err
		}
		widths[col] = cellWidth(name)
	}

	for i, row := range rows {
		values := rowValues(row, withPRs)
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
			switch v.(type) {
			case time.Time:
				err = f.SetCellStyle(sheet, cell, cell, dateStyle)
			case float64:
				err = f.SetCellStyle(sheet, cell, cell, hoursStyle)
			}
			if err != nil {
				f.Close()
				return nil, err
			}
			if col == linkColumn && row.Link != "" {
				if err := f.SetCellHyperLink(sheet, cell, row.Link, "External"); err != nil {
					f.Close()
					return nil, err
				}
			}
			if w := valueWidth(v); w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col := range header {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// rowValues flattens a row into cell values in column order. Missing
// dates become empty strings rather than zero times.
func rowValues(row report.Row, withPRs bool) []any {
	values := []any{
		row.Key,
		row.Type,
		row.Summary,
		row.Status,
		row.Assignee,
		row.Created,
		optionalDate(row.Started),
		optionalDate(row.Resolved),
		row.Hours,
		row.Link,
	}
	if withPRs {
		values = append(values, row.PullRequest)
	}
	return values
}

func optionalDate(t *time.Time) any {
	if t == nil {
		return ""
	}
	return *t
}

func valueWidth(v any) float64 {
	switch v := v.(type) {
	case string:
		return cellWidth(v)
	case time.Time:
		return cellWidth("yyyy-mm-dd")
	case float64:
		return cellWidth(fmt.Sprintf("%.1f h", v))
	default:
		return minColWidth
	}
}

func cellWidth(s string) float64 {
	w := float64(len(s)) + 2
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}
