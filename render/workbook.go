package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salescast/workflow"
)

const defaultSheet = "Sheet1"

// Workbook builds an .xlsx file with one sheet per chart: a label/amount
// table and a column chart over it.
func Workbook(charts []workflow.Chart) (*excelize.File, error) {
	f := excelize.NewFile()

	first := -1
	for _, c := range charts {
		sheet := c.XTitle
		idx, err := f.NewSheet(sheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
		}
		if first < 0 {
			first = idx
		}
		if err := writeChartSheet(f, sheet, c); err != nil {
			f.Close()
			return nil, err
		}
	}

	if first >= 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return nil, err
		}
		// indexes shift after the delete
		idx, err := f.GetSheetIndex(charts[0].XTitle)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeChartSheet(f *excelize.File, sheet string, c workflow.Chart) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{c.XTitle, c.YTitle}); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, label := range c.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{label, c.Values[i]}); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	if len(c.Labels) == 0 {
		return nil
	}

	last := len(c.Labels) + 1
	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
		}},
		Title:  []excelize.RichTextRun{{Text: c.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.XTitle}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: c.YTitle}}},
	})
}

// WriteWorkbook streams the workbook for charts to w.
func WriteWorkbook(w io.Writer, charts []workflow.Chart) error {
	f, err := Workbook(charts)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// SaveWorkbook writes the workbook for charts to path.
func SaveWorkbook(path string, charts []workflow.Chart) error {
	f, err := Workbook(charts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}
