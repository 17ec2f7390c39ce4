package reports

import (
	"fmt"
	"io"

	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/xuri/excelize/v2"
)

type ExcelExporter interface {
	GetCellValues() []interface{}
}

const exportSheetName = "Sheet1"

func writeSheet(f *excelize.File, rows []ExcelExporter, headings ...string) error {
	if _, err := f.NewSheet(exportSheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range headings {
		if err := f.SetCellValue(exportSheetName, string(col)+"1", h); err != nil {
			return err
		}
		col++
	}

	rowNo := 2
	for _, row := range rows {
		col := 'A'
		for _, value := range row.GetCellValues() {
			if err := f.SetCellValue(exportSheetName, string(col)+fmt.Sprint(rowNo), value); err != nil {
				return err
			}
			col++
		}
		rowNo++
	}
	return nil
}

// ExportExcel writes a heading row followed by one row per exporter.
func ExportExcel(w io.Writer, rows []ExcelExporter, headings ...string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, rows, headings...); err != nil {
		return utils.InternalError(err)
	}
	if err := f.Write(w); err != nil {
		return utils.InternalError(err)
	}
	return nil
}

// ExportExcelFile is ExportExcel saved to a named file.
func ExportExcelFile(filename string, rows []ExcelExporter, headings ...string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, rows, headings...); err != nil {
		return utils.InternalError(err)
	}
	if err := f.SaveAs(filename); err != nil {
		return utils.InternalError(err)
	}
	return nil
}

func DailyRowsForExport(rows []*DailyEmployeeRow) []ExcelExporter {
	out := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func WeeklyRowsForExport(rows []*WeeklyEmployeeRow) []ExcelExporter {
	out := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func ProjectCostRowsForExport(rows []*ProjectCostRow) []ExcelExporter {
	out := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}

func ProjectRankingForExport(rows []*ProjectHoursRank) []ExcelExporter {
	out := make([]ExcelExporter, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
