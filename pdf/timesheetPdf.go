package pdf

import (
	"bytes"
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"github.com/jung-kurt/gofpdf"
)

const (
	marginLeft  = 15.0
	marginTop   = 15.0
	rowHeight   = 7.0
	colDate     = 22.0
	colProject  = 44.0
	colTask     = 50.0
	colWorkType = 24.0
	colHours    = 18.0
	colStatus   = 26.0
)

// RenderTimesheetPDF renders a timesheet to a US Letter PDF with one
// employee group per classification-ranked section and a "Page i of N"
// footer on every page.
func RenderTimesheetPDF(ctx context.Context, timesheetId int) ([]byte, error) {
	timesheet, err := models.GetTimesheet(ctx, timesheetId)
	if err != nil {
		return nil, err
	}

	employeeIds := []int{}
	projectIds := []int{}
	for _, entry := range timesheet.Entries {
		employeeIds = append(employeeIds, entry.EmployeeId)
		projectIds = append(projectIds, entry.ProjectId)
	}
	employees, err := models.GetEmployeesByIds(ctx, employeeIds)
	if err != nil {
		return nil, err
	}
	projects, err := models.GetProjectsByIds(ctx, projectIds)
	if err != nil {
		return nil, err
	}

	groups := models.GroupTimeEntriesByEmployee(timesheet.Entries, employees, models.DefaultClassificationRanks())
	grandTotal := models.SummarizeHours(timesheet.Entries)
	pages := layoutTimesheet(groups, grandTotal, defaultRowsPerPage)

	return renderPages(timesheet, groups, projects, pages)
}

func renderPages(
	timesheet *models.Timesheet,
	groups []*models.EmployeeHoursGroup,
	projects map[int]*models.Project,
	pages []page,
) ([]byte, error) {

	doc := gofpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(marginLeft, marginTop, marginLeft)
	doc.SetAutoPageBreak(false, 0)
	totalPages := len(pages)

	for pageNo, p := range pages {
		doc.AddPage()
		if pageNo == 0 {
			drawDocumentHeader(doc, timesheet)
		}
		drawColumnHeader(doc)
		for _, row := range p.Rows {
			switch row.Kind {
			case rowGroupHeader:
				drawGroupHeader(doc, groups[row.GroupIndex], row.Continued)
			case rowEntry:
				drawEntryRow(doc, row.Entry, projects)
			case rowSubtotal:
				drawSummaryRow(doc, "Subtotal "+groups[row.GroupIndex].EmployeeName, row.Summary)
			case rowGrandTotal:
				drawSummaryRow(doc, "Grand Total", row.Summary)
			}
		}
		drawFooter(doc, pageNo+1, totalPages)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawDocumentHeader(doc *gofpdf.Fpdf, timesheet *models.Timesheet) {
	doc.SetFont("Helvetica", "B", 14)
	title := timesheet.Title
	if title == "" {
		title = fmt.Sprintf("Timesheet #%d", timesheet.ID)
	}
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Date: "+timesheet.TimesheetDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, "Status: "+string(timesheet.CurrentStatus), "", 1, "L", false, 0, "")
	if timesheet.Notes != "" {
		doc.CellFormat(0, 6, timesheet.Notes, "", 1, "L", false, 0, "")
	}
	doc.Ln(2)
}

func drawColumnHeader(doc *gofpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(colDate, rowHeight, "Date", "1", 0, "L", true, 0, "")
	doc.CellFormat(colProject, rowHeight, "Project", "1", 0, "L", true, 0, "")
	doc.CellFormat(colTask, rowHeight, "Task", "1", 0, "L", true, 0, "")
	doc.CellFormat(colWorkType, rowHeight, "Work Type", "1", 0, "L", true, 0, "")
	doc.CellFormat(colHours, rowHeight, "Hours", "1", 0, "R", true, 0, "")
	doc.CellFormat(colStatus, rowHeight, "Status", "1", 1, "L", true, 0, "")
}

func drawGroupHeader(doc *gofpdf.Fpdf, group *models.EmployeeHoursGroup, continued bool) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(245, 245, 245)
	label := group.EmployeeName
	if group.Classification != "" {
		label += " (" + group.Classification + ")"
	}
	if continued {
		label += " (cont.)"
	}
	doc.CellFormat(colDate+colProject+colTask+colWorkType+colHours+colStatus, rowHeight, label, "1", 1, "L", true, 0, "")
}

// entryRowCells builds the Date, Project, Task, Work Type, Hours and Status
// cells for one entry. The task cell shows TaskPerformed, falling back to
// Description when no task was recorded.
func entryRowCells(entry *models.TimeEntry, projects map[int]*models.Project) []string {
	projectLabel := fmt.Sprintf("#%d", entry.ProjectId)
	if project := projects[entry.ProjectId]; project != nil {
		projectLabel = project.ProjectNumber + " " + project.Name
	}
	task := entry.TaskPerformed
	if task == "" {
		task = entry.Description
	}
	return []string{
		entry.EntryDate.Format("2006-01-02"),
		projectLabel,
		task,
		string(entry.WorkType),
		entry.HoursWorked.StringFixed(2),
		string(entry.CurrentStatus),
	}
}

func drawEntryRow(doc *gofpdf.Fpdf, entry *models.TimeEntry, projects map[int]*models.Project) {
	cells := entryRowCells(entry, projects)
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(colDate, rowHeight, cells[0], "1", 0, "L", false, 0, "")
	doc.CellFormat(colProject, rowHeight, cells[1], "1", 0, "L", false, 0, "")
	doc.CellFormat(colTask, rowHeight, cells[2], "1", 0, "L", false, 0, "")
	doc.CellFormat(colWorkType, rowHeight, cells[3], "1", 0, "L", false, 0, "")
	doc.CellFormat(colHours, rowHeight, cells[4], "1", 0, "R", false, 0, "")
	doc.CellFormat(colStatus, rowHeight, cells[5], "1", 1, "L", false, 0, "")
}

func drawSummaryRow(doc *gofpdf.Fpdf, label string, summary models.HoursSummary) {
	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(colDate+colProject+colTask+colWorkType, rowHeight, label, "1", 0, "R", false, 0, "")
	doc.CellFormat(colHours, rowHeight, summary.TotalHours.StringFixed(2), "1", 0, "R", false, 0, "")
	doc.CellFormat(colStatus, rowHeight, "OT "+summary.OvertimeHours.StringFixed(2), "1", 1, "L", false, 0, "")
}

func drawFooter(doc *gofpdf.Fpdf, pageNo int, totalPages int) {
	doc.SetY(-20)
	doc.SetFont("Helvetica", "I", 8)
	doc.CellFormat(0, 6, fmt.Sprintf("Page %d of %d", pageNo, totalPages), "", 0, "C", false, 0, "")
}
