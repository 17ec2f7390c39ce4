package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
)

type DailyHoursBreakdown struct {
	Date     time.Time                `json:"date"`
	Hours    decimal.Decimal          `json:"hours"`
	Projects []*ProjectHoursBreakdown `json:"projects"`
}

type WeeklyEmployeeRow struct {
	EmployeeId     int                    `json:"employee_id"`
	EmployeeName   string                 `json:"employee_name"`
	Classification string                 `json:"classification"`
	TotalHours     decimal.Decimal        `json:"total_hours"`
	RegularHours   decimal.Decimal        `json:"regular_hours"`
	OvertimeHours  decimal.Decimal        `json:"overtime_hours"`
	DailyHours     []*DailyHoursBreakdown `json:"daily_hours"`
}

type WeeklyPayrollResponse struct {
	WeekStart       time.Time            `json:"week_start"`
	WeekEnd         time.Time            `json:"week_end"`
	Rows            []*WeeklyEmployeeRow `json:"rows"`
	GrandTotalHours decimal.Decimal      `json:"grand_total_hours"`
}

// GetWeeklyPayrollReport covers the Monday-start week containing date.
func GetWeeklyPayrollReport(ctx context.Context, date time.Time) (*WeeklyPayrollResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	weekStart := utils.StartOfWeek(date)
	weekEnd := weekStart.AddDate(0, 0, 6)

	entries, err := models.GetTimeEntries(ctx, models.TimeEntryFilter{FromDate: &weekStart, ToDate: &weekEnd})
	if err != nil {
		return nil, err
	}

	employees, projects, err := referenceDataForEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	return BuildWeeklyPayrollReport(weekStart, entries, employees, projects, models.DefaultClassificationRanks()), nil
}

func BuildWeeklyPayrollReport(
	weekStart time.Time,
	entries []*models.TimeEntry,
	employees map[int]*models.Employee,
	projects map[int]*models.Project,
	ranks models.ClassificationRanks,
) *WeeklyPayrollResponse {

	weekStart = utils.TruncateToDate(weekStart)
	groups := models.GroupTimeEntriesByEmployee(entries, employees, ranks)

	response := WeeklyPayrollResponse{
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDate(0, 0, 6),
	}

	for _, group := range groups {
		row := WeeklyEmployeeRow{
			EmployeeId:     group.EmployeeId,
			EmployeeName:   group.EmployeeName,
			Classification: group.Classification,
			TotalHours:     group.Subtotal.TotalHours,
			RegularHours:   group.Subtotal.RegularHours,
			OvertimeHours:  group.Subtotal.OvertimeHours,
		}

		// one bucket per weekday, Monday first, empty days included
		for dayOffset := 0; dayOffset < 7; dayOffset++ {
			day := weekStart.AddDate(0, 0, dayOffset)
			var dayEntries []*models.TimeEntry
			for _, entry := range group.Entries {
				if utils.SameDate(entry.EntryDate, day) {
					dayEntries = append(dayEntries, entry)
				}
			}
			daySummary := models.SummarizeHours(dayEntries)
			row.DailyHours = append(row.DailyHours, &DailyHoursBreakdown{
				Date:     day,
				Hours:    daySummary.TotalHours,
				Projects: projectBreakdown(dayEntries, projects),
			})
		}

		response.Rows = append(response.Rows, &row)
		response.GrandTotalHours = response.GrandTotalHours.Add(row.TotalHours)
	}

	return &response
}

func (r WeeklyEmployeeRow) GetCellValues() []interface{} {
	return []interface{}{
		r.EmployeeName,
		r.Classification,
		r.TotalHours,
		r.RegularHours,
		r.OvertimeHours,
	}
}
