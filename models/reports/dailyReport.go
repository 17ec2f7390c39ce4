package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
)

type ProjectHoursBreakdown struct {
	ProjectId   int             `json:"project_id"`
	ProjectName string          `json:"project_name"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
}

type DailyEmployeeRow struct {
	EmployeeId     int                      `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name"`
	Classification string                   `json:"classification"`
	TotalHours     decimal.Decimal          `json:"total_hours"`
	RegularHours   decimal.Decimal          `json:"regular_hours"`
	OvertimeHours  decimal.Decimal          `json:"overtime_hours"`
	Projects       []*ProjectHoursBreakdown `json:"projects"`
	SignInTime     *time.Time               `json:"sign_in_time"`
	SignOutTime    *time.Time               `json:"sign_out_time"`
}

type DailyPayrollResponse struct {
	ReportDate      time.Time           `json:"report_date"`
	Rows            []*DailyEmployeeRow `json:"rows"`
	GrandTotalHours decimal.Decimal     `json:"grand_total_hours"`
}

// GetDailyPayrollReport reports every entry logged for the date, one row
// per employee, regardless of approval status: it is the site-operations
// view of the day. Money-bearing reports filter to Approved instead.
func GetDailyPayrollReport(ctx context.Context, date time.Time) (*DailyPayrollResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	day := utils.TruncateToDate(date)
	entries, err := models.GetTimeEntries(ctx, models.TimeEntryFilter{FromDate: &day, ToDate: &day})
	if err != nil {
		return nil, err
	}

	employees, projects, err := referenceDataForEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	signIns, err := models.GetDailySignIns(ctx, day)
	if err != nil {
		return nil, err
	}

	return BuildDailyPayrollReport(day, entries, employees, projects, signIns, models.DefaultClassificationRanks()), nil
}

// BuildDailyPayrollReport is the pure aggregation step. GrandTotalHours is
// computed by summing the rows it returns, never independently, so the two
// cannot drift apart.
func BuildDailyPayrollReport(
	date time.Time,
	entries []*models.TimeEntry,
	employees map[int]*models.Employee,
	projects map[int]*models.Project,
	signIns []*models.DailySignIn,
	ranks models.ClassificationRanks,
) *DailyPayrollResponse {

	groups := models.GroupTimeEntriesByEmployee(entries, employees, ranks)

	firstSignIn := make(map[int]*models.DailySignIn)
	for _, signIn := range signIns {
		if existing, ok := firstSignIn[signIn.EmployeeId]; !ok || signIn.SignInTime.Before(existing.SignInTime) {
			firstSignIn[signIn.EmployeeId] = signIn
		}
	}

	response := DailyPayrollResponse{ReportDate: date}
	for _, group := range groups {
		row := DailyEmployeeRow{
			EmployeeId:     group.EmployeeId,
			EmployeeName:   group.EmployeeName,
			Classification: group.Classification,
			TotalHours:     group.Subtotal.TotalHours,
			RegularHours:   group.Subtotal.RegularHours,
			OvertimeHours:  group.Subtotal.OvertimeHours,
			Projects:       projectBreakdown(group.Entries, projects),
		}
		if signIn := firstSignIn[group.EmployeeId]; signIn != nil {
			signInTime := signIn.SignInTime
			row.SignInTime = &signInTime
			row.SignOutTime = signIn.SignOutTime
		}
		response.Rows = append(response.Rows, &row)
		response.GrandTotalHours = response.GrandTotalHours.Add(row.TotalHours)
	}

	return &response
}

// per distinct project, in first-logged order
func projectBreakdown(entries []*models.TimeEntry, projects map[int]*models.Project) []*ProjectHoursBreakdown {
	byProject := make(map[int]*ProjectHoursBreakdown)
	var breakdown []*ProjectHoursBreakdown
	for _, entry := range entries {
		line, ok := byProject[entry.ProjectId]
		if !ok {
			line = &ProjectHoursBreakdown{ProjectId: entry.ProjectId}
			if project := projects[entry.ProjectId]; project != nil {
				line.ProjectName = project.Name
			}
			byProject[entry.ProjectId] = line
			breakdown = append(breakdown, line)
		}
		line.HoursWorked = line.HoursWorked.Add(entry.HoursWorked)
	}
	return breakdown
}

// one pass over the entries to resolve every referenced employee and
// project; report builders fail loudly if either lookup fails
func referenceDataForEntries(ctx context.Context, entries []*models.TimeEntry) (map[int]*models.Employee, map[int]*models.Project, error) {
	var employeeIds, projectIds []int
	for _, entry := range entries {
		employeeIds = append(employeeIds, entry.EmployeeId)
		projectIds = append(projectIds, entry.ProjectId)
	}

	employees, err := models.GetEmployeesByIds(ctx, employeeIds)
	if err != nil {
		return nil, nil, err
	}
	projects, err := models.GetProjectsByIds(ctx, projectIds)
	if err != nil {
		return nil, nil, err
	}
	return employees, projects, nil
}

func (r DailyEmployeeRow) GetCellValues() []interface{} {
	return []interface{}{
		r.EmployeeName,
		r.Classification,
		r.TotalHours,
		r.RegularHours,
		r.OvertimeHours,
	}
}
