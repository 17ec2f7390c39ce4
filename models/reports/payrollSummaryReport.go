package reports

import (
	"context"
	"errors"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
)

const topProjectCount = 5

type ProjectHoursRank struct {
	ProjectId     int             `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	ProjectNumber string          `json:"project_number"`
	Hours         decimal.Decimal `json:"hours"`
}

type PayrollSummaryResponse struct {
	FromDate        time.Time           `json:"from_date"`
	ToDate          time.Time           `json:"to_date"`
	TotalLaborHours decimal.Decimal     `json:"total_labor_hours"`
	TotalLaborCost  decimal.Decimal     `json:"total_labor_cost"`
	EmployeeCount   int                 `json:"employee_count"`
	ProjectCount    int                 `json:"project_count"`
	TopProjects     []*ProjectHoursRank `json:"top_projects"`
}

// GetPayrollSummaryReport aggregates approved labor across the whole
// business for a pay period.
func GetPayrollSummaryReport(ctx context.Context, fromDate time.Time, toDate time.Time) (*PayrollSummaryResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	from := utils.TruncateToDate(fromDate)
	to := utils.TruncateToDate(toDate)
	entries, err := models.GetTimeEntries(ctx, models.TimeEntryFilter{
		FromDate: &from,
		ToDate:   &to,
		Status:   models.TimeEntryStatusApproved,
	})
	if err != nil {
		return nil, err
	}

	employees, projects, err := referenceDataForEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	return BuildPayrollSummaryReport(from, to, entries, employees, projects), nil
}

func BuildPayrollSummaryReport(
	fromDate time.Time,
	toDate time.Time,
	entries []*models.TimeEntry,
	employees map[int]*models.Employee,
	projects map[int]*models.Project,
) *PayrollSummaryResponse {

	response := PayrollSummaryResponse{
		FromDate:      fromDate,
		ToDate:        toDate,
		EmployeeCount: models.DistinctEmployeeCount(entries),
		ProjectCount:  models.DistinctProjectCount(entries),
	}

	hoursByProject := make(map[int]decimal.Decimal)
	projectOrder := []int{}
	for _, entry := range entries {
		response.TotalLaborHours = response.TotalLaborHours.Add(entry.HoursWorked)
		if employee := employees[entry.EmployeeId]; employee != nil && employee.HourlyRate != nil {
			response.TotalLaborCost = response.TotalLaborCost.Add(entry.HoursWorked.Mul(*employee.HourlyRate))
		}
		if _, seen := hoursByProject[entry.ProjectId]; !seen {
			projectOrder = append(projectOrder, entry.ProjectId)
		}
		hoursByProject[entry.ProjectId] = hoursByProject[entry.ProjectId].Add(entry.HoursWorked)
	}

	ranking := make([]*ProjectHoursRank, 0, len(projectOrder))
	for _, projectId := range projectOrder {
		rank := ProjectHoursRank{
			ProjectId: projectId,
			Hours:     hoursByProject[projectId],
		}
		if project := projects[projectId]; project != nil {
			rank.ProjectName = project.Name
			rank.ProjectNumber = project.ProjectNumber
		}
		ranking = append(ranking, &rank)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Hours.GreaterThan(ranking[j].Hours)
	})
	if len(ranking) > topProjectCount {
		ranking = ranking[:topProjectCount]
	}
	response.TopProjects = ranking

	return &response
}

func (r ProjectHoursRank) GetCellValues() []interface{} {
	return []interface{}{
		r.ProjectNumber,
		r.ProjectName,
		r.Hours,
	}
}
