package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
)

type ProjectCostRow struct {
	EmployeeId     int              `json:"employee_id"`
	EmployeeName   string           `json:"employee_name"`
	Classification string           `json:"classification"`
	Hours          decimal.Decimal  `json:"hours"`
	Rate           *decimal.Decimal `json:"rate"`
	Cost           decimal.Decimal  `json:"cost"`
}

type ProjectCostResponse struct {
	ProjectId     int               `json:"project_id"`
	ProjectName   string            `json:"project_name"`
	ProjectNumber string            `json:"project_number"`
	FromDate      time.Time         `json:"from_date"`
	ToDate        time.Time         `json:"to_date"`
	Rows          []*ProjectCostRow `json:"rows"`
	TotalHours    decimal.Decimal   `json:"total_hours"`
	TotalCost     decimal.Decimal   `json:"total_cost"`
}

// GetProjectCostReport costs one project's approved labor over a date
// range. Employees without a known hourly rate contribute their hours with
// a nil rate and zero cost rather than being dropped.
func GetProjectCostReport(ctx context.Context, projectId int, fromDate time.Time, toDate time.Time) (*ProjectCostResponse, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	project, err := models.GetProject(ctx, projectId)
	if err != nil {
		return nil, utils.NotFoundError("project %d does not exist", projectId)
	}

	from := utils.TruncateToDate(fromDate)
	to := utils.TruncateToDate(toDate)
	entries, err := models.GetTimeEntries(ctx, models.TimeEntryFilter{
		ProjectId: projectId,
		FromDate:  &from,
		ToDate:    &to,
		Status:    models.TimeEntryStatusApproved,
	})
	if err != nil {
		return nil, err
	}

	employees, _, err := referenceDataForEntries(ctx, entries)
	if err != nil {
		return nil, err
	}

	return BuildProjectCostReport(project, from, to, entries, employees, models.DefaultClassificationRanks()), nil
}

func BuildProjectCostReport(
	project *models.Project,
	fromDate time.Time,
	toDate time.Time,
	entries []*models.TimeEntry,
	employees map[int]*models.Employee,
	ranks models.ClassificationRanks,
) *ProjectCostResponse {

	groups := models.GroupTimeEntriesByEmployee(entries, employees, ranks)

	response := ProjectCostResponse{
		ProjectId:     project.ID,
		ProjectName:   project.Name,
		ProjectNumber: project.ProjectNumber,
		FromDate:      fromDate,
		ToDate:        toDate,
	}

	for _, group := range groups {
		row := ProjectCostRow{
			EmployeeId:     group.EmployeeId,
			EmployeeName:   group.EmployeeName,
			Classification: group.Classification,
			Hours:          group.Subtotal.TotalHours,
		}
		if employee := employees[group.EmployeeId]; employee != nil && employee.HourlyRate != nil {
			rate := *employee.HourlyRate
			row.Rate = &rate
			row.Cost = row.Hours.Mul(rate)
		}
		response.Rows = append(response.Rows, &row)
		response.TotalHours = response.TotalHours.Add(row.Hours)
		response.TotalCost = response.TotalCost.Add(row.Cost)
	}

	return &response
}

func (r ProjectCostRow) GetCellValues() []interface{} {
	return []interface{}{
		r.EmployeeName,
		r.Classification,
		r.Hours,
		utils.DereferencePtr(r.Rate),
		r.Cost,
	}
}
