package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
)

// Employee mirrors the HR service's record locally so reports can resolve
// names, classifications and pay rates without a remote call per row.
type Employee struct {
	ID             int              `gorm:"primary_key" json:"id"`
	BusinessId     string           `gorm:"index;not null" json:"business_id" binding:"required"`
	Name           string           `gorm:"size:255;not null" json:"name" binding:"required"`
	Classification string           `gorm:"size:255" json:"classification"`
	IsActive       *bool            `gorm:"not null;default:true" json:"is_active"`
	HourlyRate     *decimal.Decimal `gorm:"type:decimal(20,4)" json:"hourly_rate"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployee struct {
	Name           string           `json:"name" validate:"required"`
	Classification string           `json:"classification"`
	IsActive       *bool            `json:"is_active"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate"`
}

func (obj Employee) GetId() int {
	return obj.ID
}

func (obj Employee) GetBusinessId() string {
	return obj.BusinessId
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid employee input: %v", utils.ProcessValidationErrors(err))
	}
	if input.HourlyRate != nil && input.HourlyRate.IsNegative() {
		return nil, utils.ValidationError("hourly rate must not be negative")
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	employee := Employee{
		BusinessId:     businessId,
		Name:           input.Name,
		Classification: input.Classification,
		IsActive:       isActive,
		HourlyRate:     input.HourlyRate,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	if err := utils.ClearModelCache[Employee](businessId, employee.ID); err != nil {
		return nil, err
	}

	return &employee, nil
}

func UpdateEmployee(ctx context.Context, id int, input *NewEmployee) (*Employee, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid employee input: %v", utils.ProcessValidationErrors(err))
	}
	if input.HourlyRate != nil && input.HourlyRate.IsNegative() {
		return nil, utils.ValidationError("hourly rate must not be negative")
	}

	existing, err := utils.FetchModel[Employee](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"Name":           input.Name,
		"Classification": input.Classification,
		"IsActive":       input.IsActive,
		"HourlyRate":     input.HourlyRate,
	}).Error
	if err != nil {
		return nil, err
	}
	if err := utils.ClearModelCache[Employee](businessId, id); err != nil {
		return nil, err
	}

	return existing, nil
}

func GetEmployee(ctx context.Context, id int) (*Employee, error) {
	return GetResource[Employee](ctx, id)
}

func GetEmployees(ctx context.Context, activeOnly bool) ([]*Employee, error) {
	employees, err := ListAllResource[Employee](ctx, "name")
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return employees, nil
	}
	var actives []*Employee
	for _, e := range employees {
		if e.IsActive != nil && *e.IsActive {
			actives = append(actives, e)
		}
	}
	return actives, nil
}

// resolve a set of employee ids to records in one query (report building)
func GetEmployeesByIds(ctx context.Context, ids []int) (map[int]*Employee, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result := make(map[int]*Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	db := config.GetDB()
	var employees []*Employee
	if err := db.WithContext(ctx).
		Where("business_id = ? AND id IN ?", businessId, utils.UniqueSlice(ids)).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	for _, e := range employees {
		result[e.ID] = e
	}
	return result, nil
}
