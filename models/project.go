package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
)

type Project struct {
	ID            int       `gorm:"primary_key" json:"id"`
	BusinessId    string    `gorm:"index;uniqueIndex:idx_project_number_business;not null" json:"business_id" binding:"required"`
	ProjectNumber string    `gorm:"size:255;uniqueIndex:idx_project_number_business;not null" json:"project_number" binding:"required"`
	Name          string    `gorm:"size:255;not null" json:"name" binding:"required"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	ProjectNumber string `json:"project_number" validate:"required"`
	Name          string `json:"name" validate:"required"`
	IsActive      *bool  `json:"is_active"`
}

func (obj Project) GetId() int {
	return obj.ID
}

func (obj Project) GetBusinessId() string {
	return obj.BusinessId
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid project input: %v", utils.ProcessValidationErrors(err))
	}

	// project numbers are the human-facing key; keep them unique per business
	if err := utils.ValidateUnique[Project](ctx, businessId, "project_number", input.ProjectNumber, 0); err != nil {
		return nil, err
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	project := Project{
		BusinessId:    businessId,
		ProjectNumber: input.ProjectNumber,
		Name:          input.Name,
		IsActive:      isActive,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		// the unique index is the backstop when two creates race past ValidateUnique
		if isDuplicateKeyErr(err) {
			return nil, utils.ConflictError("project number %s already exists", input.ProjectNumber)
		}
		return nil, err
	}
	if err := utils.ClearModelCache[Project](businessId, project.ID); err != nil {
		return nil, err
	}

	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid project input: %v", utils.ProcessValidationErrors(err))
	}
	if err := utils.ValidateUnique[Project](ctx, businessId, "project_number", input.ProjectNumber, id); err != nil {
		return nil, err
	}

	existing, err := utils.FetchModel[Project](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"ProjectNumber": input.ProjectNumber,
		"Name":          input.Name,
		"IsActive":      input.IsActive,
	}).Error
	if err != nil {
		if isDuplicateKeyErr(err) {
			return nil, utils.ConflictError("project number %s already exists", input.ProjectNumber)
		}
		return nil, err
	}
	if err := utils.ClearModelCache[Project](businessId, id); err != nil {
		return nil, err
	}

	return existing, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	return GetResource[Project](ctx, id)
}

func GetProjects(ctx context.Context) ([]*Project, error) {
	return ListAllResource[Project](ctx, "project_number")
}

func GetProjectsByIds(ctx context.Context, ids []int) (map[int]*Project, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result := make(map[int]*Project, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	db := config.GetDB()
	var projects []*Project
	if err := db.WithContext(ctx).
		Where("business_id = ? AND id IN ?", businessId, utils.UniqueSlice(ids)).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		result[p.ID] = p
	}
	return result, nil
}
