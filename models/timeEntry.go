package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var maxHoursPerEntry = decimal.NewFromInt(24)

// TimeEntry is a billable/payable labor record against a project,
// independent of physical presence. Status moves Pending -> Approved or
// Pending -> Rejected and never leaves a terminal state.
type TimeEntry struct {
	ID              int             `gorm:"primary_key" json:"id"`
	BusinessId      string          `gorm:"index;not null" json:"business_id" binding:"required"`
	EmployeeId      int             `gorm:"index;not null" json:"employee_id" binding:"required"`
	ProjectId       int             `gorm:"index;not null" json:"project_id" binding:"required"`
	EntryDate       time.Time       `gorm:"type:date;index;not null" json:"entry_date" binding:"required"`
	HoursWorked     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours_worked" binding:"required"`
	WorkType        WorkType        `gorm:"type:enum('Regular','Overtime','DoubleTime');not null;default:'Regular'" json:"work_type"`
	Description     string          `gorm:"type:text" json:"description"`
	TaskPerformed   string          `gorm:"size:255" json:"task_performed"`
	CurrentStatus   TimeEntryStatus `gorm:"type:enum('Pending','Approved','Rejected');not null;default:'Pending'" json:"current_status"`
	RejectionReason string          `gorm:"type:text" json:"rejection_reason"`
	TimesheetId     int             `gorm:"index" json:"timesheet_id"`
	CreatedBy       int             `gorm:"not null" json:"created_by"`
	ApprovedBy      *int            `json:"approved_by"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTimeEntry struct {
	EmployeeId    int             `json:"employee_id" validate:"required"`
	ProjectId     int             `json:"project_id" validate:"required"`
	EntryDate     time.Time       `json:"entry_date" validate:"required"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	WorkType      WorkType        `json:"work_type"`
	Description   string          `json:"description"`
	TaskPerformed string          `json:"task_performed"`
}

type TimeEntryFilter struct {
	EmployeeId int
	ProjectId  int
	FromDate   *time.Time
	ToDate     *time.Time
	Status     TimeEntryStatus
}

func (obj TimeEntry) GetId() int {
	return obj.ID
}

func (obj TimeEntry) GetBusinessId() string {
	return obj.BusinessId
}

// CheckEditable refuses edits once the entry left Pending, and optionally
// once its timesheet was submitted.
func (t TimeEntry) CheckEditable(ctx context.Context) error {
	if t.CurrentStatus != TimeEntryStatusPending {
		return utils.InvalidStateError("edit time entry", string(t.CurrentStatus))
	}
	if config.StrictTimesheetImmutability() && t.TimesheetId > 0 {
		timesheet, err := utils.FetchModel[Timesheet](ctx, t.BusinessId, t.TimesheetId)
		if err != nil {
			return err
		}
		if timesheet.CurrentStatus != TimesheetStatusDraft {
			return utils.InvalidStateError("edit time entry on timesheet", string(timesheet.CurrentStatus))
		}
	}
	return nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewTimeEntry) validate(ctx context.Context, businessId string, _ int) error {
	if err := utils.ValidateInput(input); err != nil {
		return utils.ValidationError("invalid time entry input: %v", utils.ProcessValidationErrors(err))
	}
	if !input.HoursWorked.IsPositive() {
		return utils.ValidationError("hours worked must be greater than zero")
	}
	if input.HoursWorked.GreaterThan(maxHoursPerEntry) {
		return utils.ValidationError("hours worked must not exceed 24 per entry")
	}
	if input.WorkType != "" && !input.WorkType.IsValid() {
		return utils.ValidationError("invalid work type %s", input.WorkType)
	}

	// exists employee
	if err := utils.ValidateResourceId[Employee](ctx, businessId, input.EmployeeId); err != nil {
		return utils.NotFoundError("employee %d does not exist", input.EmployeeId)
	}
	// exists project
	if err := utils.ValidateResourceId[Project](ctx, businessId, input.ProjectId); err != nil {
		return utils.NotFoundError("project %d does not exist", input.ProjectId)
	}

	return nil
}

func newTimeEntryFromInput(businessId string, createdBy int, input *NewTimeEntry) TimeEntry {
	workType := input.WorkType
	if workType == "" {
		workType = WorkTypeRegular
	}
	return TimeEntry{
		BusinessId:    businessId,
		EmployeeId:    input.EmployeeId,
		ProjectId:     input.ProjectId,
		EntryDate:     utils.TruncateToDate(input.EntryDate),
		HoursWorked:   input.HoursWorked,
		WorkType:      workType,
		Description:   input.Description,
		TaskPerformed: input.TaskPerformed,
		CurrentStatus: TimeEntryStatusPending,
		CreatedBy:     createdBy,
	}
}

func CreateTimeEntry(ctx context.Context, input *NewTimeEntry) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	entry := newTimeEntryFromInput(businessId, userId, input)

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

// CreateBulkTimeEntries validates every row first, then inserts all of them
// in one transaction: either the whole batch lands or none of it does.
func CreateBulkTimeEntries(ctx context.Context, inputs []*NewTimeEntry) ([]*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	if len(inputs) == 0 {
		return nil, utils.ValidationError("at least one time entry is required")
	}
	for _, input := range inputs {
		if err := input.validate(ctx, businessId, 0); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	var entries []*TimeEntry
	for _, input := range inputs {
		entry := newTimeEntryFromInput(businessId, userId, input)
		if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func UpdateTimeEntry(ctx context.Context, id int, input *NewTimeEntry) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	// id exists and is still editable
	existing, err := utils.FetchModelForChange[TimeEntry](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	workType := input.WorkType
	if workType == "" {
		workType = existing.WorkType
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"EmployeeId":    input.EmployeeId,
		"ProjectId":     input.ProjectId,
		"EntryDate":     utils.TruncateToDate(input.EntryDate),
		"HoursWorked":   input.HoursWorked,
		"WorkType":      workType,
		"Description":   input.Description,
		"TaskPerformed": input.TaskPerformed,
	}).Error
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// DeleteTimeEntry hard-deletes a time entry, unless its timesheet has been
// submitted or approved; those snapshots must keep their rows.
func DeleteTimeEntry(ctx context.Context, id int) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	entry, err := utils.FetchModel[TimeEntry](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if entry.TimesheetId > 0 {
		timesheet, err := utils.FetchModel[Timesheet](ctx, businessId, entry.TimesheetId)
		if err != nil {
			return nil, err
		}
		if timesheet.CurrentStatus != TimesheetStatusDraft {
			return nil, utils.InvalidStateError("delete time entry on timesheet", string(timesheet.CurrentStatus))
		}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(entry).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// ApproveTimeEntry moves Pending -> Approved and stamps the approver. The
// row is locked and the status re-read inside the transaction, so the
// second of two racing approvers fails with an invalid-state error instead
// of silently overwriting.
func ApproveTimeEntry(ctx context.Context, id int) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	approverId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || approverId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()
	tx := db.Begin()

	entry, err := ApproveTimeEntryInTx(tx, ctx, businessId, id, approverId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return entry, nil
}

// ApproveTimeEntryInTx performs the transition inside the caller's
// transaction; timesheet approval cascades through here too.
func ApproveTimeEntryInTx(tx *gorm.DB, ctx context.Context, businessId string, id int, approverId int) (*TimeEntry, error) {

	var entry TimeEntry
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ?", businessId).
		First(&entry, id).Error
	if err != nil {
		return nil, utils.NotFoundError("time entry %d does not exist", id)
	}

	if !entry.CurrentStatus.CanTransitionTo(TimeEntryStatusApproved) {
		return nil, utils.InvalidStateError("approve time entry", string(entry.CurrentStatus))
	}

	approvedAt := time.Now().UTC()
	err = tx.WithContext(ctx).Model(&entry).Updates(map[string]interface{}{
		"CurrentStatus": TimeEntryStatusApproved,
		"ApprovedBy":    approverId,
		"ApprovedAt":    approvedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	entry.CurrentStatus = TimeEntryStatusApproved
	entry.ApprovedBy = &approverId
	entry.ApprovedAt = &approvedAt

	return &entry, nil
}

// RejectTimeEntry moves Pending -> Rejected with a mandatory reason.
func RejectTimeEntry(ctx context.Context, id int, reason string) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	approverId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || approverId == 0 {
		return nil, errors.New("user id is required")
	}
	if reason == "" {
		return nil, utils.ValidationError("rejection reason is required")
	}

	db := config.GetDB()
	tx := db.Begin()

	var entry TimeEntry
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("business_id = ?", businessId).
		First(&entry, id).Error
	if err != nil {
		tx.Rollback()
		return nil, utils.NotFoundError("time entry %d does not exist", id)
	}

	if !entry.CurrentStatus.CanTransitionTo(TimeEntryStatusRejected) {
		tx.Rollback()
		return nil, utils.InvalidStateError("reject time entry", string(entry.CurrentStatus))
	}

	approvedAt := time.Now().UTC()
	err = tx.WithContext(ctx).Model(&entry).Updates(map[string]interface{}{
		"CurrentStatus":   TimeEntryStatusRejected,
		"RejectionReason": reason,
		"ApprovedBy":      approverId,
		"ApprovedAt":      approvedAt,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	entry.CurrentStatus = TimeEntryStatusRejected
	entry.RejectionReason = reason
	entry.ApprovedBy = &approverId
	entry.ApprovedAt = &approvedAt

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

// AutoCreateTimeEntryFromSignIn derives a Pending Regular entry from a
// closed sign-in; hours are the on-site duration rounded to two decimals.
func AutoCreateTimeEntryFromSignIn(ctx context.Context, signInId int, projectId int) (*TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	signIn, err := utils.FetchModel[DailySignIn](ctx, businessId, signInId)
	if err != nil {
		return nil, utils.NotFoundError("sign-in %d does not exist", signInId)
	}

	hours, err := signIn.HoursOnSite()
	if err != nil {
		return nil, err
	}

	if projectId == 0 {
		projectId = signIn.ProjectId
	}
	if projectId == 0 {
		return nil, utils.ValidationError("project is required to create a time entry from sign-in")
	}
	if err := utils.ValidateResourceId[Project](ctx, businessId, projectId); err != nil {
		return nil, utils.NotFoundError("project %d does not exist", projectId)
	}

	entry := TimeEntry{
		BusinessId:    businessId,
		EmployeeId:    signIn.EmployeeId,
		ProjectId:     projectId,
		EntryDate:     signIn.SignInDate,
		HoursWorked:   hours,
		WorkType:      WorkTypeRegular,
		Description:   signIn.Notes,
		CurrentStatus: TimeEntryStatusPending,
		CreatedBy:     userId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

func GetTimeEntry(ctx context.Context, id int) (*TimeEntry, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[TimeEntry](ctx, businessId, id)
}

// GetTimeEntries pulls entries matching the filter in one query, ordered by
// date then id so grouping downstream is deterministic.
func GetTimeEntries(ctx context.Context, filter TimeEntryFilter) ([]*TimeEntry, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	if filter.EmployeeId > 0 {
		dbCtx = dbCtx.Where("employee_id = ?", filter.EmployeeId)
	}
	if filter.ProjectId > 0 {
		dbCtx = dbCtx.Where("project_id = ?", filter.ProjectId)
	}
	if filter.FromDate != nil && filter.ToDate != nil {
		dbCtx = dbCtx.Where("entry_date BETWEEN ? AND ?",
			utils.TruncateToDate(*filter.FromDate), utils.TruncateToDate(*filter.ToDate))
	} else if filter.FromDate != nil {
		dbCtx = dbCtx.Where("entry_date >= ?", utils.TruncateToDate(*filter.FromDate))
	} else if filter.ToDate != nil {
		dbCtx = dbCtx.Where("entry_date <= ?", utils.TruncateToDate(*filter.ToDate))
	}
	if filter.Status != "" {
		dbCtx = dbCtx.Where("current_status = ?", filter.Status)
	}

	var entries []*TimeEntry
	if err := dbCtx.Order("entry_date, id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetUnapprovedTimeEntries drives the approval queue.
func GetUnapprovedTimeEntries(ctx context.Context) ([]*TimeEntry, error) {
	return GetTimeEntries(ctx, TimeEntryFilter{Status: TimeEntryStatusPending})
}
