package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"gorm.io/gorm"
)

// Timesheet bundles time entries under one submission. It owns the entries
// it snapshots (TimeEntry.TimesheetId) so rendering and audit see the exact
// rows that were submitted.
type Timesheet struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id" binding:"required"`
	TimesheetDate time.Time       `gorm:"type:date;not null" json:"timesheet_date" binding:"required"`
	Title         string          `gorm:"size:255" json:"title"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CurrentStatus TimesheetStatus `gorm:"type:enum('Draft','Submitted','Approved');not null;default:'Draft'" json:"current_status"`
	CreatedBy     int             `gorm:"not null" json:"created_by"`
	SubmittedBy   *int            `json:"submitted_by"`
	ApprovedBy    *int            `json:"approved_by"`
	Entries       []*TimeEntry    `gorm:"foreignKey:TimesheetId" json:"entries"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTimesheet struct {
	TimesheetDate time.Time `json:"timesheet_date" validate:"required"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes"`
	TimeEntryIds  []int     `json:"time_entry_ids"`
}

func (obj Timesheet) GetId() int {
	return obj.ID
}

func (obj Timesheet) GetBusinessId() string {
	return obj.BusinessId
}

func (t Timesheet) CheckEditable(ctx context.Context) error {
	if t.CurrentStatus != TimesheetStatusDraft {
		return utils.InvalidStateError("edit timesheet", string(t.CurrentStatus))
	}
	return nil
}

// attach entries to a draft timesheet; each must exist, be Pending and not
// belong to another timesheet
func attachEntriesTx(tx *gorm.DB, ctx context.Context, businessId string, timesheetId int, entryIds []int) error {
	for _, entryId := range utils.UniqueSlice(entryIds) {
		var entry TimeEntry
		err := tx.WithContext(ctx).
			Where("business_id = ?", businessId).
			First(&entry, entryId).Error
		if err != nil {
			return utils.NotFoundError("time entry %d does not exist", entryId)
		}
		if entry.CurrentStatus != TimeEntryStatusPending {
			return utils.InvalidStateError("attach time entry", string(entry.CurrentStatus))
		}
		if entry.TimesheetId > 0 && entry.TimesheetId != timesheetId {
			return utils.ConflictError("time entry %d already belongs to timesheet %d", entryId, entry.TimesheetId)
		}
		if err := tx.WithContext(ctx).Model(&entry).Update("TimesheetId", timesheetId).Error; err != nil {
			return err
		}
	}
	return nil
}

func detachEntriesTx(tx *gorm.DB, ctx context.Context, businessId string, timesheetId int) error {
	return tx.WithContext(ctx).Model(&TimeEntry{}).
		Where("business_id = ? AND timesheet_id = ?", businessId, timesheetId).
		Update("timesheet_id", 0).Error
}

func CreateTimesheet(ctx context.Context, input *NewTimesheet) (*Timesheet, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid timesheet input: %v", utils.ProcessValidationErrors(err))
	}

	timesheet := Timesheet{
		BusinessId:    businessId,
		TimesheetDate: utils.TruncateToDate(input.TimesheetDate),
		Title:         input.Title,
		Notes:         input.Notes,
		CurrentStatus: TimesheetStatusDraft,
		CreatedBy:     userId,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&timesheet).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := attachEntriesTx(tx, ctx, businessId, timesheet.ID, input.TimeEntryIds); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetTimesheet(ctx, timesheet.ID)
}

// UpdateTimesheet replaces header fields and, when TimeEntryIds is given,
// the attached entry set. Draft only.
func UpdateTimesheet(ctx context.Context, id int, input *NewTimesheet) (*Timesheet, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	existing, err := utils.FetchModelForChange[Timesheet](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid timesheet input: %v", utils.ProcessValidationErrors(err))
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
		"TimesheetDate": utils.TruncateToDate(input.TimesheetDate),
		"Title":         input.Title,
		"Notes":         input.Notes,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if input.TimeEntryIds != nil {
		if err := detachEntriesTx(tx, ctx, businessId, id); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := attachEntriesTx(tx, ctx, businessId, id, input.TimeEntryIds); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return GetTimesheet(ctx, id)
}

// SubmitTimesheet moves Draft -> Submitted and stamps the submitter. The
// attached entries are locked against edits from that point on.
func SubmitTimesheet(ctx context.Context, id int) (*Timesheet, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	timesheet, err := utils.FetchModel[Timesheet](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if !timesheet.CurrentStatus.CanTransitionTo(TimesheetStatusSubmitted) {
		return nil, utils.InvalidStateError("submit timesheet", string(timesheet.CurrentStatus))
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(timesheet).Updates(map[string]interface{}{
		"CurrentStatus": TimesheetStatusSubmitted,
		"SubmittedBy":   userId,
	}).Error
	if err != nil {
		return nil, err
	}
	timesheet.CurrentStatus = TimesheetStatusSubmitted
	timesheet.SubmittedBy = &userId

	return timesheet, nil
}

// DeleteTimesheet removes a draft and releases its entries back to the
// unattached pool. Submitted and approved timesheets cannot be deleted.
func DeleteTimesheet(ctx context.Context, id int) (*Timesheet, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	timesheet, err := utils.FetchModelForChange[Timesheet](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := detachEntriesTx(tx, ctx, businessId, id); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(timesheet).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return timesheet, nil
}

func GetTimesheet(ctx context.Context, id int) (*Timesheet, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Timesheet](ctx, businessId, id, "Entries")
}

func GetTimesheets(ctx context.Context, status TimesheetStatus) ([]*Timesheet, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if status != "" {
		dbCtx = dbCtx.Where("current_status = ?", status)
	}

	var timesheets []*Timesheet
	if err := dbCtx.Order("timesheet_date DESC, id DESC").Find(&timesheets).Error; err != nil {
		return nil, err
	}
	return timesheets, nil
}
