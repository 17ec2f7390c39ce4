package workflow

import (
	"context"
	"errors"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"gorm.io/gorm"
)

// ApproveTimesheet moves Submitted -> Approved, stamps the approver, and
// cascades approval to every still-Pending entry on the sheet in the same
// transaction. Entries already Rejected stay Rejected; only Pending ones
// transition. The whole cascade runs under the per-business approval lock
// so two approvers working the same queue cannot interleave.
func ApproveTimesheet(ctx context.Context, id int) (*models.Timesheet, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	approverId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || approverId == 0 {
		return nil, errors.New("user id is required")
	}

	redisLock := obtainBusinessRedisLock(ctx, businessId)
	defer releaseBusinessRedisLock(ctx, redisLock, businessId)

	db := config.GetDB()
	err := db.Connection(func(conn *gorm.DB) error {
		if err := AcquireApprovalLock(conn, businessId); err != nil {
			return err
		}
		// runs after the inner transaction finished, on the still-live session
		defer ReleaseApprovalLock(conn, businessId)

		return conn.Transaction(func(tx *gorm.DB) error {
			var timesheet models.Timesheet
			err := tx.WithContext(ctx).
				Where("business_id = ?", businessId).
				Preload("Entries").
				First(&timesheet, id).Error
			if err != nil {
				return utils.NotFoundError("timesheet %d does not exist", id)
			}

			if !timesheet.CurrentStatus.CanTransitionTo(models.TimesheetStatusApproved) {
				return utils.InvalidStateError("approve timesheet", string(timesheet.CurrentStatus))
			}

			err = tx.WithContext(ctx).Model(&timesheet).Updates(map[string]interface{}{
				"CurrentStatus": models.TimesheetStatusApproved,
				"ApprovedBy":    approverId,
			}).Error
			if err != nil {
				return err
			}

			for _, entry := range timesheet.Entries {
				if entry.CurrentStatus != models.TimeEntryStatusPending {
					continue
				}
				if _, err := models.ApproveTimeEntryInTx(tx, ctx, businessId, entry.ID, approverId); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return models.GetTimesheet(ctx, id)
}

// ApproveTimeEntriesBulk approves a batch of entries as one unit under the
// approval lock: any entry that cannot transition aborts the whole batch.
func ApproveTimeEntriesBulk(ctx context.Context, ids []int) ([]*models.TimeEntry, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	approverId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || approverId == 0 {
		return nil, errors.New("user id is required")
	}
	if len(ids) == 0 {
		return nil, utils.ValidationError("at least one time entry id is required")
	}

	redisLock := obtainBusinessRedisLock(ctx, businessId)
	defer releaseBusinessRedisLock(ctx, redisLock, businessId)

	db := config.GetDB()
	var approved []*models.TimeEntry
	err := db.Connection(func(conn *gorm.DB) error {
		if err := AcquireApprovalLock(conn, businessId); err != nil {
			return err
		}
		defer ReleaseApprovalLock(conn, businessId)

		return conn.Transaction(func(tx *gorm.DB) error {
			for _, id := range utils.UniqueSlice(ids) {
				entry, err := models.ApproveTimeEntryInTx(tx, ctx, businessId, id, approverId)
				if err != nil {
					return err
				}
				approved = append(approved, entry)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return approved, nil
}
