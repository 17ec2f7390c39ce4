package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySignIn is a physical presence record: one sign-in, at most one
// sign-out. A record with a nil SignOutTime is "active" and at most one may
// exist per employee per day. Records are never deleted, only superseded by
// a fresh sign-in after the previous one was signed out.
type DailySignIn struct {
	ID          int        `gorm:"primary_key" json:"id"`
	BusinessId  string     `gorm:"index;not null" json:"business_id" binding:"required"`
	EmployeeId  int        `gorm:"index:idx_sign_in_employee_date;not null" json:"employee_id" binding:"required"`
	SignInDate  time.Time  `gorm:"type:date;index:idx_sign_in_employee_date;not null" json:"sign_in_date" binding:"required"`
	SignInTime  time.Time  `gorm:"not null" json:"sign_in_time" binding:"required"`
	SignOutTime *time.Time `json:"sign_out_time"`
	Location    string     `gorm:"size:255" json:"location"`
	ProjectId   int        `gorm:"index" json:"project_id"`
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBulkSignIn struct {
	EmployeeIds []int     `json:"employee_ids" validate:"required,min=1"`
	SignInDate  time.Time `json:"sign_in_date" validate:"required"`
	SignInTime  time.Time `json:"sign_in_time" validate:"required"`
	Location    string    `json:"location"`
	ProjectId   int       `json:"project_id"`
	Notes       string    `json:"notes"`
}

type BulkSignInResult struct {
	SignedIn        []*DailySignIn `json:"signed_in"`
	AlreadySignedIn []int          `json:"already_signed_in"`
}

func (obj DailySignIn) GetId() int {
	return obj.ID
}

func (obj DailySignIn) GetBusinessId() string {
	return obj.BusinessId
}

func (d *DailySignIn) IsActive() bool {
	return d.SignOutTime == nil
}

// HoursOnSite is the sign-in to sign-out duration in hours, rounded to two
// decimals. Errors while the record is still active.
func (d *DailySignIn) HoursOnSite() (decimal.Decimal, error) {
	if d.SignOutTime == nil {
		return decimal.Zero, utils.InvalidStateError("compute hours for sign-in", "active")
	}
	minutes := d.SignOutTime.Sub(d.SignInTime).Minutes()
	return decimal.NewFromFloat(minutes).Div(decimal.NewFromInt(60)).Round(2), nil
}

// serialize sign-in creation per business across instances using MySQL
// advisory locks. GET_LOCK is session-scoped, not transaction-scoped: it
// must be acquired on a pinned connection (db.Connection) and released on
// that same connection AFTER the inner transaction commits. Releasing
// through a finished tx never reaches MySQL and leaks the lock on the
// pooled connection.
func acquireSignInLock(tx *gorm.DB, businessId string) error {
	lockName := fmt.Sprintf("signin:%s", businessId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire sign-in lock for business_id=%s", businessId)
	}
	return nil
}

func releaseSignInLock(tx *gorm.DB, businessId string) {
	lockName := fmt.Sprintf("signin:%s", businessId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

// BulkSignIn creates one active sign-in per requested employee for the date.
// Employees that already hold an active sign-in for the date are reported in
// AlreadySignedIn and skipped, so a repeated call is idempotent per
// employee/date. The existence check and the insert run under one
// transaction plus an advisory lock, so two concurrent bulk calls cannot
// both create an active record for the same employee.
func BulkSignIn(ctx context.Context, input *NewBulkSignIn) (*BulkSignInResult, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, utils.ValidationError("invalid sign-in input: %v", utils.ProcessValidationErrors(err))
	}

	// all employees must exist
	if err := utils.ValidateResourcesId[Employee](ctx, businessId, input.EmployeeIds); err != nil {
		return nil, utils.NotFoundError("one or more employees do not exist")
	}
	if input.ProjectId > 0 {
		if err := utils.ValidateResourceId[Project](ctx, businessId, input.ProjectId); err != nil {
			return nil, utils.NotFoundError("project %d does not exist", input.ProjectId)
		}
	}

	signInDate := utils.TruncateToDate(input.SignInDate)

	db := config.GetDB()
	result := BulkSignInResult{}
	err := db.Connection(func(conn *gorm.DB) error {
		if err := acquireSignInLock(conn, businessId); err != nil {
			return err
		}
		// runs after the inner transaction finished, on the still-live session
		defer releaseSignInLock(conn, businessId)

		return conn.Transaction(func(tx *gorm.DB) error {
			for _, employeeId := range utils.UniqueSlice(input.EmployeeIds) {
				var activeCount int64
				err := tx.WithContext(ctx).Model(&DailySignIn{}).
					Where("business_id = ? AND employee_id = ? AND sign_in_date = ? AND sign_out_time IS NULL",
						businessId, employeeId, signInDate).
					Count(&activeCount).Error
				if err != nil {
					return err
				}
				if activeCount > 0 {
					result.AlreadySignedIn = append(result.AlreadySignedIn, employeeId)
					continue
				}

				signIn := DailySignIn{
					BusinessId: businessId,
					EmployeeId: employeeId,
					SignInDate: signInDate,
					SignInTime: input.SignInTime,
					Location:   input.Location,
					ProjectId:  input.ProjectId,
					Notes:      input.Notes,
				}
				if err := tx.WithContext(ctx).Create(&signIn).Error; err != nil {
					return err
				}
				result.SignedIn = append(result.SignedIn, &signIn)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// SignOutDailySignIn closes an active sign-in. The record is mutated only
// here; a second sign-out is a conflict, never an overwrite.
func SignOutDailySignIn(ctx context.Context, id int, signOutTime time.Time) (*DailySignIn, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	signIn, err := utils.FetchModel[DailySignIn](ctx, businessId, id)
	if err != nil {
		return nil, utils.NotFoundError("sign-in %d does not exist", id)
	}
	if signIn.SignOutTime != nil {
		return nil, utils.ConflictError("sign-in %d is already signed out", id)
	}
	if !signOutTime.After(signIn.SignInTime) {
		return nil, utils.ValidationError("sign-out time must be after sign-in time")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(signIn).Update("SignOutTime", signOutTime).Error; err != nil {
		return nil, err
	}
	signIn.SignOutTime = &signOutTime

	return signIn, nil
}

func GetDailySignIn(ctx context.Context, id int) (*DailySignIn, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[DailySignIn](ctx, businessId, id)
}

func GetDailySignIns(ctx context.Context, date time.Time) ([]*DailySignIn, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var signIns []*DailySignIn
	err := db.WithContext(ctx).
		Where("business_id = ? AND sign_in_date = ?", businessId, utils.TruncateToDate(date)).
		Order("sign_in_time").
		Find(&signIns).Error
	if err != nil {
		return nil, err
	}
	return signIns, nil
}

// GetActiveSignIns is the live who-is-on-site view: every record without a
// sign-out, across all dates.
func GetActiveSignIns(ctx context.Context) ([]*DailySignIn, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var signIns []*DailySignIn
	err := db.WithContext(ctx).
		Where("business_id = ? AND sign_out_time IS NULL", businessId).
		Order("sign_in_date, sign_in_time").
		Find(&signIns).Error
	if err != nil {
		return nil, err
	}
	return signIns, nil
}
