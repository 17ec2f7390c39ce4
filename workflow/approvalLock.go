package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireApprovalLock serializes approval processing per business across
// instances using MySQL advisory locks.
// NOTE: GET_LOCK is session-scoped, not transaction-scoped. Acquire it on a
// pinned connection (db.Connection), run the approval transaction on that
// connection, and release on the same connection after the transaction
// finished. A release issued through a committed tx never reaches MySQL and
// the lock stays held on the pooled connection.
func AcquireApprovalLock(tx *gorm.DB, businessId string) error {
	lockName := fmt.Sprintf("approval:%s", businessId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire approval lock for business_id=%s", businessId)
	}
	return nil
}

func ReleaseApprovalLock(tx *gorm.DB, businessId string) {
	lockName := fmt.Sprintf("approval:%s", businessId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
