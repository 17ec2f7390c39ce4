package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
)

// obtainBusinessRedisLock is a best-effort cross-instance lock. Reliability
// must not depend on redis: the MySQL advisory lock inside the transaction
// serializes safely, this only keeps a second instance from blocking 30s on
// GET_LOCK. Returns nil when redis is down or the lock is contended; the
// caller proceeds either way and releases only a non-nil lock.
func obtainBusinessRedisLock(ctx context.Context, businessId string) *redislock.Lock {
	locker := config.GetRedisLock()
	if locker == nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field":       "obtainBusinessRedisLock",
			"business_id": businessId,
		}).Warn("redis lock not ready; proceeding without redis lock")
		return nil
	}

	lock, err := locker.Obtain(ctx, fmt.Sprintf("lock:%s", businessId), 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.GetLogger().WithFields(logrus.Fields{
			"field":       "obtainBusinessRedisLock",
			"business_id": businessId,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return nil
	} else if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field":       "obtainBusinessRedisLock",
			"business_id": businessId,
		}).Warn("redis lock error; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}

func releaseBusinessRedisLock(ctx context.Context, lock *redislock.Lock, businessId string) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field":       "releaseBusinessRedisLock",
			"business_id": businessId,
		}).Warn("failed to release redis lock: " + err.Error())
	}
}
