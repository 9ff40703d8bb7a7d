package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireSettlementPostingLock serializes settlement posting per employee
// across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that runs the settlement transaction.
func AcquireSettlementPostingLock(tx *gorm.DB, employeeId int) error {
	lockName := fmt.Sprintf("settlement:%d", employeeId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 10)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire settlement lock for employee_id=%d", employeeId)
	}
	return nil
}

func ReleaseSettlementPostingLock(tx *gorm.DB, employeeId int) {
	lockName := fmt.Sprintf("settlement:%d", employeeId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
