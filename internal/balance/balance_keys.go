package balance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func DebitKey(requestID uuid.UUID) string {
	return "debit:" + requestID.String()
}

func RolloverKey(balanceID uuid.UUID, toYear int) string {
	return fmt.Sprintf("rollover:%s:%d", balanceID, toYear)
}

func AccrualKey(balanceID uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("accrual:%s:%04d-%02d", balanceID, year, int(month))
}

func allocationKey(balanceID uuid.UUID) string {
	return "allocation:" + balanceID.String()
}

func creditKey() string {
	return "credit:" + uuid.NewString()
}
