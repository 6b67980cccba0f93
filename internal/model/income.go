package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is a single income source. A recurring income carries a pay cycle
// and the next pay date; a one-time income carries just the date it lands.
// At most one income is the main income, and it must be recurring.
type Income struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	PayCycle    PayCycle        `json:"pay_cycle"`
	NextPayDate time.Time       `json:"next_pay_date"`
	IsMain      bool            `json:"is_main"`
}
