package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Activity is one row of the processor's balance-history export. The feed is
// optional: when it is absent the run proceeds with zero fees and no refunds.
type Activity struct {
	TransferID string
	Type       string
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Net        decimal.Decimal
	Source     string
	Created    time.Time
	AttendeeID string
	Company    string
}

// IsRefund reports whether the row is refund activity. The export is not
// consistent about casing.
func (a Activity) IsRefund() bool {
	return strings.EqualFold(strings.TrimSpace(a.Type), "refund")
}
