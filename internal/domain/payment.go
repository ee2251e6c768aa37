package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one captured charge from the unified payments export.
type Payment struct {
	AttendeeID string
	// TransferID is the payout batch the processor settled this charge into.
	// Empty until settlement happens.
	TransferID     string
	Amount         decimal.Decimal
	Captured       bool
	RevenueAccount string
}

// Payout is one bank deposit event from the payouts export.
type Payout struct {
	ID          string
	ArrivalDate time.Time
	Amount      decimal.Decimal
}
