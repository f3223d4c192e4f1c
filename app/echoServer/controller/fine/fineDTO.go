package fine

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayReq struct {
	// Negative amounts are rejected by the ledger; overpayment is capped.
	Amount decimal.Decimal `json:"amount"`
}

type SweepReq struct {
	// AsOf defaults to the current time when omitted; the scheduler may
	// pin it for deterministic re-runs.
	AsOf *time.Time `json:"as_of"`
}
