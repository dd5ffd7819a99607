package domain

import (
	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

// EnergyLine is one row of the per-slab energy breakdown.
type EnergyLine struct {
	Range  string          `json:"range"`
	Units  int64           `json:"units"`
	Rate   decimal.Decimal `json:"rate"`
	Charge decimal.Decimal `json:"charge"`
}

// EnergyCharge is the tiered charge for a consumption. Amount always equals
// the sum of the line charges.
type EnergyCharge struct {
	Amount decimal.Decimal `json:"amount"`
	Lines  []EnergyLine    `json:"lines"`
}

// Assessment is an assembled bill before persistence. Amounts are unrounded.
type Assessment struct {
	TariffType  tariffdomain.TariffType       `json:"tariff_type"`
	Units       int64                         `json:"units"`
	Energy      EnergyCharge                  `json:"energy"`
	Extras      []extrachargedomain.Component `json:"extras"`
	ExtraAmount decimal.Decimal               `json:"extra_amount"`
	Fine        decimal.Decimal               `json:"fine"`
}

func (a Assessment) Subtotal() decimal.Decimal {
	return a.Energy.Amount.Add(a.ExtraAmount)
}

func (a Assessment) Total() decimal.Decimal {
	return a.Subtotal().Add(a.Fine)
}

// PayableAmount is the total rounded to paise.
func (a Assessment) PayableAmount() decimal.Decimal {
	return a.Total().Round(2)
}

// OverflowPolicy decides how lateness beyond the last fine slab is priced.
type OverflowPolicy string

const (
	OverflowCeiling OverflowPolicy = "ceiling"
	OverflowReject  OverflowPolicy = "reject"
)

// FinePolicy carries the operator choices that apply when lateness falls
// outside the configured fine slabs.
type FinePolicy struct {
	Overflow OverflowPolicy
	// Grace prices lateness before the first slab starts at zero instead of
	// rejecting it as uncovered.
	Grace bool
}
