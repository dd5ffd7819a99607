// Package engine holds the pure billing arithmetic: tiered energy charges,
// surcharge totals, late fines and bill assembly. Nothing here touches storage
// or the clock.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	extrachargedomain "github.com/smallbiznis/gridbill/internal/extracharge/domain"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	ratingdomain "github.com/smallbiznis/gridbill/internal/rating/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
)

// ComputeEnergyCharge walks the slabs in ascending order and prices each
// consumed unit at the rate of the slab that contains it. Units are numbered
// from 1, so a slab starting at 0 prices units 1..unit_to.
func ComputeEnergyCharge(units int64, slabs []tariffdomain.TariffSlab) (ratingdomain.EnergyCharge, error) {
	if units < 0 {
		return ratingdomain.EnergyCharge{}, ratingdomain.ErrNegativeUnits
	}
	if len(slabs) == 0 {
		return ratingdomain.EnergyCharge{}, ratingdomain.ErrTariffNotConfigured
	}
	if err := tariffdomain.ValidateSchedule(slabs); err != nil {
		return ratingdomain.EnergyCharge{}, fmt.Errorf("%w: %s", ratingdomain.ErrTariffScheduleInvalid, err.Error())
	}

	ordered := make([]tariffdomain.TariffSlab, len(slabs))
	copy(ordered, slabs)
	tariffdomain.SortSlabs(ordered)

	result := ratingdomain.EnergyCharge{
		Amount: decimal.Zero,
		Lines:  []ratingdomain.EnergyLine{},
	}
	remaining := units
	for _, slab := range ordered {
		if remaining <= 0 {
			break
		}

		inRange := remaining
		if !slab.IsOpenEnded() && slab.Width() < inRange {
			inRange = slab.Width()
		}
		charge := slab.Rate.Mul(decimal.NewFromInt(inRange))

		result.Lines = append(result.Lines, ratingdomain.EnergyLine{
			Range:  slab.Label(),
			Units:  inRange,
			Rate:   slab.Rate,
			Charge: charge,
		})
		result.Amount = result.Amount.Add(charge)
		remaining -= inRange
	}

	if remaining > 0 {
		return ratingdomain.EnergyCharge{}, ratingdomain.ErrTariffCoverage
	}
	return result, nil
}

// SumExtraCharges totals the surcharges of a tariff type, nulls counting as zero.
func SumExtraCharges(charge extrachargedomain.ExtraCharge) decimal.Decimal {
	return charge.Total()
}

// ComputeFine returns the flat fine of the slab covering daysLate. Payments on
// or before the due date carry no fine. Lateness no slab covers is an error
// unless the policy says otherwise.
func ComputeFine(daysLate int, slabs []finedomain.FineSlab, policy ratingdomain.FinePolicy) (decimal.Decimal, error) {
	if daysLate <= 0 {
		return decimal.Zero, nil
	}
	if len(slabs) == 0 {
		return decimal.Zero, ratingdomain.ErrFineScheduleNotConfigured
	}

	ordered := make([]finedomain.FineSlab, len(slabs))
	copy(ordered, slabs)
	finedomain.SortSlabs(ordered)

	if daysLate < ordered[0].DaysFrom {
		if policy.Grace {
			return decimal.Zero, nil
		}
		return decimal.Zero, ratingdomain.ErrFineScheduleUncovered
	}
	for _, slab := range ordered {
		if slab.Covers(daysLate) {
			return slab.FineAmount, nil
		}
	}

	last := ordered[len(ordered)-1]
	if daysLate > last.DaysTo {
		if policy.Overflow == ratingdomain.OverflowReject {
			return decimal.Zero, ratingdomain.ErrFineScheduleExceeded
		}
		return last.FineAmount, nil
	}
	return decimal.Zero, ratingdomain.ErrFineScheduleGap
}

// DaysLate counts whole calendar days (UTC) from due to paid, floored at zero.
func DaysLate(due, paid time.Time) int {
	dueDay := truncateDay(due)
	paidDay := truncateDay(paid)
	if !paidDay.After(dueDay) {
		return 0
	}
	return int(paidDay.Sub(dueDay).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AssembleBill combines the energy charge, surcharges and fine into an assessment.
func AssembleBill(
	tariffType tariffdomain.TariffType,
	units int64,
	slabs []tariffdomain.TariffSlab,
	extra extrachargedomain.ExtraCharge,
	fine decimal.Decimal,
) (ratingdomain.Assessment, error) {
	energy, err := ComputeEnergyCharge(units, slabs)
	if err != nil {
		return ratingdomain.Assessment{}, err
	}

	return ratingdomain.Assessment{
		TariffType:  tariffType,
		Units:       units,
		Energy:      energy,
		Extras:      extra.Components(),
		ExtraAmount: SumExtraCharges(extra),
		Fine:        fine,
	}, nil
}
