package domain

import "sort"

// SortSlabs orders slabs ascending by unit_from in place.
func SortSlabs(slabs []TariffSlab) {
	sort.SliceStable(slabs, func(i, j int) bool {
		return slabs[i].UnitFrom < slabs[j].UnitFrom
	})
}

// ValidateSlab checks a single slab in isolation.
func ValidateSlab(s TariffSlab) error {
	if s.UnitFrom < 0 {
		return ErrInvalidUnitFrom
	}
	if s.UnitTo < s.UnitFrom || s.UnitTo > OpenEndedUnitTo {
		return ErrInvalidUnitTo
	}
	if !s.Rate.IsPositive() {
		return ErrInvalidRate
	}
	// Rates are stored as numeric(10,4).
	if !s.Rate.Equal(s.Rate.Round(RateScale)) {
		return ErrInvalidRate
	}
	return nil
}

// ValidateSchedule checks that the slabs of one tariff type are contiguous,
// non-overlapping and start at unit 0 or 1. Only the last slab may be open-ended.
// An empty schedule is valid; pricing against it fails later.
func ValidateSchedule(slabs []TariffSlab) error {
	if len(slabs) == 0 {
		return nil
	}

	ordered := make([]TariffSlab, len(slabs))
	copy(ordered, slabs)
	SortSlabs(ordered)

	for i, s := range ordered {
		if err := ValidateSlab(s); err != nil {
			return err
		}
		if i == 0 {
			if s.UnitFrom > 1 {
				return ErrScheduleStart
			}
			continue
		}
		prev := ordered[i-1]
		if prev.IsOpenEnded() {
			return ErrOpenEndedNotLast
		}
		if s.UnitFrom <= prev.UnitTo {
			return ErrScheduleOverlap
		}
		if s.UnitFrom != prev.UnitTo+1 {
			return ErrScheduleGap
		}
	}
	return nil
}
