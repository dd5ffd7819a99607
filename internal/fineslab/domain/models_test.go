package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fine(from, to int, amount int64) FineSlab {
	return FineSlab{DaysFrom: from, DaysTo: to, FineAmount: decimal.NewFromInt(amount)}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule(nil))
	assert.NoError(t, ValidateSchedule([]FineSlab{fine(11, 30, 150), fine(0, 10, 50)}))
	assert.NoError(t, ValidateSchedule([]FineSlab{fine(5, 15, 100)}))
	assert.ErrorIs(t, ValidateSchedule([]FineSlab{fine(0, 10, 50), fine(10, 30, 150)}), ErrScheduleOverlap)
	assert.ErrorIs(t, ValidateSchedule([]FineSlab{fine(0, 10, 50), fine(20, 30, 150)}), ErrScheduleGap)
	assert.ErrorIs(t, ValidateSchedule([]FineSlab{fine(10, 5, 50)}), ErrInvalidDaysTo)
	assert.ErrorIs(t, ValidateSchedule([]FineSlab{fine(0, 5, -1)}), ErrInvalidFineAmount)
}

func TestCoversIsInclusive(t *testing.T) {
	s := fine(0, 10, 50)
	assert.True(t, s.Covers(0))
	assert.True(t, s.Covers(10))
	assert.False(t, s.Covers(11))
}
