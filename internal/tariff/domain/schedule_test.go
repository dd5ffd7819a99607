package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func slab(from, to int64, rate string) TariffSlab {
	return TariffSlab{UnitFrom: from, UnitTo: to, Rate: decimal.RequireFromString(rate)}
}

func TestValidateSchedule(t *testing.T) {
	cases := []struct {
		name  string
		slabs []TariffSlab
		err   error
	}{
		{"empty", nil, nil},
		{"zero based", []TariffSlab{slab(0, 100, "4"), slab(101, OpenEndedUnitTo, "6")}, nil},
		{"one based", []TariffSlab{slab(1, 100, "4"), slab(101, 200, "6")}, nil},
		{"unordered input", []TariffSlab{slab(101, 200, "7"), slab(0, 100, "5")}, nil},
		{"late start", []TariffSlab{slab(10, 100, "4")}, ErrScheduleStart},
		{"gap", []TariffSlab{slab(0, 100, "4"), slab(150, 200, "6")}, ErrScheduleGap},
		{"overlap", []TariffSlab{slab(0, 100, "4"), slab(100, 200, "6")}, ErrScheduleOverlap},
		{"open ended in middle", []TariffSlab{slab(0, OpenEndedUnitTo, "4"), slab(OpenEndedUnitTo, OpenEndedUnitTo, "6")}, ErrOpenEndedNotLast},
		{"bad rate", []TariffSlab{slab(0, 100, "0")}, ErrInvalidRate},
		{"inverted", []TariffSlab{slab(0, 100, "4"), slab(101, 50, "6")}, ErrInvalidUnitTo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateSchedule(tc.slabs), tc.err)
		})
	}
}

func TestValidateSlabBounds(t *testing.T) {
	assert.NoError(t, ValidateSlab(slab(0, OpenEndedUnitTo, "4")))
	assert.ErrorIs(t, ValidateSlab(slab(0, 20000, "4")), ErrInvalidUnitTo)
	assert.ErrorIs(t, ValidateSlab(slab(0, OpenEndedUnitTo+1, "4")), ErrInvalidUnitTo)
	assert.ErrorIs(t, ValidateSlab(slab(-1, 100, "4")), ErrInvalidUnitFrom)
}

func TestValidateSlabRateScale(t *testing.T) {
	assert.NoError(t, ValidateSlab(slab(0, 100, "4.1234")))
	assert.NoError(t, ValidateSlab(slab(0, 100, "4.10000")))
	assert.ErrorIs(t, ValidateSlab(slab(0, 100, "4.12345")), ErrInvalidRate)
	assert.ErrorIs(t, ValidateSlab(slab(0, 100, "0.00001")), ErrInvalidRate)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "0-100", slab(0, 100, "4").Label())
	assert.Equal(t, "Above 101", slab(101, OpenEndedUnitTo, "6").Label())
	assert.Equal(t, int64(100), slab(0, 100, "4").Width())
	assert.Equal(t, int64(100), slab(101, 200, "4").Width())
}

func TestParseTariffType(t *testing.T) {
	got, err := ParseTariffType("commercial")
	assert.NoError(t, err)
	assert.Equal(t, TariffCommercial, got)

	_, err = ParseTariffType("agricultural")
	assert.ErrorIs(t, err, ErrInvalidTariffType)
}
