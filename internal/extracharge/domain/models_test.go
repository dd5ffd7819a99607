package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalTreatsNullAsZero(t *testing.T) {
	charge := ExtraCharge{
		FixedCharge: decimal.NewNullDecimal(decimal.NewFromInt(50)),
		MeterRent:   decimal.NewNullDecimal(decimal.NewFromInt(20)),
		FuelCharge:  decimal.NewNullDecimal(decimal.RequireFromString("15.25")),
	}
	assert.True(t, charge.Total().Equal(decimal.RequireFromString("85.25")))
	assert.True(t, ExtraCharge{}.Total().IsZero())
	assert.Len(t, charge.Components(), 4)
}
