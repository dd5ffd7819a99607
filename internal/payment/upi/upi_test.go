package upi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentURI(t *testing.T) {
	uri, err := Intent{
		PayeeVPA:  "electricity@upi",
		PayeeName: "Electricity Board",
		Amount:    decimal.RequireFromString("895"),
		Note:      "Bill 2024-03",
		Reference: "4f6c0d3e",
	}.URI()
	require.NoError(t, err)
	assert.Equal(t,
		"upi://pay?pa=electricity%40upi&pn=Electricity%20Board&am=895.00&tn=Bill%202024-03&tr=4f6c0d3e&cu=INR",
		uri,
	)
}

func TestIntentURIRejectsIncompleteIntent(t *testing.T) {
	_, err := Intent{Amount: decimal.NewFromInt(1)}.URI()
	assert.Error(t, err)

	_, err = Intent{PayeeVPA: "a@upi", Amount: decimal.Zero}.URI()
	assert.Error(t, err)
}
