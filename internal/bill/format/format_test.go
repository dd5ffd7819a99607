package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBillNumber(t *testing.T) {
	paidAt := time.Date(2024, time.March, 7, 23, 30, 0, 0, time.UTC)

	cases := []struct {
		template string
		seq      int64
		want     string
	}{
		{DefaultBillNumberTemplate, 1, "EB-202403-000001"},
		{DefaultBillNumberTemplate, 1234567, "EB-202403-1234567"},
		{"{YY}{MM}{DD}/{SEQ}", 42, "240307/42"},
		{"BILL-{SEQ3}", 7, "BILL-007"},
	}
	for _, tc := range cases {
		got, err := FormatBillNumber(tc.template, paidAt, tc.seq)
		require.NoError(t, err, tc.template)
		assert.Equal(t, tc.want, got)
	}
}

func TestFormatBillNumberErrors(t *testing.T) {
	now := time.Now()

	_, err := FormatBillNumber("", now, 1)
	assert.Error(t, err)
	_, err = FormatBillNumber(DefaultBillNumberTemplate, now, 0)
	assert.Error(t, err)
	_, err = FormatBillNumber("EB-{QQ}-{SEQ}", now, 1)
	assert.Error(t, err)
}

func TestSequencePeriodUsesUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, time.April, 1, 2, 0, 0, 0, ist)
	assert.Equal(t, "202403", SequencePeriod(at))
}
