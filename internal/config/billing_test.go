package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBillingConfig(t *testing.T) {
	assert.NoError(t, ValidateBillingConfig(DefaultBillingConfig()))

	cfg := DefaultBillingConfig()
	cfg.DueDays = 0
	assert.Error(t, ValidateBillingConfig(cfg))

	cfg = DefaultBillingConfig()
	cfg.FineOverflowPolicy = "zero"
	assert.Error(t, ValidateBillingConfig(cfg))

	cfg = DefaultBillingConfig()
	cfg.BillNumberTemplate = "EB-{YYYY}"
	assert.Error(t, ValidateBillingConfig(cfg))
}

func TestNormalizeBillingConfig(t *testing.T) {
	cfg := normalizeBillingConfig(BillingConfig{FineOverflowPolicy: " Reject ", BillNumberTemplate: " EB-{SEQ} "})
	assert.Equal(t, FineOverflowReject, cfg.FineOverflowPolicy)
	assert.Equal(t, "EB-{SEQ}", cfg.BillNumberTemplate)
}

func TestStaticHolder(t *testing.T) {
	holder := NewStaticBillingConfigHolder(DefaultBillingConfig())
	assert.Equal(t, 15, holder.Get().DueDays)
	assert.False(t, holder.Get().FineGracePeriod)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092"))
	assert.Empty(t, splitList(""))
}
