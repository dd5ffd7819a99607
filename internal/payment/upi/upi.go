// Package upi builds UPI deep links ("intent URIs") for bill payments.
package upi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

type Intent struct {
	PayeeVPA  string
	PayeeName string
	Amount    decimal.Decimal
	Note      string
	Reference string
}

// URI renders the intent in the order payer apps expect. Values are
// percent-encoded with %20 for spaces.
func (i Intent) URI() (string, error) {
	if strings.TrimSpace(i.PayeeVPA) == "" {
		return "", fmt.Errorf("upi payee address is empty")
	}
	if !i.Amount.IsPositive() {
		return "", fmt.Errorf("upi amount must be positive")
	}

	params := []struct{ key, value string }{
		{"pa", i.PayeeVPA},
		{"pn", i.PayeeName},
		{"am", i.Amount.StringFixed(2)},
		{"tn", i.Note},
		{"tr", i.Reference},
		{"cu", "INR"},
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+escape(p.value))
	}
	return "upi://pay?" + strings.Join(parts, "&"), nil
}

func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
