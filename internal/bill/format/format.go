package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const DefaultBillNumberTemplate = "EB-{YYYY}{MM}-{SEQ6}"

// SequencePeriod is the counter a bill paid at t draws its number from.
func SequencePeriod(t time.Time) string {
	return t.UTC().Format("200601")
}

// FormatBillNumber renders a bill number from a template, the payment time and
// the month's sequence value. Supported tokens: {YYYY} {YY} {MM} {DD} {SEQ} {SEQn}.
func FormatBillNumber(template string, paidAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("bill number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid bill sequence: %d", seq)
	}

	at := paidAt.UTC()
	out := template
	out = strings.ReplaceAll(out, "{YYYY}", at.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", at.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", at.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", at.Format("02"))
	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 || width > 18 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.ContainsAny(out, "{}") {
		return "", fmt.Errorf("unresolved token in bill number format: %s", out)
	}
	return out, nil
}
