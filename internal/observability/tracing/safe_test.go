package tracing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsSensitiveKeys(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/bills"),
		attribute.String("email", "a@b.c"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorFlattens(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("verify: %w", base)
	safe := SafeError(wrapped)
	assert.EqualError(t, safe, "verify: boom")
	assert.False(t, errors.Is(safe, base))
	assert.Nil(t, SafeError(nil))
}
