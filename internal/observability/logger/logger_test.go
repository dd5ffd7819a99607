package logger

import (
	"context"
	"testing"

	"github.com/smallbiznis/gridbill/internal/authctx"
	obscontext "github.com/smallbiznis/gridbill/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = authctx.WithPrincipal(ctx, authctx.Principal{Role: authctx.RoleStaff, StaffID: 7})

	WithContext(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "staff", fields["actor_type"])
	assert.Equal(t, "7", fields["actor_id"])
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "console", normalizeFormat(" Console "))
	assert.Equal(t, "json", normalizeFormat("xml"))
}
