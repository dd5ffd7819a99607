package authctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalRoundTrip(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{Subject: "c-1", Role: RoleCustomer, CustomerID: 42})
	p, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.True(t, p.IsCustomer())
	assert.Equal(t, "42", p.ActorID())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}
