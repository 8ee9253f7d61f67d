package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Equal(t, ctx, SetRequestIDInContext(ctx, ""))

	ctx = SetRequestIDInContext(ctx, "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestAuthenticatedContext(t *testing.T) {
	_, ok := IsAuthenticatedFromContext(context.Background())
	assert.False(t, ok)

	v, ok := IsAuthenticatedFromContext(SetAuthenticatedInContext(context.Background(), false))
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = IsAuthenticatedFromContext(SetAuthenticatedInContext(context.Background(), true))
	assert.True(t, ok)
	assert.True(t, v)
}
