package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeProvider_Lifecycle(t *testing.T) {
	p := NewFakeProvider("")
	r := httptest.NewRequest("GET", "/admin", nil)
	ctx := context.Background()

	assert.False(t, p.IsAuthenticated(r))

	require.NoError(t, p.SetAuthenticated(ctx, httptest.NewRecorder(), r))
	assert.True(t, p.IsAuthenticated(r))
	assert.Equal(t, 1, p.SetCalls)

	require.NoError(t, p.ClearAuthenticated(ctx, httptest.NewRecorder(), r))
	assert.False(t, p.IsAuthenticated(r))
	assert.Empty(t, p.Values())
}

func TestFakeProvider_RawValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.True(t, NewFakeProvider(domainauth.FlagTrue).IsAuthenticated(r))
	assert.False(t, NewFakeProvider("false").IsAuthenticated(r))
	assert.False(t, NewFakeProvider("TRUE").IsAuthenticated(r))
}

func TestFakeProvider_Errors(t *testing.T) {
	p := NewFakeProvider("true")
	p.ClearErr = errors.New("boom")
	r := httptest.NewRequest("GET", "/", nil)

	require.Error(t, p.ClearAuthenticated(context.Background(), httptest.NewRecorder(), r))
	assert.True(t, p.IsAuthenticated(r))
}

func TestFailingBackend(t *testing.T) {
	b := FailingBackend{Err: errors.New("down")}
	v, err := b.Load(context.Background(), httptest.NewRequest("GET", "/", nil))
	require.Error(t, err)
	assert.Empty(t, v)
}
