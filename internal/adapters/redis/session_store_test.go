package redis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snmtc/parts-web/internal/adapters/clientid"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client, cleanup := testutil.SetupTestRedis(t)
	t.Cleanup(cleanup)
	return client
}

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{})
	ctx := context.Background()

	w := httptest.NewRecorder()
	err := store.Save(ctx, w, requestWith(), domainauth.Values{domainauth.FlagKey: domainauth.FlagTrue})
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, clientid.DefaultCookieName, cookies[0].Name)

	values, err := store.Load(ctx, requestWith(cookies...))
	require.NoError(t, err)
	assert.True(t, values.Authenticated())

	keys, err := store.Keys(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultPrefix + cookies[0].Value}, keys)
}

func TestSessionStore_LoadWithoutClientID(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{})

	values, err := store.Load(context.Background(), requestWith())
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSessionStore_LoadUnknownClientID(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{})

	r := requestWith(&http.Cookie{Name: clientid.DefaultCookieName, Value: "5b1d0f7e-9a3c-4d7e-8a51-0f0e4b2f6c11"})
	values, err := store.Load(context.Background(), r)
	require.NoError(t, err)
	assert.False(t, values.Authenticated())
}

func TestSessionStore_ClearRemovesEverything(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{Prefix: "test:session:"})
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, store.Save(ctx, w, requestWith(), domainauth.Values{
		domainauth.FlagKey: domainauth.FlagTrue,
		"theme":            "dark",
	}))
	cookies := w.Result().Cookies()

	cw := httptest.NewRecorder()
	require.NoError(t, store.Clear(ctx, cw, requestWith(cookies...)))

	expired := cw.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Equal(t, -1, expired[0].MaxAge)

	values, err := store.Load(ctx, requestWith(cookies...))
	require.NoError(t, err)
	assert.Empty(t, values)

	n, err := client.Exists(ctx, "test:session:"+cookies[0].Value).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionStore_TTL(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{TTL: time.Minute})
	ctx := context.Background()

	w := httptest.NewRecorder()
	require.NoError(t, store.Save(ctx, w, requestWith(), domainauth.Values{domainauth.FlagKey: domainauth.FlagTrue}))

	ttl, err := client.TTL(ctx, DefaultPrefix+w.Result().Cookies()[0].Value).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestSessionStore_DeleteAll(t *testing.T) {
	client := setupTestRedis(t)
	store := NewSessionStore(client, SessionStoreOptions{})
	ctx := context.Background()

	for range 3 {
		require.NoError(t, store.Save(ctx, httptest.NewRecorder(), requestWith(), domainauth.Values{domainauth.FlagKey: domainauth.FlagTrue}))
	}
	require.NoError(t, client.Set(ctx, "unrelated", "x", 0).Err())

	limited, err := store.Keys(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys, err := store.Keys(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, keys)

	v, err := client.Get(ctx, "unrelated").Result()
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}
