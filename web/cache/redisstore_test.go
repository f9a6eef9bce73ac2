package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "vocabnest"

func newStore(t *testing.T) *RedisStore {
	t.Helper()
	startEmbedded(t)
	return NewRedisStore(GetClient(), []byte("0123456789abcdef0123456789abcdef"))
}

func saveNew(t *testing.T, store *RedisStore, values map[any]any) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s, err := store.Get(req, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	for k, v := range values {
		s.Values[k] = v
	}
	require.NoError(t, store.Save(req, rec, s))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestStoreRoundTrip(t *testing.T) {
	store := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user": "u-1"})

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s, err := store.Get(req, cookieName)
	require.NoError(t, err)
	assert.False(t, s.IsNew)
	assert.Equal(t, "u-1", s.Values["user"])

	keys, err := GetClient().Keys(ctx, keyPrefix+"*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestStoreRejectsTamperedCookie(t *testing.T) {
	store := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user": "u-1"})

	cookie.Value = cookie.Value[:len(cookie.Value)-2] + "xx"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s, err := store.Get(req, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.ID)
	assert.Empty(t, s.Values)
}

func TestStoreDeleteWithNegativeMaxAge(t *testing.T) {
	store := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user": "u-1"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s, err := store.Get(req, cookieName)
	require.NoError(t, err)
	s.Options.MaxAge = -1
	require.NoError(t, store.Save(req, rec, s))

	expired := rec.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Empty(t, expired[0].Value)

	// the old cookie no longer resolves
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s, err = store.Get(req, cookieName)
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Empty(t, s.Values)
}

func TestStoreRegenerateIssuesNewID(t *testing.T) {
	store := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user": "u-1"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s, err := store.Get(req, cookieName)
	require.NoError(t, err)
	oldID := s.ID

	require.NoError(t, store.Regenerate(req, cookieName))
	require.NoError(t, store.Save(req, rec, s))
	assert.NotEqual(t, oldID, s.ID)

	n, err := GetClient().Exists(ctx, keyPrefix+oldID).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreSaveFailsWhenRedisDown(t *testing.T) {
	store := newStore(t)
	cookie := saveNew(t, store, map[any]any{"user": "u-1"})
	require.NoError(t, Close())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s, err := store.Get(req, cookieName)
	assert.Error(t, err)
	require.NotNil(t, s)
	assert.Empty(t, s.Values)
	assert.NotEmpty(t, s.ID)

	s.Options.MaxAge = -1
	assert.Error(t, store.Save(req, rec, s))
	assert.Error(t, store.Regenerate(req, cookieName))
}

func TestStoreOptionsApplyToNewSessions(t *testing.T) {
	store := newStore(t)
	store.Options(sessions.Options{Path: "/", MaxAge: 600, Secure: true, HttpOnly: true})

	cookie := saveNew(t, store, map[any]any{"user": "u-1"})
	assert.Equal(t, 600, cookie.MaxAge)
	assert.True(t, cookie.Secure)

	keys, err := GetClient().Keys(ctx, keyPrefix+"*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	ttl, err := GetClient().TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl.Seconds() <= 600)
}
