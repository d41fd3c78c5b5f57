package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/fastfood/internal/idempotency"
	"github.com/mmeshcher/fastfood/internal/model"
)

type brokenGuard struct{}

func (brokenGuard) Claim(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (brokenGuard) Release(context.Context, string) error { return nil }

func newGuard(t *testing.T) (*idempotency.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return idempotency.NewRedisStore(rdb, time.Hour), mr
}

func serve(h http.Handler, key string, p *model.Principal) int {
	r := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	if key != "" {
		r.Header.Set(IdempotencyHeader, key)
	}
	if p != nil {
		r = r.WithContext(WithPrincipal(r.Context(), *p))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w.Code
}

func TestIdempotency_ReplayIsConflict(t *testing.T) {
	guard, mr := newGuard(t)
	calls := 0
	h := Idempotency(guard, "orders", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	alice := &model.Principal{ID: "alice", Role: model.RoleCustomer}
	bob := &model.Principal{ID: "bob", Role: model.RoleCustomer}

	assert.Equal(t, http.StatusCreated, serve(h, "k1", alice))
	assert.Equal(t, http.StatusConflict, serve(h, "k1", alice))
	assert.Equal(t, http.StatusCreated, serve(h, "k1", bob), "keys are scoped per user")
	assert.Equal(t, http.StatusCreated, serve(h, "", alice))
	assert.Equal(t, http.StatusCreated, serve(h, "", alice))
	assert.Equal(t, 4, calls)

	assert.True(t, mr.Exists(idempotency.Key("orders", "alice", "k1")))
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	guard, mr := newGuard(t)
	status := http.StatusBadRequest
	h := Idempotency(guard, "orders", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	alice := &model.Principal{ID: "alice", Role: model.RoleCustomer}

	require.Equal(t, http.StatusBadRequest, serve(h, "k1", alice))
	assert.False(t, mr.Exists(idempotency.Key("orders", "alice", "k1")))

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, serve(h, "k1", alice))
	assert.Equal(t, http.StatusConflict, serve(h, "k1", alice))
}

func TestIdempotency_FailsOpen(t *testing.T) {
	h := Idempotency(brokenGuard{}, "orders", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	alice := &model.Principal{ID: "alice", Role: model.RoleCustomer}

	assert.Equal(t, http.StatusCreated, serve(h, "k1", alice))
	assert.Equal(t, http.StatusCreated, serve(h, "k1", alice))
}

func TestIdempotency_NilGuard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h := Idempotency(nil, "orders", zap.NewNop())(next)
	assert.Equal(t, http.StatusCreated, serve(h, "k1", &model.Principal{ID: "a", Role: model.RoleCustomer}))
}

func TestIdempotency_DuplicateWhileFirstInFlight(t *testing.T) {
	guard, _ := newGuard(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	h := Idempotency(guard, "orders", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	alice := &model.Principal{ID: "alice", Role: model.RoleCustomer}

	first := make(chan int, 1)
	go func() { first <- serve(h, "k1", alice) }()
	<-entered

	r := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	r.Header.Set(IdempotencyHeader, "k1")
	r = r.WithContext(WithPrincipal(r.Context(), *alice))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	close(release)
	assert.Equal(t, http.StatusCreated, <-first)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeConflict, body.Code)
	assert.Equal(t, "A request with this Idempotency-Key has already been received", body.Message)
	assert.Empty(t, body.Fields)
}
