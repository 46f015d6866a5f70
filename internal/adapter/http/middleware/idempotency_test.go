package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank-simulator/internal/adapter/storage/memory"
	"bank-simulator/internal/core/ports/mocks"
	"bank-simulator/pkg/apperror"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingHandler struct {
	calls  int
	status int
}

func (h *countingHandler) handle(c *gin.Context) {
	h.calls++
	if h.status >= http.StatusBadRequest {
		response.Error(c, apperror.New("TEST_001", "failed", h.status))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"call": h.calls})
}

func newIdempotencyRouter(cache *memory.IdempotencyCache, h *countingHandler) *gin.Engine {
	r := gin.New()
	r.Use(Idempotency(cache, time.Hour, zerolog.Nop()))
	r.POST("/api/v1/accounts/:number/deposit", h.handle)
	r.GET("/api/v1/accounts/:number", h.handle)
	return r
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/1/deposit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	h := &countingHandler{}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	first := postWithKey(r, "dep-1", `{"amount":"10"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(HeaderReplayed))

	second := postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_DifferentKeysProcessed(t *testing.T) {
	h := &countingHandler{}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	postWithKey(r, "dep-1", `{"amount":"10"}`)
	postWithKey(r, "dep-2", `{"amount":"10"}`)

	assert.Equal(t, 2, h.calls)
}

func TestIdempotency_NoKeyAlwaysProcessed(t *testing.T) {
	h := &countingHandler{}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	postWithKey(r, "", `{"amount":"10"}`)
	postWithKey(r, "", `{"amount":"10"}`)

	assert.Equal(t, 2, h.calls)
}

func TestIdempotency_GETIgnored(t *testing.T) {
	h := &countingHandler{}
	cache := memory.NewIdempotencyCache(time.Minute)
	r := newIdempotencyRouter(cache, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1", nil)
	req.Header.Set(HeaderIdempotencyKey, "read-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, h.calls)
	assert.Equal(t, 0, cache.Len())
}

func TestIdempotency_BodyMismatch(t *testing.T) {
	h := &countingHandler{}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	postWithKey(r, "dep-1", `{"amount":"10"}`)
	w := postWithKey(r, "dep-1", `{"amount":"99"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "REQ_003", decodeError(t, w).ErrorCode)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_InProgress(t *testing.T) {
	h := &countingHandler{}
	cache := memory.NewIdempotencyCache(time.Minute)
	r := newIdempotencyRouter(cache, h)

	body := `{"amount":"10"}`
	pending, err := json.Marshal(idempotencyRecord{Pending: true, Fingerprint: fingerprint([]byte(body))})
	require.NoError(t, err)
	_, err = cache.SetIfAbsent(context.Background(), "POST:/api/v1/accounts/1/deposit:dep-1", pending, time.Hour)
	require.NoError(t, err)

	w := postWithKey(r, "dep-1", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REQ_002", decodeError(t, w).ErrorCode)
	assert.Equal(t, 0, h.calls)
}

func TestIdempotency_ClientErrorsAreReplayed(t *testing.T) {
	h := &countingHandler{status: http.StatusUnprocessableEntity}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	first := postWithKey(r, "dep-1", `{"amount":"10"}`)
	second := postWithKey(r, "dep-1", `{"amount":"10"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	h := &countingHandler{status: http.StatusInternalServerError}
	cache := memory.NewIdempotencyCache(time.Minute)
	r := newIdempotencyRouter(cache, h)

	postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, 0, cache.Len())

	h.status = 0
	w := postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 2, h.calls)
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	cache := memory.NewIdempotencyCache(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Recovery(zerolog.Nop()), Idempotency(cache, time.Hour, zerolog.Nop()))
	r.POST("/api/v1/accounts/:number/deposit", func(c *gin.Context) {
		calls++
		if calls == 1 {
			panic("ledger exploded")
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	first := postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, "SYS_001", decodeError(t, first).ErrorCode)
	assert.Equal(t, 0, cache.Len())

	second := postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get(HeaderReplayed))
	assert.Equal(t, 2, calls)

	third := postWithKey(r, "dep-1", `{"amount":"10"}`)
	assert.Equal(t, "true", third.Header().Get(HeaderReplayed))
	assert.Equal(t, 2, calls)
}

func TestIdempotency_InvalidKey(t *testing.T) {
	h := &countingHandler{}
	r := newIdempotencyRouter(memory.NewIdempotencyCache(time.Minute), h)

	w := postWithKey(r, "bad key!", `{"amount":"10"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REQ_001", decodeError(t, w).ErrorCode)
	assert.Equal(t, 0, h.calls)
}

func TestIdempotency_CacheDownProcessesRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockIdempotencyCache(ctrl)
	cache.EXPECT().
		SetIfAbsent(gomock.Any(), gomock.Any(), gomock.Any(), time.Hour).
		Return(false, errors.New("connection refused"))

	h := &countingHandler{}
	r := gin.New()
	r.Use(Idempotency(cache, time.Hour, zerolog.Nop()))
	r.POST("/api/v1/accounts/:number/deposit", h.handle)

	w := postWithKey(r, "dep-1", `{"amount":"10"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_LookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockIdempotencyCache(ctrl)
	cache.EXPECT().SetIfAbsent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	h := &countingHandler{}
	r := gin.New()
	r.Use(Idempotency(cache, time.Hour, zerolog.Nop()))
	r.POST("/api/v1/accounts/:number/deposit", h.handle)

	w := postWithKey(r, "dep-1", `{"amount":"10"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, h.calls)
}
