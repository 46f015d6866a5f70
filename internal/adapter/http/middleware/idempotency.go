package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"bank-simulator/internal/adapter/http/dto"
	"bank-simulator/internal/core/ports"
	"bank-simulator/pkg/apperror"
	"bank-simulator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// idempotencyRecord is what the cache holds per key. A pending record marks a
// request that is still being processed.
type idempotencyRecord struct {
	Pending     bool   `json:"pending,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes POST requests carrying an Idempotency-Key header safe to
// retry. The first request is processed and its response stored for ttl;
// repeats with the same body get the stored response, repeats with a different
// body are rejected. 5xx responses are not stored so the caller can retry.
//
// Cache failures before processing let the request through unguarded. A
// handler panic releases the key before the panic continues to Recovery.
func Idempotency(cache ports.IdempotencyCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if !dto.ValidIdempotencyKey(key) {
			c.Set(CtxIdemRejected, true)
			response.Error(c, apperror.Validation("Idempotency-Key must be 1-128 characters of letters, digits, '.', '_' or '-'"))
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, apperror.ErrPayloadTooLarge())
			} else {
				response.Error(c, apperror.Validation("cannot read request body"))
			}
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		cacheKey := c.Request.Method + ":" + c.Request.URL.Path + ":" + key
		fp := fingerprint(body)

		pending, _ := json.Marshal(idempotencyRecord{Pending: true, Fingerprint: fp})
		reserved, err := cache.SetIfAbsent(ctx, cacheKey, pending, ttl)
		if err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("idempotency reservation failed, processing without it")
			c.Next()
			return
		}

		if !reserved {
			replay(c, cache, cacheKey, fp, log)
			return
		}

		// The outcome is persisted even if the client has gone away.
		ctx = context.WithoutCancel(ctx)
		defer func() {
			if r := recover(); r != nil {
				release(ctx, cache, cacheKey, log)
				panic(r)
			}
		}()

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			release(ctx, cache, cacheKey, log)
			return
		}

		final, _ := json.Marshal(idempotencyRecord{Fingerprint: fp, Status: status, Body: rec.body.Bytes()})
		if err := cache.Set(ctx, cacheKey, final, ttl); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to store idempotent response")
		}
	}
}

func release(ctx context.Context, cache ports.IdempotencyCache, cacheKey string, log zerolog.Logger) {
	if err := cache.Delete(ctx, cacheKey); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to release idempotency key")
	}
}

func replay(c *gin.Context, cache ports.IdempotencyCache, cacheKey, fp string, log zerolog.Logger) {
	raw, err := cache.Get(c.Request.Context(), cacheKey)
	if err != nil {
		log.Error().Err(err).Str("key", cacheKey).Msg("idempotency lookup failed")
		response.Error(c, apperror.InternalError(err))
		c.Abort()
		return
	}
	if raw == nil {
		// Expired between the reservation attempt and the lookup.
		c.Next()
		return
	}

	var stored idempotencyRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Error().Err(err).Str("key", cacheKey).Msg("corrupt idempotency record")
		response.Error(c, apperror.InternalError(err))
		c.Abort()
		return
	}

	switch {
	case stored.Fingerprint != fp:
		c.Set(CtxIdemRejected, true)
		response.Error(c, apperror.ErrIdempotencyMismatch())
	case stored.Pending:
		c.Set(CtxIdemRejected, true)
		response.Error(c, apperror.ErrIdempotencyInProgress())
	default:
		c.Set(CtxReplayed, true)
		c.Header(HeaderReplayed, "true")
		c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
	}
	c.Abort()
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// bodyRecorder copies everything written to the client.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
