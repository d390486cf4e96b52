package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const HeaderIdempotencyKey = "X-Idempotency-Key"

// CheckIdempotentRequest makes POST requests replayable by X-Idempotency-Key. A finished
// request is answered from cache, a request still in flight gets 409, and a failed request
// releases its key so the client can retry.
func (m *AppMiddleware) CheckIdempotentRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodPost {
				return next(c)
			}

			key := req.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return commonhttp.RestErrorResponse(c, http.StatusBadRequest, common.ErrMissingIdempotencyKey)
			}

			// detached so the cache write survives a client that hung up
			ctx := context.WithoutCancel(req.Context())
			body := readRequestBody(c)

			idm, err := m.getOrCreateIdempotency(ctx, models.IdempotencyCacheKey(req.URL.Path, key), body)
			switch {
			case errors.Is(err, common.ErrInvalidFingerprint):
				return commonhttp.RestErrorResponse(c, http.StatusUnprocessableEntity, err)
			case errors.Is(err, common.ErrRequestBeingProcessed):
				return commonhttp.RestErrorResponse(c, http.StatusConflict, err)
			case err != nil:
				return commonhttp.RestErrorResponse(c, http.StatusInternalServerError, err)
			}

			if idm.Finished() {
				for k, v := range idm.ResponseHeaders {
					c.Response().Header().Set(k, v)
				}
				return c.Blob(idm.HTTPStatusCode, c.Response().Header().Get(echo.HeaderContentType), []byte(idm.ResponseBody))
			}

			resBody := teeResponse(c)
			if err = next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				if errRelease := m.releaseLock(ctx, idm); errRelease != nil {
					log.Warn(ctx, "failed to release idempotency key", log.String("key", key), log.Err(errRelease))
				}
				return nil
			}

			headers := make(map[string]string)
			for k, v := range c.Response().Header() {
				if len(v) > 0 {
					headers[k] = v[len(v)-1]
				}
			}
			idm.SetResponse(status, headers, resBody.String())

			if errSave := m.saveResponseToCache(ctx, idm); errSave != nil {
				log.Error(ctx, "failed to save idempotent response", log.String("key", key), log.Err(errSave))
			}

			return nil
		}
	}
}

// getOrCreateIdempotency returns the cached state of the key, or locks the key with a new
// pending state when nothing is cached.
func (m *AppMiddleware) getOrCreateIdempotency(ctx context.Context, cacheKey string, requestBody []byte) (*models.Idempotency, error) {
	idm := models.NewIdempotency(cacheKey, requestBody)

	cached, err := m.cacheRepo.Get(ctx, idm.CacheKey)
	if errors.Is(err, common.ErrDataNotFound) {
		if err = m.createLock(ctx, idm); err != nil {
			return nil, err
		}
		return idm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency data: %w", err)
	}

	var cachedIdm models.Idempotency
	if err = json.Unmarshal([]byte(cached), &cachedIdm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency data: %w", err)
	}

	if cachedIdm.Fingerprint != idm.Fingerprint {
		return nil, common.ErrInvalidFingerprint
	}

	if !cachedIdm.Finished() {
		return nil, common.ErrRequestBeingProcessed
	}

	return &cachedIdm, nil
}

func (m *AppMiddleware) saveResponseToCache(ctx context.Context, idm *models.Idempotency) error {
	b, err := json.Marshal(idm)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency data: %w", err)
	}

	if err = m.cacheRepo.Set(ctx, idm.CacheKey, string(b), models.TTLIdempotency); err != nil {
		return fmt.Errorf("failed to save idempotency data: %w", err)
	}

	return nil
}

func (m *AppMiddleware) createLock(ctx context.Context, idm *models.Idempotency) error {
	b, err := json.Marshal(idm)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency data: %w", err)
	}

	set, err := m.cacheRepo.SetIfNotExists(ctx, idm.CacheKey, string(b), models.TTLIdempotency)
	if err != nil {
		return fmt.Errorf("failed to save idempotency data: %w", err)
	}

	// another request with the same key won the race
	if !set {
		return common.ErrRequestBeingProcessed
	}

	return nil
}

func (m *AppMiddleware) releaseLock(ctx context.Context, idm *models.Idempotency) error {
	if err := m.cacheRepo.Del(ctx, idm.CacheKey); err != nil {
		return fmt.Errorf("failed to release idempotency data: %w", err)
	}
	return nil
}
