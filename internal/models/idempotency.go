package models

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	IdempotencyStatusProcessFinished = "finished"
	IdempotencyStatusProcessPending  = "pending"

	TTLIdempotency = 24 * time.Hour
)

// Idempotency is the cached state of one X-Idempotency-Key. The fingerprint is a hash of the
// request body, so a key cannot be replayed with a different payload.
type Idempotency struct {
	CacheKey      string `json:"cacheKey"`
	StatusProcess string `json:"status"`
	Fingerprint   string `json:"fingerprint"`

	HTTPStatusCode  int               `json:"httpStatusCode"`
	ResponseBody    string            `json:"responseBody"`
	ResponseHeaders map[string]string `json:"responseHeaders"`
}

func IdempotencyCacheKey(route, key string) string {
	return fmt.Sprintf("agency-ledger:idempotency:%s:%s", route, key)
}

func NewIdempotency(cacheKey string, requestBody []byte) *Idempotency {
	fingerprint := sha1.Sum(requestBody)

	return &Idempotency{
		CacheKey:      cacheKey,
		StatusProcess: IdempotencyStatusProcessPending,
		Fingerprint:   hex.EncodeToString(fingerprint[:]),
	}
}

func (i *Idempotency) Finished() bool {
	return i.StatusProcess == IdempotencyStatusProcessFinished
}

func (i *Idempotency) SetResponse(httpStatusCode int, responseHeaders map[string]string, responseBody string) {
	i.HTTPStatusCode = httpStatusCode
	i.ResponseHeaders = responseHeaders
	i.ResponseBody = responseBody
	i.StatusProcess = IdempotencyStatusProcessFinished
}
