package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/common/http/middleware"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/repositories/mock"
)

func TestMain(m *testing.M) {
	log.InitForTest()
	os.Exit(m.Run())
}

type middlewareTestHelper struct {
	mockCacheRepository *mock.MockCacheRepository
	e                   *echo.Echo
	calls               *int
}

func newMiddlewareTestHelper(t *testing.T, status int) middlewareTestHelper {
	t.Helper()

	ctrl := gomock.NewController(t)
	cacheRepo := mock.NewMockCacheRepository(ctrl)
	m := middleware.NewMiddleware(config.Config{SecretKey: "s3cret"}, cacheRepo)

	calls := 0
	e := echo.New()
	api := e.Group("/api/v1", m.Context(), m.Logger(), m.InternalAuth(), m.CheckIdempotentRequest())
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(status, map[string]any{"call": calls, "requestId": log.CorrelationID(c.Request().Context())})
	}
	api.POST("/payouts", handler)
	api.GET("/payouts", handler)

	return middlewareTestHelper{mockCacheRepository: cacheRepo, e: e, calls: &calls}
}

func (h middlewareTestHelper) do(method, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/payouts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func TestInternalAuth(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing", wantStatus: http.StatusUnauthorized, wantBody: "required secret key"},
		{name: "wrong", secret: "nope", wantStatus: http.StatusUnauthorized, wantBody: "invalid secret key"},
		{name: "valid", secret: "s3cret", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newMiddlewareTestHelper(t, http.StatusOK)

			rec := h.do(http.MethodGet, "", map[string]string{"X-Secret-Key": tc.secret})
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}

func TestContext_CorrelationID(t *testing.T) {
	h := newMiddlewareTestHelper(t, http.StatusOK)

	rec := h.do(http.MethodGet, "", map[string]string{"X-Secret-Key": "s3cret", echo.HeaderXRequestID: "req-42"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"call":1,"requestId":"req-42"}`, rec.Body.String())
}

func TestCheckIdempotentRequest(t *testing.T) {
	const body = `{"userId":"U","currency":"BDT","amount":"10"}`
	cacheKey := models.IdempotencyCacheKey("/api/v1/payouts", "key-1")
	auth := map[string]string{"X-Secret-Key": "s3cret", middleware.HeaderIdempotencyKey: "key-1"}

	finished := models.NewIdempotency(cacheKey, []byte(body))
	finished.SetResponse(http.StatusCreated, map[string]string{echo.HeaderContentType: echo.MIMEApplicationJSON}, `{"call":7}`)
	finishedJSON, _ := json.Marshal(finished)

	pending, _ := json.Marshal(models.NewIdempotency(cacheKey, []byte(body)))

	tests := []struct {
		name       string
		status     int
		body       string
		headers    map[string]string
		doMock     func(h middlewareTestHelper)
		wantStatus int
		wantBody   string
		wantCalls  int
	}{
		{
			name:       "missing key",
			status:     http.StatusCreated,
			body:       body,
			headers:    map[string]string{"X-Secret-Key": "s3cret"},
			doMock:     func(h middlewareTestHelper) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   common.ErrMissingIdempotencyKey.Error(),
		},
		{
			name:    "first request is processed and cached",
			status:  http.StatusCreated,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return("", common.ErrDataNotFound)
				h.mockCacheRepository.EXPECT().SetIfNotExists(gomock.Any(), cacheKey, gomock.Any(), models.TTLIdempotency).Return(true, nil)
				h.mockCacheRepository.EXPECT().Set(gomock.Any(), cacheKey, gomock.Any(), models.TTLIdempotency).
					DoAndReturn(func(_ context.Context, _ string, value any, _ any) error {
						var idm models.Idempotency
						require.NoError(t, json.Unmarshal([]byte(value.(string)), &idm))
						assert.True(t, idm.Finished())
						assert.Equal(t, http.StatusCreated, idm.HTTPStatusCode)
						assert.Contains(t, idm.ResponseBody, `"call":1`)
						return nil
					})
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"call":1`,
			wantCalls:  1,
		},
		{
			name:    "finished request is replayed",
			status:  http.StatusCreated,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return(string(finishedJSON), nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"call":7}`,
		},
		{
			name:    "different payload with the same key",
			status:  http.StatusCreated,
			body:    `{"userId":"U","currency":"BDT","amount":"11"}`,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return(string(finishedJSON), nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   common.ErrInvalidFingerprint.Error(),
		},
		{
			name:    "request still in flight",
			status:  http.StatusCreated,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return(string(pending), nil)
			},
			wantStatus: http.StatusConflict,
			wantBody:   common.ErrRequestBeingProcessed.Error(),
		},
		{
			name:    "lost the lock race",
			status:  http.StatusCreated,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return("", common.ErrDataNotFound)
				h.mockCacheRepository.EXPECT().SetIfNotExists(gomock.Any(), cacheKey, gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:    "failed request releases the key",
			status:  http.StatusConflict,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return("", common.ErrDataNotFound)
				h.mockCacheRepository.EXPECT().SetIfNotExists(gomock.Any(), cacheKey, gomock.Any(), gomock.Any()).Return(true, nil)
				h.mockCacheRepository.EXPECT().Del(gomock.Any(), cacheKey).Return(nil)
			},
			wantStatus: http.StatusConflict,
			wantCalls:  1,
		},
		{
			name:    "cache unavailable",
			status:  http.StatusCreated,
			body:    body,
			headers: auth,
			doMock: func(h middlewareTestHelper) {
				h.mockCacheRepository.EXPECT().Get(gomock.Any(), cacheKey).Return("", assert.AnError)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newMiddlewareTestHelper(t, tc.status)
			tc.doMock(h)

			rec := h.do(http.MethodPost, tc.body, tc.headers)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
			assert.Equal(t, tc.wantCalls, *h.calls)
		})
	}
}

func TestCheckIdempotentRequest_SkipsGet(t *testing.T) {
	h := newMiddlewareTestHelper(t, http.StatusOK)

	rec := h.do(http.MethodGet, "", map[string]string{"X-Secret-Key": "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *h.calls)
}
