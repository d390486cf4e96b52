package payout

import (
	"context"
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
	mockRepo "github.com/agencyhq/go-agency-ledger/internal/repositories/mock"
	"github.com/agencyhq/go-agency-ledger/internal/services/mock"
)

func TestMain(m *testing.M) {
	log.InitForTest()
	os.Exit(m.Run())
}

func Test_Handler_createPayout(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		idemKey      string
		doMock       func(svc *mock.MockPayoutService, cache *mockRepo.MockCacheRepository)
		wantCode     int
		wantContains []string
	}{
		{
			name:    "success",
			body:    `{"userId":"U","currency":"BDT","amount":"2000"}`,
			idemKey: "po-1",
			doMock: func(svc *mock.MockPayoutService, cache *mockRepo.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", common.ErrDataNotFound)
				cache.EXPECT().SetIfNotExists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req models.CreatePayoutRequest) (models.Payout, error) {
						assert.Equal(t, "U", req.UserID)
						assert.Equal(t, "2000", req.Amount.String())
						return models.Payout{
							Payment: models.Payment{ID: "pay-9", Kind: models.PaymentKindPayout},
							Balance: models.LedgerBalance{UserID: "U"},
						}, nil
					})
			},
			wantCode:     http.StatusCreated,
			wantContains: []string{`"kind":"PAYOUT"`, `"userId":"U"`},
		},
		{
			name: "missing idempotency key",
			body: `{"userId":"U","currency":"BDT","amount":"2000"}`,
			doMock: func(svc *mock.MockPayoutService, cache *mockRepo.MockCacheRepository) {
			},
			wantCode:     http.StatusBadRequest,
			wantContains: []string{common.ErrMissingIdempotencyKey.Error()},
		},
		{
			name:    "insufficient balance releases the key",
			body:    `{"userId":"U","currency":"USD","amount":"1"}`,
			idemKey: "po-2",
			doMock: func(svc *mock.MockPayoutService, cache *mockRepo.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", common.ErrDataNotFound)
				cache.EXPECT().SetIfNotExists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				cache.EXPECT().Del(gomock.Any(), gomock.Any()).Return(nil)
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Payout{}, common.ErrInsufficientBalance)
			},
			wantCode:     http.StatusConflict,
			wantContains: []string{`"code":"LDG4091"`},
		},
		{
			name:    "error validating request",
			body:    `{"currency":"EUR","amount":"-1"}`,
			idemKey: "po-3",
			doMock: func(svc *mock.MockPayoutService, cache *mockRepo.MockCacheRepository) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", common.ErrDataNotFound)
				cache.EXPECT().SetIfNotExists(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				cache.EXPECT().Del(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCode:     http.StatusUnprocessableEntity,
			wantContains: []string{`"code":"LDG4227"`, `"code":"LDG4224"`, `"code":"LDG4225"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			svc := mock.NewMockPayoutService(mockCtrl)
			cache := mockRepo.NewMockCacheRepository(mockCtrl)
			tt.doMock(svc, cache)

			conf := config.Config{}
			app := echo.New()
			New(app.Group("/api/v1"), svc, middleware.NewMiddleware(conf, cache))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payouts", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.idemKey != "" {
				req.Header.Set(middleware.HeaderIdempotencyKey, tt.idemKey)
			}
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			for _, want := range tt.wantContains {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}
