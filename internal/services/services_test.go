package services_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agencyhq/go-agency-ledger/internal/common/idgenerator"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	mockIDGenerator "github.com/agencyhq/go-agency-ledger/internal/common/idgenerator/mock"
	mockMetrics "github.com/agencyhq/go-agency-ledger/internal/common/metrics/mock"
	mockPublisher "github.com/agencyhq/go-agency-ledger/internal/common/publisher/mock"
	"github.com/agencyhq/go-agency-ledger/internal/config"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
	"github.com/agencyhq/go-agency-ledger/internal/repositories/mock"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

func TestMain(m *testing.M) {
	log.InitForTest()
	os.Exit(m.Run())
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		ExponentialBackoff: config.ExponentialBackOffConfig{
			MaxRetries:        1,
			MaxBackoffTime:    10 * time.Millisecond,
			BackoffMultiplier: 1.1,
		},
		Ledger: config.LedgerConfig{
			PayoutRequiresBalance: true,
			DefaultPageSize:       20,
			MaxPageSize:           100,
		},
	}
}

type testServiceHelper struct {
	mockCtrl *gomock.Controller
	config   config.Config

	mockSQLRepository         *mock.MockSQLRepository
	mockPaymentRepository     *mock.MockPaymentRepository
	mockLedgerEntryRepository *mock.MockLedgerEntryRepository
	mockBalanceRepository     *mock.MockBalanceRepository
	mockProjectRepository     *mock.MockProjectRepository
	mockActivityLogRepository *mock.MockActivityLogRepository
	mockPublisher             *mockPublisher.MockPublisher
	mockIDGenerator           *mockIDGenerator.MockGenerator

	splitEngine    services.SplitEngine
	paymentService services.PaymentService
	payoutService  services.PayoutService
	balanceService services.BalanceService
	projectService services.ProjectService
}

// serviceTestHelper wires every service to gomock repositories. Calls made inside Atomic are
// expected on the same repository mocks, see expectAtomic.
func serviceTestHelper(t *testing.T) testServiceHelper {
	t.Helper()

	mockCtrl := gomock.NewController(t)

	mockSQLRepository := mock.NewMockSQLRepository(mockCtrl)
	mockPaymentRepository := mock.NewMockPaymentRepository(mockCtrl)
	mockLedgerEntryRepository := mock.NewMockLedgerEntryRepository(mockCtrl)
	mockBalanceRepository := mock.NewMockBalanceRepository(mockCtrl)
	mockProjectRepository := mock.NewMockProjectRepository(mockCtrl)
	mockActivityLogRepository := mock.NewMockActivityLogRepository(mockCtrl)

	mockSQLRepository.EXPECT().GetPaymentRepository().Return(mockPaymentRepository).AnyTimes()
	mockSQLRepository.EXPECT().GetLedgerEntryRepository().Return(mockLedgerEntryRepository).AnyTimes()
	mockSQLRepository.EXPECT().GetBalanceRepository().Return(mockBalanceRepository).AnyTimes()
	mockSQLRepository.EXPECT().GetProjectRepository().Return(mockProjectRepository).AnyTimes()
	mockSQLRepository.EXPECT().GetActivityLogRepository().Return(mockActivityLogRepository).AnyTimes()

	mockPub := mockPublisher.NewMockPublisher(mockCtrl)
	mockIDGen := mockIDGenerator.NewMockGenerator(mockCtrl)
	mockIDGen.EXPECT().Generate(gomock.Any()).Return("evt-1").AnyTimes()

	mockMetric := mockMetrics.NewMockMetrics(mockCtrl)
	mockMetric.EXPECT().GetLedgerPrometheus().Return(nil).AnyTimes()

	conf := testConfig()
	serv := services.New(conf, mockSQLRepository, mockPub, mockIDGen, mockMetric).
		WithClock(func() time.Time { return fixedNow })

	return testServiceHelper{
		mockCtrl:                  mockCtrl,
		config:                    conf,
		mockSQLRepository:         mockSQLRepository,
		mockPaymentRepository:     mockPaymentRepository,
		mockLedgerEntryRepository: mockLedgerEntryRepository,
		mockBalanceRepository:     mockBalanceRepository,
		mockProjectRepository:     mockProjectRepository,
		mockActivityLogRepository: mockActivityLogRepository,
		mockPublisher:             mockPub,
		mockIDGenerator:           mockIDGen,
		splitEngine:               serv.Split,
		paymentService:            serv.Payment,
		payoutService:             serv.Payout,
		balanceService:            serv.Balance,
		projectService:            serv.Project,
	}
}

// expectAtomic runs the steps against the helper, returning what they return.
func (h testServiceHelper) expectAtomic() {
	h.mockSQLRepository.EXPECT().
		Atomic(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, steps func(ctx context.Context, r repositories.SQLRepository) error) error {
			return steps(ctx, h.mockSQLRepository)
		})
}

// ledgerFixture runs the services against memoryStore.
type ledgerFixture struct {
	store *memoryStore
	srv   *services.Services
}

func newLedgerFixture(t *testing.T, opts ...func(*config.Config)) ledgerFixture {
	t.Helper()

	conf := testConfig()
	for _, opt := range opts {
		opt(&conf)
	}

	store := newMemoryStore()
	srv := services.New(conf, store, nil, idgenerator.New(), nil).
		WithClock(func() time.Time { return fixedNow })

	return ledgerFixture{store: store, srv: srv}
}

func (f ledgerFixture) addProject(id, finderID string, members ...models.ProjectMember) models.Project {
	for i := range members {
		members[i].ProjectID = id
	}
	p := models.Project{ID: id, Name: "Project " + id, FinderID: finderID, Members: members, CreatedAt: fixedNow}
	f.store.projects[id] = p
	return p
}

func (f ledgerFixture) addPayment(id, projectID string, currency models.Currency, amount string) models.Payment {
	amounts := models.NewCurrencyAmounts(currency, decimal.RequireFromString(amount))
	p := models.Payment{
		ID:        id,
		Kind:      models.PaymentKindPayment,
		ProjectID: &projectID,
		Currency:  currency,
		AmountBDT: amounts.BDT,
		AmountUSD: amounts.USD,
		PaidAt:    fixedNow,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	f.store.payments[id] = p
	return p
}

func member(userID string, share int) models.ProjectMember {
	return models.ProjectMember{UserID: userID, Share: share}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, decimal.RequireFromString(want).StringFixed(models.MoneyScale), got.StringFixed(models.MoneyScale), msgAndArgs...)
}

func sumEntries(t *testing.T, currency models.Currency, entries []models.LedgerEntry) decimal.Decimal {
	t.Helper()
	total := decimal.Zero
	for _, e := range entries {
		c, amount, ok := e.Amounts().Active()
		require.True(t, ok, "entry %s must carry exactly one currency", e.ID)
		require.Equal(t, currency, c)
		total = total.Add(amount)
	}
	return total
}

type deltaMatcher struct {
	want models.BalanceDelta
}

func (m deltaMatcher) Matches(x any) bool {
	d, ok := x.(models.BalanceDelta)
	return ok && d.UserID == m.want.UserID && d.BDT.Equal(m.want.BDT) && d.USD.Equal(m.want.USD)
}

func (m deltaMatcher) String() string {
	return fmt.Sprintf("delta for %s of %s BDT and %s USD", m.want.UserID, m.want.BDT, m.want.USD)
}

func deltaBDT(userID, amount string) gomock.Matcher {
	return deltaMatcher{want: models.BalanceDelta{UserID: userID, BDT: decimal.RequireFromString(amount)}}
}

func deltaUSD(userID, amount string) gomock.Matcher {
	return deltaMatcher{want: models.BalanceDelta{UserID: userID, USD: decimal.RequireFromString(amount)}}
}
