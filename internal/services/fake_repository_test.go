package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/models"
	"github.com/agencyhq/go-agency-ledger/internal/repositories"
)

// memoryStore is an in-memory SQLRepository. Atomic snapshots the whole store and restores
// it when the steps fail, which is enough to observe rollback behavior.
type memoryStore struct {
	mu sync.Mutex

	payments map[string]models.Payment
	entries  []models.LedgerEntry
	balances map[string]models.LedgerBalance
	projects map[string]models.Project
	logs     []models.ActivityLog

	// failures makes the named operation return the error once.
	failures map[string]error
	// writes counts mutating calls.
	writes int
}

type inTxKey struct{}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		payments: map[string]models.Payment{},
		balances: map[string]models.LedgerBalance{},
		projects: map[string]models.Project{},
		failures: map[string]error{},
	}
}

var _ repositories.SQLRepository = (*memoryStore)(nil)

func (m *memoryStore) failOnce(op string, err error) {
	m.failures[op] = err
}

func (m *memoryStore) fail(op string) error {
	err, ok := m.failures[op]
	if !ok {
		return nil
	}
	delete(m.failures, op)
	return err
}

type snapshot struct {
	payments map[string]models.Payment
	entries  []models.LedgerEntry
	balances map[string]models.LedgerBalance
	projects map[string]models.Project
	logs     []models.ActivityLog
	writes   int
}

func (m *memoryStore) snapshot() snapshot {
	s := snapshot{
		payments: make(map[string]models.Payment, len(m.payments)),
		entries:  append([]models.LedgerEntry(nil), m.entries...),
		balances: make(map[string]models.LedgerBalance, len(m.balances)),
		projects: make(map[string]models.Project, len(m.projects)),
		logs:     append([]models.ActivityLog(nil), m.logs...),
		writes:   m.writes,
	}
	for k, v := range m.payments {
		s.payments[k] = v
	}
	for k, v := range m.balances {
		s.balances[k] = v
	}
	for k, v := range m.projects {
		v.Members = append([]models.ProjectMember(nil), v.Members...)
		s.projects[k] = v
	}
	return s
}

func (m *memoryStore) restore(s snapshot) {
	m.payments, m.entries, m.balances, m.projects, m.logs, m.writes =
		s.payments, s.entries, s.balances, s.projects, s.logs, s.writes
}

func (m *memoryStore) Atomic(ctx context.Context, steps func(ctx context.Context, r repositories.SQLRepository) error) (err error) {
	if ctx.Value(inTxKey{}) != nil {
		return steps(ctx, m)
	}

	m.mu.Lock()
	before := m.snapshot()
	m.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic happened because: %v", p)
		}
		if err != nil {
			m.mu.Lock()
			m.restore(before)
			m.mu.Unlock()
		}
	}()

	return steps(context.WithValue(ctx, inTxKey{}, true), m)
}

func (m *memoryStore) GetPaymentRepository() repositories.PaymentRepository {
	return (*memoryPayments)(m)
}

func (m *memoryStore) GetProjectRepository() repositories.ProjectRepository {
	return (*memoryProjects)(m)
}

func (m *memoryStore) GetLedgerEntryRepository() repositories.LedgerEntryRepository {
	return (*memoryEntries)(m)
}

func (m *memoryStore) GetBalanceRepository() repositories.BalanceRepository {
	return (*memoryBalances)(m)
}

func (m *memoryStore) GetActivityLogRepository() repositories.ActivityLogRepository {
	return (*memoryActivityLogs)(m)
}

func (m *memoryStore) balance(userID string) models.LedgerBalance {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[userID]
	if !ok {
		return models.LedgerBalance{UserID: userID}
	}
	return b
}

func (m *memoryStore) entriesOf(paymentID string) []models.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LedgerEntry
	for _, e := range m.entries {
		if e.PaymentID == paymentID {
			out = append(out, e)
		}
	}
	return out
}

type memoryPayments memoryStore

func (r *memoryPayments) Create(_ context.Context, p models.Payment) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Payment.Create"); err != nil {
		return err
	}
	m.writes++
	m.payments[p.ID] = p
	return nil
}

func (r *memoryPayments) GetByID(_ context.Context, id string) (models.Payment, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return models.Payment{}, common.ErrPaymentNotFound
	}
	return p, nil
}

func (r *memoryPayments) GetForUpdate(ctx context.Context, id string) (models.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryPayments) Update(_ context.Context, p models.Payment) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Payment.Update"); err != nil {
		return err
	}
	current, ok := m.payments[p.ID]
	if !ok {
		return common.ErrPaymentNotFound
	}
	p.Kind, p.CreatedAt = current.Kind, current.CreatedAt
	m.writes++
	m.payments[p.ID] = p
	return nil
}

func (r *memoryPayments) Delete(_ context.Context, id string) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return common.ErrPaymentNotFound
	}
	for _, e := range m.entries {
		if e.PaymentID == id {
			return fmt.Errorf("payment %s still has entries", id)
		}
	}
	m.writes++
	delete(m.payments, id)
	return nil
}

func (r *memoryPayments) List(_ context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Payment{}
	for _, p := range m.payments {
		if filter.ProjectID != "" && (p.ProjectID == nil || *p.ProjectID != filter.ProjectID) {
			continue
		}
		if filter.Kind != "" && string(p.Kind) != filter.Kind {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

type memoryEntries memoryStore

func (r *memoryEntries) BulkInsert(_ context.Context, entries []models.LedgerEntry) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Entry.BulkInsert"); err != nil {
		return err
	}
	m.writes++
	m.entries = append(m.entries, entries...)
	return nil
}

func (r *memoryEntries) ListByPayment(_ context.Context, paymentID string) ([]models.LedgerEntry, error) {
	return (*memoryStore)(r).entriesOf(paymentID), nil
}

func (r *memoryEntries) CountByPayment(_ context.Context, paymentID string) (int, error) {
	return len((*memoryStore)(r).entriesOf(paymentID)), nil
}

func (r *memoryEntries) DeleteByPayment(_ context.Context, paymentID string) (int64, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0:0]
	var removed int64
	for _, e := range m.entries {
		if e.PaymentID == paymentID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.writes++
	m.entries = kept
	return removed, nil
}

func (r *memoryEntries) List(_ context.Context, filter models.EntryFilter) ([]models.LedgerEntry, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.LedgerEntry{}
	for _, e := range m.entries {
		if filter.UserID != "" && (e.UserID == nil || *e.UserID != filter.UserID) {
			continue
		}
		if filter.PaymentID != "" && e.PaymentID != filter.PaymentID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memoryBalances memoryStore

func (r *memoryBalances) ApplyDelta(_ context.Context, delta models.BalanceDelta) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("Balance.ApplyDelta"); err != nil {
		return err
	}
	b, ok := m.balances[delta.UserID]
	if !ok {
		b = models.LedgerBalance{UserID: delta.UserID}
	}
	b.TotalBDT = b.TotalBDT.Add(delta.BDT)
	b.TotalUSD = b.TotalUSD.Add(delta.USD)
	m.writes++
	m.balances[delta.UserID] = b
	return nil
}

func (r *memoryBalances) Subtract(_ context.Context, delta models.BalanceDelta) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[delta.UserID]
	if !ok {
		return common.ErrNoRowsAffected
	}
	b.TotalBDT = b.TotalBDT.Sub(delta.BDT)
	b.TotalUSD = b.TotalUSD.Sub(delta.USD)
	m.writes++
	m.balances[delta.UserID] = b
	return nil
}

func (r *memoryBalances) Debit(_ context.Context, userID string, currency models.Currency, amount decimal.Decimal) (models.LedgerBalance, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[userID]
	if !ok {
		return models.LedgerBalance{}, common.ErrInsufficientBalance
	}
	switch currency {
	case models.CurrencyBDT:
		if b.TotalBDT.LessThan(amount) {
			return models.LedgerBalance{}, common.ErrInsufficientBalance
		}
		b.TotalBDT = b.TotalBDT.Sub(amount)
	case models.CurrencyUSD:
		if b.TotalUSD.LessThan(amount) {
			return models.LedgerBalance{}, common.ErrInsufficientBalance
		}
		b.TotalUSD = b.TotalUSD.Sub(amount)
	default:
		return models.LedgerBalance{}, common.ErrUnsupportedCurrency
	}
	m.writes++
	m.balances[userID] = b
	return b, nil
}

func (r *memoryBalances) Get(_ context.Context, userID string) (models.LedgerBalance, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[userID]
	if !ok {
		return models.LedgerBalance{}, common.ErrDataNotFound
	}
	return b, nil
}

func (r *memoryBalances) List(_ context.Context, _ models.BalanceFilter) ([]models.LedgerBalance, int, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LedgerBalance, 0, len(m.balances))
	for _, b := range m.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, len(out), nil
}

func (r *memoryBalances) Reconcile(_ context.Context) ([]models.BalanceDrift, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()

	byUser := map[string]*models.BalanceDrift{}
	get := func(userID string) *models.BalanceDrift {
		d, ok := byUser[userID]
		if !ok {
			d = &models.BalanceDrift{UserID: userID}
			byUser[userID] = d
		}
		return d
	}
	for _, delta := range models.AggregateDeltas(m.entries) {
		d := get(delta.UserID)
		d.ExpectedBDT, d.ExpectedUSD = delta.BDT, delta.USD
	}
	for userID, b := range m.balances {
		d := get(userID)
		d.ActualBDT, d.ActualUSD = b.TotalBDT, b.TotalUSD
	}

	out := make([]models.BalanceDrift, 0, len(byUser))
	for _, d := range byUser {
		out = append(out, *d)
	}
	return out, nil
}

type memoryProjects memoryStore

func (r *memoryProjects) Create(_ context.Context, p models.Project) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.projects[p.ID] = p
	return nil
}

func (r *memoryProjects) GetByID(_ context.Context, id string) (models.Project, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return models.Project{}, common.ErrProjectNotFound
	}
	return p, nil
}

func (r *memoryProjects) ReplaceMembers(_ context.Context, projectID string, members []models.ProjectMember) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return common.ErrProjectNotFound
	}
	p.Members = members
	m.writes++
	m.projects[projectID] = p
	return nil
}

type memoryActivityLogs memoryStore

func (r *memoryActivityLogs) Append(_ context.Context, entry models.ActivityLog) error {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (r *memoryActivityLogs) ListByProject(_ context.Context, projectID string, limit int) ([]models.ActivityLog, error) {
	m := (*memoryStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ActivityLog{}
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if l := m.logs[i]; l.ProjectID != nil && *l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}
