package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/common/metrics"
	"github.com/agencyhq/go-agency-ledger/internal/common/publisher"
	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const logNotifier = "[LEDGER-NOTIFIER]"

// Everything in this file runs after the unit of work has committed. Failures are logged
// and never reach the caller.

func (s *service) ledgerMetrics() *metrics.LedgerPrometheusMetrics {
	if s.srv.metrics == nil {
		return nil
	}
	return s.srv.metrics.GetLedgerPrometheus()
}

func (s *service) appendActivity(ctx context.Context, projectID *string, message string) {
	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Message:   message,
		CreatedAt: s.srv.now(),
	}
	if err := s.srv.sqlRepo.GetActivityLogRepository().Append(ctx, entry); err != nil {
		log.Warn(ctx, logNotifier+" failed to append activity log",
			log.String("message", message),
			log.Err(err),
		)
	}
}

func (s *service) publishEvent(ctx context.Context, event models.LedgerEvent) {
	if s.srv.ledgerPub == nil {
		return
	}
	event.ID = s.srv.idgenerator.Generate("evt")
	event.OccurredAt = s.srv.now()

	err := s.srv.retryer.Retry(ctx, func() error {
		return s.srv.ledgerPub.Publish(ctx, event, publisher.WithKey(event.Key()))
	}, nil)
	if err != nil {
		log.Error(ctx, logNotifier+" failed to publish ledger event",
			log.String("eventId", event.ID),
			log.String("type", string(event.Type)),
			log.String("key", event.Key()),
			log.Err(err),
		)
	}
}

func (s *service) notifyProcessed(ctx context.Context, out splitOutcome) {
	p := out.payment
	_, amount, _ := p.Amounts().Active()

	msg := fmt.Sprintf("Split processed for payment %s: %s %s into %d entries",
		p.ID, amount.StringFixed(models.MoneyScale), p.Currency, out.result.EntriesGenerated)
	if out.result.PoolRedirected {
		msg += " (no team members, execution pool added to company fund)"
	}
	s.appendActivity(ctx, p.ProjectID, msg)

	s.publishEvent(ctx, models.LedgerEvent{
		Type:      models.LedgerEventSplitProcessed,
		PaymentID: p.ID,
		ProjectID: p.ProjectID,
		Currency:  p.Currency,
		Amount:    amount,
		Entries:   out.result.Entries,
	})
	s.ledgerMetrics().RecordEntries(metrics.OperationProcess, out.result.Entries)
}

func (s *service) notifyReversed(ctx context.Context, out reversalOutcome) {
	if len(out.entries) == 0 {
		return
	}
	p := out.payment
	_, amount, _ := p.Amounts().Active()

	s.appendActivity(ctx, p.ProjectID, fmt.Sprintf("Split reversed for payment %s: %d entries removed",
		p.ID, len(out.entries)))

	s.publishEvent(ctx, models.LedgerEvent{
		Type:      models.LedgerEventSplitReversed,
		PaymentID: p.ID,
		ProjectID: p.ProjectID,
		Currency:  p.Currency,
		Amount:    amount,
		Entries:   out.entries,
	})
	s.ledgerMetrics().RecordEntries(metrics.OperationReverse, out.entries)
}

func (s *service) notifyPayout(ctx context.Context, res models.Payout) {
	p := res.Payment
	_, amount, _ := p.Amounts().Active()
	userID := res.Balance.UserID

	s.appendActivity(ctx, nil, fmt.Sprintf("Payout recorded for user %s: %s %s",
		userID, amount.Neg().StringFixed(models.MoneyScale), p.Currency))

	s.publishEvent(ctx, models.LedgerEvent{
		Type:      models.LedgerEventPayoutRecorded,
		PaymentID: p.ID,
		UserID:    &userID,
		Currency:  p.Currency,
		Amount:    amount,
		Entries:   []models.LedgerEntry{res.Entry},
	})
	s.ledgerMetrics().RecordEntries(metrics.OperationPayout, []models.LedgerEntry{res.Entry})
}

func (s *service) notifyBalanceFixed(ctx context.Context, drifts []models.BalanceDrift) {
	for _, d := range drifts {
		userID := d.UserID
		correction := d.Correction()
		for _, c := range []struct {
			currency models.Currency
			amount   decimal.Decimal
		}{
			{models.CurrencyBDT, correction.BDT},
			{models.CurrencyUSD, correction.USD},
		} {
			if c.amount.IsZero() {
				continue
			}
			s.publishEvent(ctx, models.LedgerEvent{
				Type:     models.LedgerEventBalanceFixed,
				UserID:   &userID,
				Currency: c.currency,
				Amount:   c.amount,
			})
		}
	}
}
