package recon

import (
	"context"
	"time"

	"github.com/agencyhq/go-agency-ledger/internal/common/flag"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

const JobBalanceRecon = "balance-recon"

type reconHandler struct {
	balanceSrv services.BalanceService
}

func Routes(bs services.BalanceService) map[string]func(ctx context.Context, date time.Time, flag flag.Job) error {
	handler := reconHandler{balanceSrv: bs}
	return map[string]func(ctx context.Context, date time.Time, flag flag.Job) error{
		JobBalanceRecon: handler.DoBalanceRecon,
		// add more job here
	}
}

// DoBalanceRecon checks every balance row against the sum of its ledger entries.
func (rh *reconHandler) DoBalanceRecon(ctx context.Context, date time.Time, flag flag.Job) error {
	report, err := rh.balanceSrv.Reconcile(ctx, flag.Fix)
	if err != nil {
		return err
	}

	fields := []log.Field{
		log.Int("checked_users", report.CheckedUsers),
		log.Int("drifted_users", len(report.Drifts)),
		log.Bool("fixed", report.Fixed),
	}
	if len(report.Drifts) > 0 && !report.Fixed {
		for _, d := range report.Drifts {
			log.Warn(ctx, "balance drift",
				log.String("user_id", d.UserID),
				log.String("expected_bdt", d.ExpectedBDT.StringFixed(2)),
				log.String("actual_bdt", d.ActualBDT.StringFixed(2)),
				log.String("expected_usd", d.ExpectedUSD.StringFixed(2)),
				log.String("actual_usd", d.ActualUSD.StringFixed(2)),
			)
		}
	}

	log.Info(ctx, "DoBalanceRecon", fields...)

	return nil
}
