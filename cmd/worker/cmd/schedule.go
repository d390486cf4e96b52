package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agencyhq/go-agency-ledger/cmd/setup"
	"github.com/agencyhq/go-agency-ledger/internal/common/graceful"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/deliveries/job"
)

var (
	scheduleJobCmd = &cobra.Command{
		Use:     "schedule",
		Short:   "Run a job on a cron schedule until terminated",
		Long:    ``,
		Example: `worker schedule -n={job-name} -v={job-version} -s="@every 1h" [--fix]`,
		Run:     scheduleJob,
	}
	scheduleJobCmdSpec = "schedule"
)

func defaultStopTimeout(s *setup.Setup) time.Duration {
	if s != nil && s.Config.App.GracefulTimeout != 0 {
		return s.Config.App.GracefulTimeout
	}
	return 5 * time.Second
}

func scheduleJob(ccmd *cobra.Command, args []string) {
	ctx := context.Background()

	s, stoppers, err := setup.Init("job")
	if err != nil {
		graceful.StopProcess(defaultStopTimeout(s), stoppers...)
		log.Fatalf(ctx, "failed to setup app: %v", err)
	}

	spec, _ := ccmd.Flags().GetString(scheduleJobCmdSpec)
	if spec == "" {
		spec = s.Config.Jobs.BalanceReconSchedule
	}

	c, err := job.New(s.Service.Balance).Schedule(ctx, spec, jobFlag(ccmd))
	if err != nil {
		graceful.StopProcess(defaultStopTimeout(s), stoppers...)
		log.Fatalf(ctx, "failed to schedule job: %v", err)
	}

	c.Start()
	log.Info(ctx, "job scheduled", log.String("schedule", spec))

	// the scheduler stops first so a running job finishes before connections close
	stoppers = append(stoppers, func(ctx context.Context) error {
		select {
		case <-c.Stop().Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	graceful.StopProcessAtBackground(defaultStopTimeout(s), stoppers...)
	log.Info(ctx, "job scheduler stopped!")
}
