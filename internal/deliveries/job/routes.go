package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/agencyhq/go-agency-ledger/internal/common"
	"github.com/agencyhq/go-agency-ledger/internal/common/flag"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	v1recon "github.com/agencyhq/go-agency-ledger/internal/deliveries/job/v1/recon"
	"github.com/agencyhq/go-agency-ledger/internal/services"
)

var ErrUnknownJob = errors.New("invalid version or job name")

type JobRoutes map[string]map[string]func(ctx context.Context, date time.Time, flag flag.Job) error

type Job struct {
	Routes JobRoutes
}

func New(balanceSrv services.BalanceService) *Job {
	v1group := "v1"

	jobRoutes := JobRoutes{
		v1group: v1recon.Routes(balanceSrv),
		// add other version routes
	}

	return &Job{jobRoutes}
}

// List returns "version=..., name=..." lines sorted by version then name.
func (j *Job) List() []string {
	var out []string
	for version, l := range j.Routes {
		for name := range l {
			out = append(out, fmt.Sprintf("version=%s, name=%s", version, name))
		}
	}
	sort.Strings(out)
	return out
}

func (j *Job) Start(ctx context.Context, flag flag.Job) (err error) {
	fn, ok := j.Routes[flag.Version][flag.JobName]
	if !ok {
		log.LogJob(ctx, flag.JobName, flag.Version, flag.Date, ErrUnknownJob)
		return ErrUnknownJob
	}

	ctx = log.WithCorrelationID(ctx, uuid.New().String())
	defer func() {
		log.LogJob(ctx, flag.JobName, flag.Version, flag.Date, err)
	}()

	runningDate := common.Now()
	if flag.Date != "" {
		runningDate, err = common.ParseStringToDatetime(common.DateFormatYYYYMMDD, flag.Date)
		if err != nil {
			return fmt.Errorf("job date must be %s: %w", common.DateFormatYYYYMMDD, err)
		}
	}

	return fn(ctx, runningDate, flag)
}

// Schedule registers the job on a cron scheduler. The caller starts and stops it.
// Overlapping runs of the same job are skipped.
func (j *Job) Schedule(ctx context.Context, spec string, flag flag.Job) (*cron.Cron, error) {
	if _, ok := j.Routes[flag.Version][flag.JobName]; !ok {
		return nil, ErrUnknownJob
	}

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{ctx: ctx}),
		cron.SkipIfStillRunning(cronLogger{ctx: ctx}),
	))

	_, err := c.AddFunc(spec, func() {
		// a failed run is logged by Start and retried on the next tick
		_ = j.Start(ctx, flag)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return c, nil
}

type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	log.Info(l.ctx, "[CRON] "+msg, log.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error(l.ctx, "[CRON] "+msg, log.Err(err), log.Any("details", keysAndValues))
}
