package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agencyhq/go-agency-ledger/cmd/setup"
	"github.com/agencyhq/go-agency-ledger/internal/common/flag"
	"github.com/agencyhq/go-agency-ledger/internal/common/graceful"
	"github.com/agencyhq/go-agency-ledger/internal/common/log"
	"github.com/agencyhq/go-agency-ledger/internal/deliveries/job"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Worker application to configuring and running a job",
	Long:  ``,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runJobCmd)
	rootCmd.AddCommand(scheduleJobCmd)

	for _, c := range []*cobra.Command{runJobCmd, scheduleJobCmd} {
		c.Flags().StringP(runJobCmdName, "n", "", "job name")
		_ = c.MarkFlagRequired(runJobCmdName)
		c.Flags().StringP(runJobCmdVersion, "v", "", "job version")
		_ = c.MarkFlagRequired(runJobCmdVersion)
		c.Flags().Bool(runJobCmdFix, false, "write corrections instead of only reporting")
	}
	runJobCmd.Flags().StringP(runJobCmdDate, "d", "", "job running date, YYYY-MM-DD")
	scheduleJobCmd.Flags().StringP(scheduleJobCmdSpec, "s", "", "cron spec, defaults to jobs.balance_recon_schedule")
}

var (
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List job name and version",
		Long:  ``,
		Run:   list,
	}
)

func list(ccmd *cobra.Command, args []string) {
	// routing needs no connections
	for _, l := range job.New(nil).List() {
		fmt.Println(l)
	}
}

var (
	runJobCmd = &cobra.Command{
		Use:     "run",
		Short:   "Run execution job",
		Long:    ``,
		Example: "worker run -n={job-name} -v={job-version} -d={job-date} [--fix]",
		Run:     runJob,
	}
	runJobCmdName    = "name"
	runJobCmdVersion = "version"
	runJobCmdDate    = "date"
	runJobCmdFix     = "fix"
)

func jobFlag(ccmd *cobra.Command) flag.Job {
	name, _ := ccmd.Flags().GetString(runJobCmdName)
	version, _ := ccmd.Flags().GetString(runJobCmdVersion)
	date, _ := ccmd.Flags().GetString(runJobCmdDate)
	fix, _ := ccmd.Flags().GetBool(runJobCmdFix)

	return flag.Job{
		JobName: name,
		Version: version,
		Date:    date,
		Fix:     fix,
	}
}

func runJob(ccmd *cobra.Command, args []string) {
	ctx := context.Background()

	s, stoppers, err := setup.Init("job")
	if err != nil {
		graceful.StopProcess(defaultStopTimeout(s), stoppers...)
		log.Fatalf(ctx, "failed to setup app: %v", err)
	}

	err = job.New(s.Service.Balance).Start(ctx, jobFlag(ccmd))
	graceful.StopProcess(defaultStopTimeout(s), stoppers...)
	if err != nil {
		os.Exit(1)
	}
}
