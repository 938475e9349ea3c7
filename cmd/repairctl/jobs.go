package main

import (
	"fmt"
	"strings"

	"github.com/medcare-solutions/repair-api/internal/erp"
	"github.com/medcare-solutions/repair-api/internal/jobs"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/spf13/cobra"
)

func newJobsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run background jobs once",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "run NAME",
		Short:     "Run a scheduled job immediately",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{jobs.OverdueInvoicesJobName, jobs.LowStockJobName, jobs.ERPSyncJobName},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			job, cleanup, err := buildJob(cmd, e, name)
			if err != nil {
				return err
			}
			defer cleanup()

			scheduler := jobs.NewScheduler(e.log, nil, e.cfg.Jobs.JobTimeoutDuration())
			if err := scheduler.RunNow(name, job); err != nil {
				return fmt.Errorf("job %s failed: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s completed\n", name)
			return nil
		},
	})
	return cmd
}

func buildJob(cmd *cobra.Command, e *env, name string) (jobs.Job, func(), error) {
	noop := func() {}
	activity := service.NewActivityService(repository.NewActivityRepository(e.db), e.log)

	switch name {
	case jobs.OverdueInvoicesJobName:
		return jobs.OverdueInvoices(newInvoiceService(e), e.log), noop, nil

	case jobs.LowStockJobName:
		notifications := service.NewNotificationService(
			repository.NewNotificationRepository(e.db), repository.NewUserRepository(e.db), e.log)
		inventory := service.NewInventoryService(
			repository.NewInventoryRepository(e.db), notifications, activity, nil, e.log)
		return jobs.LowStock(inventory, e.log), noop, nil

	case jobs.ERPSyncJobName:
		if !e.cfg.ERP.Enabled {
			return nil, noop, fmt.Errorf("ERP directory is not configured")
		}
		client, err := erp.NewClient(cmd.Context(), &e.cfg.ERP, e.log)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to ERP: %w", err)
		}
		companies := service.NewCompanyService(repository.NewCompanyRepository(e.db), client, activity, e.log)
		return jobs.ERPSync(companies, e.log), func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown job %q (expected one of: %s)", name,
			strings.Join([]string{jobs.OverdueInvoicesJobName, jobs.LowStockJobName, jobs.ERPSyncJobName}, ", "))
	}
}
