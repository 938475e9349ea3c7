package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/jobs"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeInvoices struct {
	calls atomic.Int32
	err   error
}

func (f *fakeInvoices) MarkOverdue(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return 2, f.err
}

type fakeInventory struct{ calls atomic.Int32 }

func (f *fakeInventory) NotifyLowStock(ctx context.Context) (int, error) {
	f.calls.Add(1)
	return 1, nil
}

type fakeCompanies struct{ user atomic.Bool }

func (f *fakeCompanies) SyncFromERP(ctx context.Context) (*domain.ERPSyncResultDTO, error) {
	if u, ok := auth.FromContext(ctx); ok && u.IsSystem {
		f.user.Store(true)
	}
	return &domain.ERPSyncResultDTO{Fetched: 3, Created: 1, Updated: 2}, nil
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), nil, time.Second)

	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}

func TestSchedulerAddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), nil, 0)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, s.AddJob("b", "0 0 6 * * *", noop))
	require.NoError(t, s.AddJob("a", "@hourly", noop))
	assert.Error(t, s.AddJob("a", "@hourly", noop), "duplicate name")
	assert.Error(t, s.AddJob("bad", "not a cron", noop))

	require.NoError(t, s.AddJob("disabled", "", noop))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.JobNames())
}

func TestRunNowRecordsMetrics(t *testing.T) {
	m := metrics.New()
	s := jobs.NewScheduler(zap.NewNop(), m, time.Second)

	invoices := &fakeInvoices{}
	require.NoError(t, s.RunNow(jobs.OverdueInvoicesJobName, jobs.OverdueInvoices(invoices, zap.NewNop())))

	invoices.err = errors.New("db down")
	assert.Error(t, s.RunNow(jobs.OverdueInvoicesJobName, jobs.OverdueInvoices(invoices, zap.NewNop())))

	assert.Equal(t, int32(2), invoices.calls.Load())
	// one success series and one error series
	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "repair_api_job_runs_total"))
}

func TestRegister(t *testing.T) {
	cfg := &config.JobsConfig{
		OverdueInvoiceCron: "0 0 6 * * *",
		LowStockCron:       "0 0 7 * * *",
		ERPSyncCron:        "0 30 * * * *",
	}

	t.Run("without ERP", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop(), nil, 0)
		err := jobs.Register(s, cfg, jobs.Services{
			Invoices:  &fakeInvoices{},
			Inventory: &fakeInventory{},
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []string{jobs.LowStockJobName, jobs.OverdueInvoicesJobName}, s.JobNames())
	})

	t.Run("with ERP", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop(), nil, 0)
		companies := &fakeCompanies{}
		err := jobs.Register(s, cfg, jobs.Services{
			Invoices:  &fakeInvoices{},
			Inventory: &fakeInventory{},
			Companies: companies,
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Len(t, s.JobNames(), 3)

		require.NoError(t, s.RunNow(jobs.ERPSyncJobName, jobs.ERPSync(companies, zap.NewNop())))
		assert.True(t, companies.user.Load(), "jobs run as the system user")
	})
}
