package jobs

import (
	"context"
	"errors"

	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"go.uber.org/zap"
)

// Job names, also used as metric labels
const (
	OverdueInvoicesJobName = "overdue_invoices"
	LowStockJobName        = "low_stock"
	ERPSyncJobName         = "erp_company_sync"
)

// InvoiceMarker flips sent invoices past their due date to overdue
type InvoiceMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// LowStockNotifier warns admins about items at or below their reorder point
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context) (int, error)
}

// CompanySyncer imports the ERP company directory
type CompanySyncer interface {
	SyncFromERP(ctx context.Context) (*domain.ERPSyncResultDTO, error)
}

// OverdueInvoices returns the job that marks overdue invoices
func OverdueInvoices(invoices InvoiceMarker, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		marked, err := invoices.MarkOverdue(ctx)
		if err != nil {
			return err
		}
		if marked > 0 {
			logger.Info("invoices marked overdue", zap.Int64("count", marked))
		}
		return nil
	}
}

// LowStock returns the job that notifies admins about low stock
func LowStock(inventory LowStockNotifier, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		count, err := inventory.NotifyLowStock(ctx)
		if err != nil {
			return err
		}
		logger.Debug("low stock check finished", zap.Int("items", count))
		return nil
	}
}

// ERPSync returns the job that imports companies from the ERP
func ERPSync(companies CompanySyncer, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		result, err := companies.SyncFromERP(ctx)
		if err != nil {
			return err
		}
		logger.Info("ERP company sync finished",
			zap.Int("fetched", result.Fetched),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated))
		return nil
	}
}

// Services are the job targets wired by Register. Companies may be nil
// when the ERP directory is not configured.
type Services struct {
	Invoices  InvoiceMarker
	Inventory LowStockNotifier
	Companies CompanySyncer
}

// Register adds every configured job to the scheduler
func Register(s *Scheduler, cfg *config.JobsConfig, svc Services, logger *zap.Logger) error {
	var errs []error
	errs = append(errs,
		s.AddJob(OverdueInvoicesJobName, cfg.OverdueInvoiceCron, OverdueInvoices(svc.Invoices, logger)),
		s.AddJob(LowStockJobName, cfg.LowStockCron, LowStock(svc.Inventory, logger)),
	)
	if svc.Companies != nil {
		errs = append(errs, s.AddJob(ERPSyncJobName, cfg.ERPSyncCron, ERPSync(svc.Companies, logger)))
	}
	return errors.Join(errs...)
}
