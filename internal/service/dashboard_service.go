package service

import (
	"context"
	"fmt"
	"time"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
)

type DashboardService struct {
	scopeRepo     *repository.ScopeRepository
	quotationRepo *repository.QuotationRepository
	repairRepo    *repository.RepairRepository
	invoiceRepo   *repository.InvoiceRepository
	inventoryRepo *repository.InventoryRepository
	logger        *zap.Logger
}

func NewDashboardService(
	scopeRepo *repository.ScopeRepository,
	quotationRepo *repository.QuotationRepository,
	repairRepo *repository.RepairRepository,
	invoiceRepo *repository.InvoiceRepository,
	inventoryRepo *repository.InventoryRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		scopeRepo:     scopeRepo,
		quotationRepo: quotationRepo,
		repairRepo:    repairRepo,
		invoiceRepo:   invoiceRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// GetMetrics summarises the shop floor: scope counts, open work and money outstanding
func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardDTO, error) {
	stats, err := s.scopeRepo.Stats(ctx, time.Now().Add(-recentScopeWindow))
	if err != nil {
		return nil, err
	}

	openRepairs, err := s.repairRepo.CountByStatus(ctx, domain.RepairStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count open repairs: %w", err)
	}

	pendingQuotations, err := s.quotationRepo.CountByStatus(ctx, domain.QuotationStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending quotations: %w", err)
	}

	unpaid, unpaidTotal, err := s.invoiceRepo.UnpaidSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise unpaid invoices: %w", err)
	}

	lowStock, err := s.inventoryRepo.CountLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}

	return &domain.DashboardDTO{
		Scopes:             *stats,
		OpenRepairs:        openRepairs,
		PendingQuotations:  pendingQuotations,
		UnpaidInvoices:     unpaid,
		UnpaidInvoiceTotal: domain.RoundMoney(unpaidTotal),
		LowStockItems:      lowStock,
	}, nil
}
