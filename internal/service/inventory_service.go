package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Inventory service errors
var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrZeroAdjustment        = errors.New("stock adjustment must not be zero")
)

// InventoryService manages stocked parts
type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	notifications *NotificationService
	activity      *ActivityService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewInventoryService creates a new InventoryService. notifications and m may be nil.
func NewInventoryService(
	inventoryRepo *repository.InventoryRepository,
	notifications *NotificationService,
	activity *ActivityService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		notifications: notifications,
		activity:      activity,
		metrics:       m,
		logger:        logger,
	}
}

func applyInventoryRequest(item *domain.InventoryItem, req *domain.CreateInventoryItemRequest) {
	item.Name = req.Name
	item.ScopeType = req.ScopeType
	item.Length = req.Length
	item.Diameter = req.Diameter
	item.UnitCost = req.UnitCost
	item.Manufacturer = req.Manufacturer
	item.Quantity = req.Quantity
	if req.ReorderPoint != nil {
		item.ReorderPoint = *req.ReorderPoint
	}
}

func (s *InventoryService) Create(ctx context.Context, req *domain.CreateInventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item := &domain.InventoryItem{ReorderPoint: domain.DefaultReorderPoint}
	applyInventoryRequest(item, req)

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	s.activity.Record(ctx, domain.ActivityTargetInventory, item.ID,
		"Inventory item added", fmt.Sprintf("%s added with %d in stock", item.Name, item.Quantity))

	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

func (s *InventoryService) get(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItemDTO, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

func (s *InventoryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInventoryItemRequest) (*domain.InventoryItemDTO, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInventoryRequest(item, req)
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

// Delete removes an item that no repair has consumed
func (s *InventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	used, err := s.inventoryRepo.CountRepairUsage(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check related records: %w", err)
	}
	if used > 0 {
		return &domain.RelatedRecordsError{
			Entity:  "inventory item",
			Related: []domain.RelatedCount{{Collection: "repairs", Count: used}},
		}
	}

	if err := s.inventoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

func (s *InventoryService) List(ctx context.Context, page, pageSize int, filters repository.InventoryFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	items, total, err := s.inventoryRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToInventoryItemDTOs(items), total, page, pageSize), nil
}

// ListLowStock returns items at or below their reorder point
func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.InventoryItemDTO, error) {
	items, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	return mapper.ToInventoryItemDTOs(items), nil
}

// Adjust adds delta to the stock level. The result never drops below zero.
func (s *InventoryService) Adjust(ctx context.Context, id uuid.UUID, req *domain.AdjustStockRequest) (*domain.InventoryItemDTO, error) {
	if req.Delta == 0 {
		return nil, ErrZeroAdjustment
	}

	item, err := s.inventoryRepo.AdjustQuantity(ctx, id, req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	body := fmt.Sprintf("%s adjusted by %+d to %d", item.Name, req.Delta, item.Quantity)
	if req.Reason != "" {
		body += ": " + req.Reason
	}
	s.activity.Record(ctx, domain.ActivityTargetInventory, item.ID, "Stock adjusted", body)

	dto := mapper.ToInventoryItemDTO(item)
	return &dto, nil
}

// NotifyLowStock tells every admin how many items need reordering.
// Returns the number of low-stock items.
func (s *InventoryService) NotifyLowStock(ctx context.Context) (int, error) {
	items, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list low stock items: %w", err)
	}
	s.metrics.SetLowStockItems(len(items))

	if len(items) == 0 || s.notifications == nil {
		return len(items), nil
	}

	message := fmt.Sprintf("%d inventory items are at or below their reorder point", len(items))
	if len(items) == 1 {
		message = fmt.Sprintf("%s is at or below its reorder point (%d left)", items[0].Name, items[0].Quantity)
	}
	sent, err := s.notifications.NotifyAdmins(ctx, domain.NotificationTypeWarning, message, "inventory", nil)
	if err != nil {
		return len(items), err
	}

	s.logger.Info("low stock notification sent",
		zap.Int("items", len(items)),
		zap.Int("admins", sent))
	return len(items), nil
}
