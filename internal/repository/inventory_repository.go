package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryFilters narrows inventory list queries
type InventoryFilters struct {
	ScopeType *domain.ScopeType
	Status    *domain.StockStatus
	Search    string
}

var inventorySortFields = map[string]string{
	"name":         "name",
	"quantity":     "quantity",
	"unitCost":     "unit_cost",
	"reorderPoint": "reorder_point",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs loads several items keyed by id; missing ids are simply absent
func (r *InventoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.InventoryItem, error) {
	out := make(map[uuid.UUID]domain.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []domain.InventoryItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID] = item
	}
	return out, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, "id = ?", id).Error
}

func (r *InventoryRepository) List(ctx context.Context, page, pageSize int, filters InventoryFilters, sort SortConfig) ([]domain.InventoryItem, int64, error) {
	var items []domain.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.InventoryItem{})
	if filters.ScopeType != nil {
		query = query.Where("scope_type = ?", *filters.ScopeType)
	}
	if filters.Status != nil {
		switch *filters.Status {
		case domain.StockStatusOutOfStock:
			query = query.Where("quantity <= 0")
		case domain.StockStatusLowStock:
			query = query.Where("quantity > 0 AND quantity <= reorder_point")
		case domain.StockStatusInStock:
			query = query.Where("quantity > reorder_point")
		}
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(manufacturer) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, inventorySortFields, "created_at")).
		Find(&items).Error

	return items, total, err
}

// ListLowStock returns items at or below their reorder point, emptiest first
func (r *InventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity <= reorder_point").
		Order("quantity ASC, name ASC").
		Find(&items).Error
	return items, err
}

// CountLowStock counts items at or below their reorder point
func (r *InventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.InventoryItem{}).Where("quantity <= reorder_point").Count(&count).Error
	return count, err
}

// AdjustQuantity adds delta to the stock level under a row lock, clamping at zero.
// Returns the updated item.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		qty := domain.DeductStock(item.Quantity, -delta)
		if err := tx.Model(&domain.InventoryItem{}).Where("id = ?", id).Update("quantity", qty).Error; err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		item.Quantity = qty
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CountRepairUsage counts repair lines that consumed the item
func (r *InventoryRepository) CountRepairUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RepairPart{}).Where("inventory_item_id = ?", id).Count(&count).Error
	return count, err
}
