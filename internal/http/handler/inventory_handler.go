package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// InventoryHandler handles HTTP requests for spare part stock
type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, logger: logger}
}

// List godoc
// @Summary List inventory
// @Tags Inventory
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(name)
// @Param search query string false "Search by name or part number"
// @Param scopeType query string false "Filter by scope type" Enums(rigid, flexible)
// @Param status query string false "Filter by stock status" Enums(in_stock, low_stock, out_of_stock)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InventoryItemDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	filters := repository.InventoryFilters{
		ScopeType: queryEnum[domain.ScopeType](r, "scopeType"),
		Status:    queryEnum[domain.StockStatus](r, "status"),
		Search:    p.Search,
	}
	result, err := h.inventoryService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list inventory")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// LowStock godoc
// @Summary Items at or below their reorder point
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.InventoryItemDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListLowStock(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list low stock items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID godoc
// @Summary Get inventory item
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get inventory item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body domain.CreateInventoryItemRequest true "Item data"
// @Success 201 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.inventoryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create inventory item")
		return
	}
	respondCreated(w, "inventory", item.ID, item)
}

// Update godoc
// @Summary Update inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param request body domain.UpdateInventoryItemRequest true "Item data"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}
	var req domain.UpdateInventoryItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.inventoryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update inventory item")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Adjust godoc
// @Summary Adjust stock
// @Description Adds delta to the quantity. The result never goes below zero.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param request body domain.AdjustStockRequest true "Adjustment"
// @Success 200 {object} domain.InventoryItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}
	var req domain.AdjustStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.inventoryService.Adjust(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "adjust stock")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete inventory item
// @Tags Inventory
// @Param id path string true "Item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Used by repairs"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "inventory item")
	if !ok {
		return
	}
	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete inventory item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
