package mapper_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	created = time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("Beirut", 2*60*60))
	updated = created.Add(time.Hour)
)

func base() domain.BaseModel {
	return domain.BaseModel{ID: uuid.New(), CreatedAt: created, UpdatedAt: updated}
}

func TestToScopeDTO(t *testing.T) {
	brand := &domain.Brand{BaseModel: base(), Title: "Olympus"}
	maker := &domain.Manufacturer{BaseModel: base(), CompanyName: "Olympus Medical", Country: "JP"}
	received := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	scope := &domain.Scope{
		BaseModel:      base(),
		Name:           "Colonoscope",
		Type:           domain.ScopeTypeFlexible,
		Model:          "CF-HQ190L",
		SerialNumber:   "2800123",
		BrandID:        brand.ID,
		Brand:          brand,
		ManufacturerID: maker.ID,
		Manufacturer:   maker,
		Status:         domain.ScopeStatusEvaluated,
		ReceivedDate:   &received,
	}

	dto := mapper.ToScopeDTO(scope)

	assert.Equal(t, scope.ID, dto.ID)
	assert.Equal(t, domain.ScopeStatusEvaluated, dto.Status)
	// timestamps are always rendered in UTC
	assert.Equal(t, "2024-03-01T07:30:00Z", dto.CreatedAt)
	assert.Equal(t, "2024-02-28T00:00:00Z", dto.ReceivedDate)
	require.NotNil(t, dto.Brand)
	assert.Equal(t, "Olympus", dto.Brand.Title)
	require.NotNil(t, dto.Manufacturer)
	assert.Equal(t, "JP", dto.Manufacturer.Country)
}

func TestToScopeDTO_WithoutRelations(t *testing.T) {
	dto := mapper.ToScopeDTO(&domain.Scope{BaseModel: base(), Model: "X", SerialNumber: "1"})

	assert.Nil(t, dto.Brand)
	assert.Nil(t, dto.Manufacturer)
	assert.Empty(t, dto.ReceivedDate)
}

func TestToQuotationDTO_NetPrice(t *testing.T) {
	q := &domain.Quotation{
		BaseModel:       base(),
		QuotationNumber: "Q0042",
		Price:           1500,
		Discount:        250,
		Quantity:        1,
		Status:          domain.QuotationStatusApproved,
	}

	dto := mapper.ToQuotationDTO(q)

	assert.Equal(t, 1250.0, dto.NetPrice)
	assert.Equal(t, "Q0042", dto.QuotationNumber)
	assert.Empty(t, dto.PDFGeneratedAt)
	assert.Nil(t, dto.Scope)
}

func TestToRepairDTO_Parts(t *testing.T) {
	item := &domain.InventoryItem{BaseModel: base(), Name: "Bending rubber", UnitCost: 40}
	repair := &domain.Repair{
		BaseModel:    base(),
		RepairNumber: "R0007",
		Status:       domain.RepairStatusPending,
		TotalCost:    80,
		Parts: []domain.RepairPart{
			{BaseModel: base(), InventoryItemID: item.ID, InventoryItem: item, QuantityUsed: 2, UnitCost: 40, TotalCost: 80},
		},
	}

	dto := mapper.ToRepairDTO(repair)

	want := []domain.RepairPartDTO{{
		ID:              repair.Parts[0].ID,
		InventoryItemID: item.ID,
		PartName:        "Bending rubber",
		QuantityUsed:    2,
		UnitCost:        40,
		TotalCost:       80,
	}}
	if diff := cmp.Diff(want, dto.PartsUsed); diff != "" {
		t.Errorf("PartsUsed mismatch (-want +got):\n%s", diff)
	}
}

func TestToRepairDTO_NoPartsIsEmptyList(t *testing.T) {
	dto := mapper.ToRepairDTO(&domain.Repair{BaseModel: base(), RepairNumber: "R0001"})

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"partsUsed":[]`)
}

func TestToUserDTO_OmitsPassword(t *testing.T) {
	user := &domain.User{
		BaseModel:    base(),
		Email:        "tech@medcare.test",
		PasswordHash: "$2a$10$secret",
		FirstName:    "Rami",
		LastName:     "Haddad",
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	raw, err := json.Marshal(mapper.ToUserDTO(user))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), "tech@medcare.test")
}

func TestSliceMappersPreserveOrder(t *testing.T) {
	invoices := []domain.Invoice{
		{BaseModel: base(), InvoiceNumber: "SA1-0002", InvoiceDate: created},
		{BaseModel: base(), InvoiceNumber: "SA1-0001", InvoiceDate: created},
	}

	dtos := mapper.ToInvoiceDTOs(invoices)

	require.Len(t, dtos, 2)
	assert.Equal(t, "SA1-0002", dtos[0].InvoiceNumber)
	assert.Equal(t, "SA1-0001", dtos[1].InvoiceNumber)
	assert.Empty(t, mapper.ToInvoiceDTOs(nil))
}
