package domain_test

import (
	"testing"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Numbering
// =============================================================================

func TestSequenceDef_Format(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.SequenceKind
		n        int
		expected string
	}{
		{"invoice first", domain.SequenceInvoice, 1, "SA1-0001"},
		{"repair", domain.SequenceRepair, 42, "R0042"},
		{"quotation", domain.SequenceQuotation, 9999, "Q9999"},
		{"evaluation wider than padding", domain.SequenceEvaluation, 12345, "EV12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := domain.LookupSequence(tt.kind)
			require.True(t, ok)
			assert.Equal(t, tt.expected, def.Format(tt.n))
		})
	}
}

func TestSequenceDef_Parse(t *testing.T) {
	inv, _ := domain.LookupSequence(domain.SequenceInvoice)
	rep, _ := domain.LookupSequence(domain.SequenceRepair)

	n, ok := inv.Parse("SA1-0017")
	assert.True(t, ok)
	assert.Equal(t, 17, n)

	_, ok = inv.Parse("SA2-0017")
	assert.False(t, ok)

	_, ok = rep.Parse("REP-1")
	assert.False(t, ok)

	n, ok = rep.Parse("R10000")
	assert.True(t, ok)
	assert.Equal(t, 10000, n)
}

func TestSequenceDef_HighestSequence(t *testing.T) {
	q, _ := domain.LookupSequence(domain.SequenceQuotation)

	assert.Equal(t, 0, q.HighestSequence(nil))
	assert.Equal(t, 12, q.HighestSequence([]string{"Q0003", "Q0012", "imported-99", "Q0009"}))
}

func TestAllSequences(t *testing.T) {
	defs := domain.AllSequences()
	require.Len(t, defs, 4)
	prefixes := make([]string, 0, len(defs))
	for _, d := range defs {
		prefixes = append(prefixes, d.Prefix)
	}
	assert.ElementsMatch(t, []string{"SA1-", "R", "Q", "EV"}, prefixes)
}

// =============================================================================
// Totals
// =============================================================================

func TestComputeInvoiceTotals(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  float64
		quantity   int
		dollarRate float64
		expected   domain.InvoiceTotals
	}{
		{
			name:       "single unit",
			unitPrice:  1000,
			quantity:   1,
			dollarRate: 89500,
			expected:   domain.InvoiceTotals{TotalPrice: 1000, Subtotal: 1000, Tax: 110, TotalDue: 1110, TaxLebanese: 9845000},
		},
		{
			name:       "tax rounds to cents",
			unitPrice:  333.33,
			quantity:   1,
			dollarRate: 1,
			expected:   domain.InvoiceTotals{TotalPrice: 333.33, Subtotal: 333.33, Tax: 36.67, TotalDue: 370, TaxLebanese: 36.67},
		},
		{
			name:       "zero quantity",
			unitPrice:  500,
			quantity:   0,
			dollarRate: 89000,
			expected:   domain.InvoiceTotals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeInvoiceTotals(tt.unitPrice, tt.quantity, tt.dollarRate)
			assert.InDelta(t, tt.expected.TotalPrice, got.TotalPrice, 0.001)
			assert.InDelta(t, tt.expected.Subtotal, got.Subtotal, 0.001)
			assert.InDelta(t, tt.expected.Tax, got.Tax, 0.001)
			assert.InDelta(t, tt.expected.TotalDue, got.TotalDue, 0.001)
			assert.InDelta(t, tt.expected.TaxLebanese, got.TaxLebanese, 0.01)
		})
	}
}

func TestInvoiceTotals_Apply(t *testing.T) {
	inv := &domain.Invoice{}
	domain.ComputeInvoiceTotals(200, 2, 10).Apply(inv)
	assert.Equal(t, 400.0, inv.Subtotal)
	assert.Equal(t, 44.0, inv.Tax)
	assert.Equal(t, 444.0, inv.TotalDue)
	assert.Equal(t, 440.0, inv.TaxLebanese)
}

func TestDeductStock(t *testing.T) {
	assert.Equal(t, 7, domain.DeductStock(10, 3))
	assert.Equal(t, 0, domain.DeductStock(2, 5))
	assert.Equal(t, 0, domain.DeductStock(0, 1))
	assert.Equal(t, 6, domain.DeductStock(2, -4))
}

func TestRepairPartsTotal(t *testing.T) {
	parts := []domain.RepairPart{{TotalCost: 12.5}, {TotalCost: 7.5}}
	assert.Equal(t, 20.0, domain.RepairPartsTotal(parts))
	assert.Equal(t, 0.0, domain.RepairPartsTotal(nil))
}

// =============================================================================
// Models
// =============================================================================

func TestInventoryItem_StockStatus(t *testing.T) {
	tests := []struct {
		name     string
		qty      int
		reorder  int
		expected domain.StockStatus
	}{
		{"empty", 0, 5, domain.StockStatusOutOfStock},
		{"at reorder point", 5, 5, domain.StockStatusLowStock},
		{"below reorder point", 2, 5, domain.StockStatusLowStock},
		{"plenty", 6, 5, domain.StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.InventoryItem{Quantity: tt.qty, ReorderPoint: tt.reorder}
			assert.Equal(t, tt.expected, item.StockStatus())
		})
	}
}

func TestQuotation_NetPrice(t *testing.T) {
	q := domain.Quotation{Price: 1500, Discount: 250}
	assert.Equal(t, 1250.0, q.NetPrice())
}

func TestCountries(t *testing.T) {
	assert.Len(t, domain.Countries(), 18)
	assert.True(t, domain.IsValidCountry("LB"))
	assert.False(t, domain.IsValidCountry("NO"))
	assert.Equal(t, "Japan", domain.CountryName("JP"))
	assert.Equal(t, "XX", domain.CountryName("XX"))
	assert.Equal(t, "Canada", domain.Countries()[0].Name)
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := domain.NewPaginatedResponse([]string{}, 45, 2, 20)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	last := domain.NewPaginatedResponse([]string{}, 45, 3, 20)
	assert.False(t, last.HasNext)

	empty := domain.NewPaginatedResponse([]string{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestRelatedRecordsError(t *testing.T) {
	err := &domain.RelatedRecordsError{
		Entity: "scope",
		Related: []domain.RelatedCount{
			{Collection: "evaluations", Count: 2},
			{Collection: "invoices", Count: 1},
		},
	}
	assert.Equal(t,
		"Cannot delete scope because it has related records in: evaluations (2), invoices (1). Please delete the related records first.",
		err.Error())
}
