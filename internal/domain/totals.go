package domain

import "math"

// TaxRate is the Lebanese TVA applied to invoices
const TaxRate = 0.11

// InvoiceTotals holds the derived money fields of an invoice
type InvoiceTotals struct {
	TotalPrice  float64
	Subtotal    float64
	Tax         float64
	TotalDue    float64
	TaxLebanese float64
}

// RoundMoney rounds to two decimals
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeInvoiceTotals derives invoice totals from price, quantity and LBP rate
func ComputeInvoiceTotals(unitPrice float64, quantity int, dollarRate float64) InvoiceTotals {
	total := unitPrice * float64(quantity)
	tax := RoundMoney(total * TaxRate)
	return InvoiceTotals{
		TotalPrice:  total,
		Subtotal:    total,
		Tax:         tax,
		TotalDue:    total + tax,
		TaxLebanese: tax * dollarRate,
	}
}

// Apply copies the totals onto an invoice
func (t InvoiceTotals) Apply(inv *Invoice) {
	inv.TotalPrice = t.TotalPrice
	inv.Subtotal = t.Subtotal
	inv.Tax = t.Tax
	inv.TotalDue = t.TotalDue
	inv.TaxLebanese = t.TaxLebanese
}

// RepairPartsTotal sums the line totals of the given parts
func RepairPartsTotal(parts []RepairPart) float64 {
	var sum float64
	for _, p := range parts {
		sum += p.TotalCost
	}
	return sum
}

// DeductStock returns the new quantity after consuming used units, never below zero.
// A negative used value restocks.
func DeductStock(quantity, used int) int {
	if used >= quantity {
		return 0
	}
	return quantity - used
}
