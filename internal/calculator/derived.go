// Package calculator holds the pure functions behind derived record fields
// and dashboard totals. The store calls them on every mutation that touches
// an input; nothing here keeps state.
package calculator

import (
	"math"

	"github.com/mmynk/gymdesk/internal/models"
)

// RemainingBalance is what is still owed on an invoice: max(0, total - paid).
func RemainingBalance(total, paid float64) float64 {
	return math.Max(0, total-paid)
}

// Margin is the per-unit profit of a product.
func Margin(sellingPrice, basePrice float64) float64 {
	return sellingPrice - basePrice
}

// Profit is the margin earned across all units sold.
func Profit(margin float64, unitsSold int) float64 {
	return margin * float64(unitsSold)
}

// ItemsTotal sums the line totals of an invoice.
func ItemsTotal(items []models.InvoiceItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}

// ApplyInvoice recomputes the derived fields of inv in place.
func ApplyInvoice(inv *models.Invoice) {
	inv.AmountRemaining = RemainingBalance(inv.Total, inv.PaidAmount)
}

// ApplyProtein recomputes the derived fields of p in place.
func ApplyProtein(p *models.Protein) {
	p.Margin = Margin(p.SellingPrice, p.BasePrice)
	p.Profit = Profit(p.Margin, p.UnitsSold)
}
