package calculator

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// Dashboard aggregates the figures shown on the front-desk overview.
type Dashboard struct {
	TotalMembers   int
	MembersByState map[models.MemberStatus]int

	// ExpiringSoon counts active members whose membership ends within the window.
	ExpiringSoon int

	Revenue     float64 // Sum of paid amounts across invoices
	Outstanding float64 // Sum of remaining balances
	Overdue     int     // Invoices past due that still carry a balance

	ProteinRevenue float64 // SellingPrice * UnitsSold, summed
	ProteinProfit  float64 // Margin * UnitsSold, summed
	LowStock       int     // Products at or below LowStockThreshold

	CheckInsToday int
	OpenFollowUps int
}

// LowStockThreshold is the stock level at which a product counts as low.
const LowStockThreshold = 5

// DashboardInput is the read-only data Summarize works on.
type DashboardInput struct {
	Members   []models.Member
	Invoices  []models.Invoice
	Proteins  []models.Protein
	CheckIns  []models.CheckIn
	FollowUps []models.FollowUp
}

// Summarize computes the dashboard as of now. Expiry is checked against a
// seven-day window.
func Summarize(in DashboardInput, now time.Time) Dashboard {
	d := Dashboard{
		TotalMembers:   len(in.Members),
		MembersByState: make(map[models.MemberStatus]int),
	}

	soon := now.AddDate(0, 0, 7)
	for _, m := range in.Members {
		d.MembersByState[m.Status]++
		if m.Status == models.MemberActive && !m.EndDate.Before(now) && m.EndDate.Before(soon) {
			d.ExpiringSoon++
		}
	}

	for _, inv := range in.Invoices {
		d.Revenue += inv.PaidAmount
		d.Outstanding += inv.AmountRemaining
		if inv.AmountRemaining > 0 && !inv.DueDate.IsZero() && inv.DueDate.Before(now) {
			d.Overdue++
		}
	}

	for _, p := range in.Proteins {
		d.ProteinRevenue += p.SellingPrice * float64(p.UnitsSold)
		d.ProteinProfit += Profit(Margin(p.SellingPrice, p.BasePrice), p.UnitsSold)
		if p.QuantityInStock <= LowStockThreshold {
			d.LowStock++
		}
	}

	today := now.Format(models.DayLayout)
	for _, c := range in.CheckIns {
		if c.Date == today {
			d.CheckInsToday++
		}
	}

	for _, f := range in.FollowUps {
		switch f.Status {
		case models.FollowUpCompleted, models.FollowUpCancelled, models.FollowUpConverted:
		default:
			d.OpenFollowUps++
		}
	}

	return d
}
