package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/gymdesk/internal/models"
	"pgregory.net/rapid"
)

func TestRemainingBalance(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		paid  float64
		want  float64
	}{
		{name: "unpaid", total: 100, paid: 0, want: 100},
		{name: "partially paid", total: 100, paid: 40, want: 60},
		{name: "fully paid", total: 100, paid: 100, want: 0},
		{name: "overpaid clamps to zero", total: 100, paid: 150, want: 0},
		{name: "zero total", total: 0, paid: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemainingBalance(tt.total, tt.paid); got != tt.want {
				t.Errorf("RemainingBalance(%v, %v) = %v, want %v", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}

func TestRemainingBalanceNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Float64Range(0, 1e6).Draw(t, "total")
		paid := rapid.Float64Range(0, 1e6).Draw(t, "paid")
		got := RemainingBalance(total, paid)
		if got < 0 {
			t.Fatalf("negative balance %v", got)
		}
		if got != math.Max(0, total-paid) {
			t.Fatalf("got %v, want %v", got, math.Max(0, total-paid))
		}
	})
}

func TestApplyProtein(t *testing.T) {
	p := models.Protein{BasePrice: 1200, SellingPrice: 1500, UnitsSold: 4}
	ApplyProtein(&p)
	if p.Margin != 300 {
		t.Errorf("margin = %v, want 300", p.Margin)
	}
	if p.Profit != 1200 {
		t.Errorf("profit = %v, want 1200", p.Profit)
	}
}

func TestItemsTotal(t *testing.T) {
	items := []models.InvoiceItem{
		{Description: "Monthly plan", Quantity: 1, Price: 1500, Total: 1500},
		{Description: "Registration", Quantity: 1, Price: 500, Total: 500},
	}
	if got := ItemsTotal(items); got != 2000 {
		t.Errorf("ItemsTotal = %v, want 2000", got)
	}
	if got := ItemsTotal(nil); got != 0 {
		t.Errorf("ItemsTotal(nil) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	in := DashboardInput{
		Members: []models.Member{
			{ID: "a", Status: models.MemberActive, EndDate: now.AddDate(0, 0, 3)},
			{ID: "b", Status: models.MemberActive, EndDate: now.AddDate(0, 2, 0)},
			{ID: "c", Status: models.MemberExpired, EndDate: now.AddDate(0, -1, 0)},
		},
		Invoices: []models.Invoice{
			{ID: "MP0001", Total: 1500, PaidAmount: 1500, AmountRemaining: 0},
			{ID: "MP0002", Total: 4000, PaidAmount: 1000, AmountRemaining: 3000, DueDate: now.AddDate(0, 0, -1)},
		},
		Proteins: []models.Protein{
			{ID: "p", BasePrice: 100, SellingPrice: 150, UnitsSold: 10, QuantityInStock: 2},
		},
		CheckIns: []models.CheckIn{
			{ID: "x", Date: "2026-03-10"},
			{ID: "y", Date: "2026-03-09"},
		},
		FollowUps: []models.FollowUp{
			{ID: "f1", Status: models.FollowUpPending},
			{ID: "f2", Status: models.FollowUpCompleted},
		},
	}

	d := Summarize(in, now)

	if d.TotalMembers != 3 || d.MembersByState[models.MemberActive] != 2 {
		t.Errorf("member counts = %d/%v", d.TotalMembers, d.MembersByState)
	}
	if d.ExpiringSoon != 1 {
		t.Errorf("ExpiringSoon = %d, want 1", d.ExpiringSoon)
	}
	if d.Revenue != 2500 || d.Outstanding != 3000 || d.Overdue != 1 {
		t.Errorf("invoice totals = %v/%v/%d", d.Revenue, d.Outstanding, d.Overdue)
	}
	if d.ProteinRevenue != 1500 || d.ProteinProfit != 500 || d.LowStock != 1 {
		t.Errorf("protein totals = %v/%v/%d", d.ProteinRevenue, d.ProteinProfit, d.LowStock)
	}
	if d.CheckInsToday != 1 || d.OpenFollowUps != 1 {
		t.Errorf("today = %d, open follow-ups = %d", d.CheckInsToday, d.OpenFollowUps)
	}
}
