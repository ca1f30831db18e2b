package models

import "time"

// Protein represents a supplement product sold at the front desk.
type Protein struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// BasePrice is the purchase cost per unit. SellingPrice is expected to
	// exceed it; that rule is checked by the caller, not the store.
	BasePrice    float64 `json:"basePrice"`
	SellingPrice float64 `json:"sellingPrice"`

	QuantityInStock int `json:"quantityInStock"`
	UnitsSold       int `json:"unitsSold"`

	SupplierName string     `json:"supplierName,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`

	// Margin and Profit are derived: Margin = SellingPrice - BasePrice,
	// Profit = Margin * UnitsSold.
	Margin float64 `json:"margin"`
	Profit float64 `json:"profit"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Protein) Clone() Protein {
	cp := p
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		cp.ExpiryDate = &t
	}
	return cp
}

// ProteinPatch lists the updatable Protein fields.
type ProteinPatch struct {
	Name            *string
	BasePrice       *float64
	SellingPrice    *float64
	QuantityInStock *int
	UnitsSold       *int
	SupplierName    *string
	ExpiryDate      *time.Time
}

// Apply copies the supplied fields onto pr.
func (p ProteinPatch) Apply(pr *Protein) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.BasePrice != nil {
		pr.BasePrice = *p.BasePrice
	}
	if p.SellingPrice != nil {
		pr.SellingPrice = *p.SellingPrice
	}
	if p.QuantityInStock != nil {
		pr.QuantityInStock = *p.QuantityInStock
	}
	if p.UnitsSold != nil {
		pr.UnitsSold = *p.UnitsSold
	}
	if p.SupplierName != nil {
		pr.SupplierName = *p.SupplierName
	}
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		pr.ExpiryDate = &t
	}
}
