package models

// PricingSettings holds the fee tiers. There is exactly one per store.
type PricingSettings struct {
	Monthly          float64 `json:"monthly" yaml:"monthly"`
	Quarterly        float64 `json:"quarterly" yaml:"quarterly"`
	HalfYearly       float64 `json:"halfYearly" yaml:"half_yearly"`
	Yearly           float64 `json:"yearly" yaml:"yearly"`
	Registration     float64 `json:"registration" yaml:"registration"`
	PersonalTraining float64 `json:"personalTraining" yaml:"personal_training"`
}

// DefaultPricing returns the tiers used when nothing else is configured.
func DefaultPricing() PricingSettings {
	return PricingSettings{
		Monthly:          1500,
		Quarterly:        4000,
		HalfYearly:       7500,
		Yearly:           14000,
		Registration:     500,
		PersonalTraining: 3000,
	}
}

// DefaultTerms is the terms text used when nothing else is configured.
const DefaultTerms = "Membership fees are non-refundable. Members must carry their ID card and follow gym rules at all times."

// PricingPatch lists the updatable tiers.
type PricingPatch struct {
	Monthly          *float64
	Quarterly        *float64
	HalfYearly       *float64
	Yearly           *float64
	Registration     *float64
	PersonalTraining *float64
}

// Apply copies the supplied tiers onto s.
func (p PricingPatch) Apply(s *PricingSettings) {
	if p.Monthly != nil {
		s.Monthly = *p.Monthly
	}
	if p.Quarterly != nil {
		s.Quarterly = *p.Quarterly
	}
	if p.HalfYearly != nil {
		s.HalfYearly = *p.HalfYearly
	}
	if p.Yearly != nil {
		s.Yearly = *p.Yearly
	}
	if p.Registration != nil {
		s.Registration = *p.Registration
	}
	if p.PersonalTraining != nil {
		s.PersonalTraining = *p.PersonalTraining
	}
}
