package enrich

// Projection is the deal-size calculator output shown on the dashboard.
type Projection struct {
	DealsPerMonth     int     `json:"dealsPerMonth"`
	CommissionPerDeal float64 `json:"commissionPerDeal"`
	MonthlyIncome     float64 `json:"monthlyIncome"`
	YearlyIncome      float64 `json:"yearlyIncome"`
}

// Project computes income projections from deals closed per month and
// commission per deal.
func Project(dealsPerMonth int, commissionPerDeal float64) Projection {
	monthly := float64(dealsPerMonth) * commissionPerDeal
	return Projection{
		DealsPerMonth:     dealsPerMonth,
		CommissionPerDeal: commissionPerDeal,
		MonthlyIncome:     monthly,
		YearlyIncome:      monthly * 12,
	}
}
