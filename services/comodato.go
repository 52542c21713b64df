package services

import "math"

// Verdict is the outcome of a comodato evaluation.
type Verdict string

const (
	VerdictViable    Verdict = "viable"
	VerdictMarginal  Verdict = "marginal"
	VerdictNotViable Verdict = "no_viable"
)

// Label returns the verdict as shown to users.
func (v Verdict) Label() string {
	switch v {
	case VerdictViable:
		return "Viable"
	case VerdictMarginal:
		return "Marginal"
	case VerdictNotViable:
		return "No viable"
	}
	return string(v)
}

// EvaluationInput holds everything needed to evaluate a comodato deal.
// Sales lines are monthly volumes; rates are percentages.
type EvaluationInput struct {
	ClientName     string
	ClientRUT      string
	Equipment      []EquipmentLine
	ContractMonths int
	ElapsedMonths  int
	CommissionRate float64
	TargetMargin   float64
	Sales          []SaleLine
}

// EvaluatedLine holds the calculated monthly figures of one sales line.
type EvaluatedLine struct {
	SaleLine
	Revenue       float64
	Cost          float64
	GrossMargin   float64
	WeightShare   float64 // 0..1
	AllocatedLoan float64
	Commission    float64
	NetMargin     float64
	NetMarginPct  float64
}

// Evaluation is the result of Evaluate.
type Evaluation struct {
	ContractTotal  float64
	MonthlyLoan    float64
	Amortized      float64
	Remaining      float64
	ElapsedMonths  int
	LoanSalesRatio float64 // 0..1
	// EffectiveCommissionRate is the base rate scaled by (1 - LoanSalesRatio).
	EffectiveCommissionRate float64

	Lines           []EvaluatedLine
	TotalRevenue    float64
	TotalCost       float64
	TotalGross      float64
	TotalAllocated  float64
	TotalCommission float64
	TotalNet        float64
	NetMarginPct    float64
	TargetMargin    float64
	PaybackMonths   float64
	Verdict         Verdict
}

// ContractTotal sums the value of the lent equipment.
func ContractTotal(equipment []EquipmentLine) float64 {
	var total float64
	for _, e := range equipment {
		total += e.Quantity * e.UnitValue
	}
	return total
}

// Evaluate runs the comodato viability calculation: the monthly value of the
// lent equipment is allocated across the sales lines by weight, a commission
// scaled down by the loan/sales ratio is deducted and the remaining net
// margin is compared against the target.
func Evaluate(in EvaluationInput) Evaluation {
	ev := Evaluation{
		ContractTotal: ContractTotal(in.Equipment),
		TargetMargin:  in.TargetMargin,
	}

	if in.ContractMonths > 0 {
		ev.MonthlyLoan = ev.ContractTotal / float64(in.ContractMonths)
	}
	ev.ElapsedMonths = min(max(in.ElapsedMonths, 0), max(in.ContractMonths, 0))
	ev.Amortized = ev.MonthlyLoan * float64(ev.ElapsedMonths)
	ev.Remaining = ev.ContractTotal - ev.Amortized

	var totalWeight, totalRevenue float64
	for _, s := range in.Sales {
		totalWeight += math.Max(s.Weight, 0)
		totalRevenue += s.Quantity * s.UnitPrice
	}
	useRevenue := totalWeight == 0
	if useRevenue {
		totalWeight = totalRevenue
	}

	switch {
	case totalRevenue > 0:
		ev.LoanSalesRatio = math.Min(math.Max(ev.MonthlyLoan/totalRevenue, 0), 1)
	case ev.MonthlyLoan > 0:
		ev.LoanSalesRatio = 1
	}
	ev.EffectiveCommissionRate = in.CommissionRate * (1 - ev.LoanSalesRatio)

	ev.Lines = make([]EvaluatedLine, 0, len(in.Sales))
	for _, s := range in.Sales {
		l := EvaluatedLine{SaleLine: s}
		l.Revenue = s.Quantity * s.UnitPrice
		l.Cost = s.Quantity * s.UnitCost
		l.GrossMargin = l.Revenue - l.Cost

		w := math.Max(s.Weight, 0)
		if useRevenue {
			w = l.Revenue
		}
		if totalWeight > 0 {
			l.WeightShare = w / totalWeight
		}
		l.AllocatedLoan = l.WeightShare * ev.MonthlyLoan
		l.Commission = ev.EffectiveCommissionRate / 100 * l.Revenue
		l.NetMargin = l.GrossMargin - l.AllocatedLoan - l.Commission
		if l.Revenue != 0 {
			l.NetMarginPct = l.NetMargin / l.Revenue * 100
		}

		ev.TotalRevenue += l.Revenue
		ev.TotalCost += l.Cost
		ev.TotalGross += l.GrossMargin
		ev.TotalAllocated += l.AllocatedLoan
		ev.TotalCommission += l.Commission
		ev.TotalNet += l.NetMargin
		ev.Lines = append(ev.Lines, l)
	}

	// With no weight or revenue to allocate against, the loan is still a cost.
	if totalWeight == 0 {
		ev.TotalAllocated = ev.MonthlyLoan
		ev.TotalNet -= ev.MonthlyLoan
	}

	if ev.TotalRevenue != 0 {
		ev.NetMarginPct = ev.TotalNet / ev.TotalRevenue * 100
	}

	if contribution := ev.TotalGross - ev.TotalCommission; contribution > 0 {
		ev.PaybackMonths = ev.ContractTotal / contribution
	}

	switch {
	case ev.TotalRevenue > 0 && ev.NetMarginPct >= in.TargetMargin:
		ev.Verdict = VerdictViable
	case ev.TotalRevenue > 0 && ev.NetMarginPct >= 0:
		ev.Verdict = VerdictMarginal
	default:
		ev.Verdict = VerdictNotViable
	}

	return ev
}
