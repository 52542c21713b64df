package services

import (
	"sort"
	"strings"
	"time"

	"salesdesk/sheets"
)

// KPIStatus classifies how a goal is tracking.
type KPIStatus string

const (
	KPIOk      KPIStatus = "ok"
	KPIWarning KPIStatus = "warning"
	KPIBehind  KPIStatus = "behind"
)

// Label returns the status as shown to users.
func (s KPIStatus) Label() string {
	switch s {
	case KPIOk:
		return "En meta"
	case KPIWarning:
		return "En riesgo"
	case KPIBehind:
		return "Atrasado"
	}
	return string(s)
}

// KPIFigures are the computed figures shared by a goal row, a seller and
// the overall summary.
type KPIFigures struct {
	Goal         float64
	Actual       float64
	Achievement  float64 // actual / goal, percent
	Projected    float64 // actual / month progress
	ProjectedPct float64 // projected / goal, percent
	Gap          float64 // goal - actual, never negative
	Status       KPIStatus
}

// GoalRow is one goal with its computed figures.
type GoalRow struct {
	Seller   string
	Category string
	KPIFigures
}

// SellerSummary groups a seller's goals.
type SellerSummary struct {
	Seller string
	Rows   []GoalRow
	KPIFigures
}

// KPISummary is the result of SummarizeGoals.
type KPISummary struct {
	Date          time.Time
	MonthProgress float64 // percent of the month elapsed
	Sellers       []SellerSummary
	Total         KPIFigures
}

// MonthProgress returns the fraction (0..1] of the month of now that has
// elapsed, counting today as elapsed.
func MonthProgress(now time.Time) float64 {
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return float64(now.Day()) / float64(daysInMonth)
}

// KPIStatusFor classifies an achievement percentage: ok at 100 or more,
// warning from 80, behind below that.
func KPIStatusFor(pct float64) KPIStatus {
	switch {
	case pct >= 100:
		return KPIOk
	case pct >= 80:
		return KPIWarning
	default:
		return KPIBehind
	}
}

func computeFigures(goal, actual, progress float64) KPIFigures {
	f := KPIFigures{Goal: goal, Actual: actual}
	if progress > 0 {
		f.Projected = actual / progress
	}
	if goal > 0 {
		f.Achievement = actual / goal * 100
		f.ProjectedPct = f.Projected / goal * 100
		f.Gap = max(goal-actual, 0)
		f.Status = KPIStatusFor(f.ProjectedPct)
	} else {
		f.Status = KPIOk
	}
	return f
}

// SummarizeGoals computes achievement, month-end projection and status for
// every goal, grouped per seller and overall, sorted by seller then
// category. Status is judged on the projection so a goal is not flagged
// early in the month just because the month is young.
func SummarizeGoals(goals []Goal, now time.Time) KPISummary {
	progress := MonthProgress(now)
	summary := KPISummary{Date: now, MonthProgress: progress * 100}

	sorted := append([]Goal(nil), goals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sheets.Normalize(sorted[i].Seller), sheets.Normalize(sorted[j].Seller)
		if si != sj {
			return si < sj
		}
		return sheets.Normalize(sorted[i].Category) < sheets.Normalize(sorted[j].Category)
	})

	var totalGoal, totalActual float64
	var current *SellerSummary
	var sellerGoal, sellerActual float64
	flush := func() {
		if current == nil {
			return
		}
		current.KPIFigures = computeFigures(sellerGoal, sellerActual, progress)
		summary.Sellers = append(summary.Sellers, *current)
	}

	for _, g := range sorted {
		if current == nil || sheets.Normalize(current.Seller) != sheets.Normalize(g.Seller) {
			flush()
			current = &SellerSummary{Seller: g.Seller}
			sellerGoal, sellerActual = 0, 0
		}
		current.Rows = append(current.Rows, GoalRow{
			Seller:     g.Seller,
			Category:   g.Category,
			KPIFigures: computeFigures(g.Goal, g.Actual, progress),
		})
		sellerGoal += g.Goal
		sellerActual += g.Actual
		totalGoal += g.Goal
		totalActual += g.Actual
	}
	flush()

	summary.Total = computeFigures(totalGoal, totalActual, progress)
	return summary
}

// FilterGoalsBySeller keeps the goals of seller, matched accent- and
// case-insensitively. An empty seller keeps everything.
func FilterGoalsBySeller(goals []Goal, seller string) []Goal {
	key := sheets.Normalize(seller)
	if key == "" {
		return goals
	}
	var out []Goal
	for _, g := range goals {
		if sheets.Normalize(g.Seller) == key {
			out = append(out, g)
		}
	}
	return out
}

// Sellers returns the distinct seller names, sorted.
func Sellers(goals []Goal) []string {
	seen := map[string]bool{}
	var out []string
	for _, g := range goals {
		key := sheets.Normalize(g.Seller)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(g.Seller))
	}
	sort.Slice(out, func(i, j int) bool { return sheets.Normalize(out[i]) < sheets.Normalize(out[j]) })
	return out
}

// FillActualsFromSales sets the actual of every goal that has none to the
// revenue of the sales lines of that seller's clients in the goal's
// category. Sales are matched to sellers through the client RUT.
func FillActualsFromSales(goals []Goal, sales []SaleLine, clients []Client) []Goal {
	sellerByRUT := make(map[string]string, len(clients))
	for _, c := range clients {
		if rut := NormalizeRUT(c.RUT); rut != "" {
			sellerByRUT[rut] = sheets.Normalize(c.Seller)
		}
	}

	type key struct{ seller, category string }
	revenue := map[key]float64{}
	for _, s := range sales {
		seller := sellerByRUT[NormalizeRUT(s.ClientRUT)]
		if seller == "" {
			continue
		}
		revenue[key{seller, sheets.Normalize(s.ProductLine)}] += s.Quantity * s.UnitPrice
	}

	out := make([]Goal, len(goals))
	for i, g := range goals {
		if g.Actual == 0 {
			g.Actual = revenue[key{sheets.Normalize(g.Seller), sheets.Normalize(g.Category)}]
		}
		out[i] = g
	}
	return out
}
