package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthProgress(t *testing.T) {
	tests := []struct {
		date time.Time
		want float64
	}{
		{time.Date(2026, time.October, 31, 9, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, time.February, 14, 9, 0, 0, 0, time.UTC), 0.5},
		{time.Date(2028, time.February, 29, 9, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, time.April, 3, 9, 0, 0, 0, time.UTC), 0.1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, MonthProgress(tt.date), 1e-9, "MonthProgress(%s)", tt.date.Format("2006-01-02"))
	}
}

func TestKPIStatusFor(t *testing.T) {
	assert.Equal(t, KPIOk, KPIStatusFor(100))
	assert.Equal(t, KPIOk, KPIStatusFor(130))
	assert.Equal(t, KPIWarning, KPIStatusFor(80))
	assert.Equal(t, KPIWarning, KPIStatusFor(99.9))
	assert.Equal(t, KPIBehind, KPIStatusFor(79.9))
	assert.Equal(t, "En riesgo", KPIWarning.Label())
}

func TestSummarizeGoals(t *testing.T) {
	// Feb 14 2026: half of the month elapsed.
	now := time.Date(2026, time.February, 14, 12, 0, 0, 0, time.UTC)
	goals := []Goal{
		{Seller: "Luis", Category: "Lácteos", Goal: 1000, Actual: 300},
		{Seller: "Ana", Category: "Limpieza", Goal: 2000, Actual: 1000},
		{Seller: "Ana", Category: "Abarrotes", Goal: 1000, Actual: 450},
		{Seller: "ana", Category: "Bebidas", Goal: 0, Actual: 50},
	}

	s := SummarizeGoals(goals, now)
	assert.InDelta(t, 50, s.MonthProgress, 1e-9)
	require.Len(t, s.Sellers, 2)

	ana := s.Sellers[0]
	assert.Equal(t, "Ana", ana.Seller)
	require.Len(t, ana.Rows, 3)
	assert.Equal(t, []string{"Abarrotes", "Bebidas", "Limpieza"},
		[]string{ana.Rows[0].Category, ana.Rows[1].Category, ana.Rows[2].Category})

	groceries := ana.Rows[0]
	assert.InDelta(t, 45, groceries.Achievement, 1e-9)
	assert.InDelta(t, 900, groceries.Projected, 1e-9)
	assert.InDelta(t, 90, groceries.ProjectedPct, 1e-9)
	assert.InDelta(t, 550, groceries.Gap, 1e-9)
	assert.Equal(t, KPIWarning, groceries.Status)

	noGoal := ana.Rows[1]
	assert.Zero(t, noGoal.Achievement)
	assert.Equal(t, KPIOk, noGoal.Status)

	assert.Equal(t, KPIOk, ana.Rows[2].Status) // 1000/2000 at mid-month projects to 100%

	assert.InDelta(t, 3000, ana.Goal, 1e-9)
	assert.InDelta(t, 1500, ana.Actual, 1e-9)
	assert.InDelta(t, 50, ana.Achievement, 1e-9)

	luis := s.Sellers[1]
	assert.Equal(t, KPIBehind, luis.Status) // projects to 60%

	assert.InDelta(t, 4000, s.Total.Goal, 1e-9)
	assert.InDelta(t, 1800, s.Total.Actual, 1e-9)
	assert.InDelta(t, 90, s.Total.ProjectedPct, 1e-9)
	assert.Equal(t, KPIWarning, s.Total.Status)
}

func TestSummarizeGoals_Empty(t *testing.T) {
	s := SummarizeGoals(nil, time.Now())
	assert.Empty(t, s.Sellers)
	assert.Zero(t, s.Total.Goal)
	assert.Equal(t, KPIOk, s.Total.Status)
}

func TestFilterGoalsBySeller(t *testing.T) {
	goals := []Goal{{Seller: "José"}, {Seller: "Ana"}, {Seller: "jose "}}
	assert.Len(t, FilterGoalsBySeller(goals, "JOSE"), 2)
	assert.Len(t, FilterGoalsBySeller(goals, ""), 3)
	assert.Empty(t, FilterGoalsBySeller(goals, "Pedro"))
	assert.Equal(t, []string{"Ana", "José"}, Sellers(goals))
}

func TestFillActualsFromSales(t *testing.T) {
	clients := []Client{
		{RUT: "76.123.456-0", Name: "Minimarket Don Pepe", Seller: "Ana Rojas"},
		{RUT: "12.345.678-5", Name: "Café Ñuñoa", Seller: "Luis"},
	}
	sales := []SaleLine{
		{ClientRUT: "761234560", ProductLine: "Limpieza", Quantity: 10, UnitPrice: 1000},
		{ClientRUT: "76.123.456-0", ProductLine: "limpieza", Quantity: 5, UnitPrice: 200},
		{ClientRUT: "12.345.678-5", ProductLine: "Lácteos", Quantity: 2, UnitPrice: 500},
		{ClientRUT: "99.999.999-9", ProductLine: "Limpieza", Quantity: 1, UnitPrice: 1e6},
	}
	goals := []Goal{
		{Seller: "ana rojas", Category: "Limpieza", Goal: 20000},
		{Seller: "Luis", Category: "Lacteos", Goal: 5000},
		{Seller: "Luis", Category: "Limpieza", Goal: 5000, Actual: 4200},
	}

	got := FillActualsFromSales(goals, sales, clients)
	require.Len(t, got, 3)
	assert.Equal(t, 11000.0, got[0].Actual)
	assert.Equal(t, 1000.0, got[1].Actual)
	assert.Equal(t, 4200.0, got[2].Actual, "a goal with its own actual is kept")
	assert.Zero(t, goals[0].Actual, "input is not modified")
}
