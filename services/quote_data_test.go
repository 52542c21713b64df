package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/config"
	"salesdesk/testhelpers"
)

func sampleQuote() Quote {
	return Quote{
		Date:         time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC),
		Client:       Client{RUT: "76.123.456-0", Name: "Supermercado El Roble", Email: "compras@elroble.cl"},
		Seller:       "Ana Rojas",
		ValidityDays: 15,
		PaymentTerms: "30 días",
		Items: []QuoteItem{
			{Code: "DET-5", Description: "Detergente 5 L", Unit: "Bidón", Quantity: 10, UnitPrice: 1500, DiscountPercent: 10},
			{Code: "CLO-1", Unit: "Caja", Quantity: 2, UnitPrice: 2990},
		},
	}
}

func TestSaveQuote_NumbersAndStoresItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec, err := SaveQuote(app, sampleQuote(), 19, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "COT-2026-0001", rec.GetString("number"))
	// 10 x 1500 - 10% = 13500; 2 x 2990 = 5980
	assert.Equal(t, 19480.0, rec.GetFloat("subtotal"))
	assert.Equal(t, 3701.0, rec.GetFloat("iva"))
	assert.Equal(t, 23181.0, rec.GetFloat("total"))
	assert.Equal(t, 1500.0, rec.GetFloat("discount"))

	items, err := app.FindRecordsByFilter("quote_items", "quote = {:id}", "sort_order", 0, 0, map[string]any{"id": rec.Id})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Detergente 5 L", items[0].GetString("description"))
	assert.Equal(t, 13500.0, items[0].GetFloat("net"))
	// description falls back to the code
	assert.Equal(t, "CLO-1", items[1].GetString("description"))

	second, err := SaveQuote(app, sampleQuote(), 19, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "COT-2026-0002", second.GetString("number"))
}

func TestSaveQuote_DefaultsDateToNow(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := sampleQuote()
	q.Date = time.Time{}
	now := time.Date(2027, time.January, 3, 9, 0, 0, 0, time.UTC)

	rec, err := SaveQuote(app, q, 19, now)
	require.NoError(t, err)
	assert.Equal(t, "COT-2027-0001", rec.GetString("number"))
	assert.True(t, rec.GetDateTime("issue_date").Time().Equal(now))
}

func TestBuildQuoteExportData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	company := config.Company{Name: "Distribuidora Sur", RUT: "76.543.210-3"}

	rec, err := SaveQuote(app, sampleQuote(), 19, time.Now())
	require.NoError(t, err)

	data, err := BuildQuoteExportData(app, rec.Id, company)
	require.NoError(t, err)

	assert.Equal(t, "COT-2026-0001", data.Number)
	assert.Equal(t, "Distribuidora Sur", data.Company.Name)
	assert.Equal(t, "Supermercado El Roble", data.Client.Name)
	assert.Equal(t, "76.123.456-0", data.Client.RUT)
	assert.Equal(t, "30 días", data.PaymentTerms)
	assert.Equal(t, 15, data.ValidityDays)
	assert.Equal(t, time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC), data.ValidUntil.UTC())

	require.Len(t, data.Lines, 2)
	assert.Equal(t, 1, data.Lines[0].No)
	assert.Equal(t, 2, data.Lines[1].No)
	assert.Equal(t, 13500.0, data.Lines[0].Net)

	assert.Equal(t, 23181.0, data.Totals.Total)
	assert.Equal(t, AmountToWords(23181), data.AmountInWords)
}

func TestBuildQuoteExportData_RecalculatesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "COT-2026-0007", "Minimarket Aurora")
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Toalla de papel", 3, 1000, 0)

	// stale stored total
	quote, err := app.FindRecordById("quotes", quote.Id)
	require.NoError(t, err)
	quote.Set("total", 1)
	require.NoError(t, app.Save(quote))

	data, err := BuildQuoteExportData(app, quote.Id, config.Company{})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, data.Totals.Subtotal)
	assert.Equal(t, 570.0, data.Totals.IVA)
	assert.Equal(t, 3570.0, data.Totals.Total)
}

func TestBuildQuoteExportData_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := BuildQuoteExportData(app, "missing", config.Company{})
	assert.Error(t, err)
}

func TestListQuotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestQuote(t, app, "COT-2026-0001", "Supermercado El Roble")
	testhelpers.CreateTestQuote(t, app, "COT-2026-0002", "Minimarket Aurora")
	testhelpers.CreateTestQuote(t, app, "COT-2026-0003", "Hotel Frontera")

	all, err := ListQuotes(app, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "COT-2026-0003", all[0].Number)

	found, err := ListQuotes(app, "aurora")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Minimarket Aurora", found[0].ClientName)

	none, err := ListQuotes(app, "no existe")
	require.NoError(t, err)
	assert.Empty(t, none)
}
