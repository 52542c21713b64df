package collections_test

import (
	"testing"

	"salesdesk/collections"
	"salesdesk/testhelpers"
)

func TestSeed_CreatesSampleQuote(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	quotes, err := app.FindAllRecords("quotes")
	if err != nil {
		t.Fatalf("query quotes error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	q := quotes[0]

	items, _ := app.FindRecordsByFilter("quote_items", "quote = {:id}", "sort_order", 0, 0, map[string]any{"id": q.Id})
	if len(items) != 3 {
		t.Fatalf("expected 3 quote items, got %d", len(items))
	}

	var net float64
	for _, it := range items {
		net += it.GetFloat("net")
	}
	if net != q.GetFloat("subtotal") {
		t.Errorf("items net %v != quote subtotal %v", net, q.GetFloat("subtotal"))
	}
	if q.GetFloat("total") != q.GetFloat("subtotal")+q.GetFloat("iva") {
		t.Errorf("total %v != subtotal + iva", q.GetFloat("total"))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	quotes, _ := app.FindAllRecords("quotes")
	if len(quotes) != 1 {
		t.Errorf("expected 1 quote after two seeds, got %d", len(quotes))
	}
}

func TestSeedSettings_KeepsExistingValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	defaults := map[string]any{
		"company":    map[string]any{"name": "Distribuidora"},
		"sheet_urls": map[string]any{"clients": "https://docs.google.com/spreadsheets/d/abc/edit"},
	}
	if err := collections.SeedSettings(app, defaults); err != nil {
		t.Fatalf("SeedSettings() error: %v", err)
	}

	rec, err := app.FindFirstRecordByData("settings", "key", "company")
	if err != nil {
		t.Fatalf("company setting missing: %v", err)
	}
	rec.Set("value", map[string]any{"name": "Editado"})
	if err := app.Save(rec); err != nil {
		t.Fatalf("save edited setting: %v", err)
	}

	defaults["company"] = map[string]any{"name": "Otro"}
	if err := collections.SeedSettings(app, defaults); err != nil {
		t.Fatalf("second SeedSettings() error: %v", err)
	}

	all, _ := app.FindAllRecords("settings")
	if len(all) != 2 {
		t.Errorf("expected 2 settings records, got %d", len(all))
	}

	rec, _ = app.FindFirstRecordByData("settings", "key", "company")
	if got := rec.GetString("value"); got != `{"name":"Editado"}` {
		t.Errorf("company setting = %s, want edited value kept", got)
	}
}
