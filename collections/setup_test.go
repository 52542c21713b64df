package collections_test

import (
	"testing"

	"salesdesk/collections"
	"salesdesk/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"settings",
	"quotes",
	"quote_items",
	"evaluations",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_QuotesFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotes")

	fields := []string{
		"number", "issue_date", "client_rut", "client_name", "client_email", "seller",
		"validity_days", "payment_terms", "notes", "subtotal", "iva_rate", "iva", "total",
		"created", "updated",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotes: missing field %q", f)
		}
	}
}

func TestSetup_QuoteItemsCascade(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quote_items")

	quoteField := col.Fields.GetByName("quote")
	rf, ok := quoteField.(*core.RelationField)
	if !ok {
		t.Fatalf("quote_items.quote is not a RelationField")
	}
	if !rf.CascadeDelete {
		t.Error("quote_items.quote: expected CascadeDelete=true")
	}
	if rf.MaxSelect != 1 {
		t.Errorf("quote_items.quote: expected MaxSelect=1, got %d", rf.MaxSelect)
	}
}

func TestSetup_EvaluationVerdict(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("evaluations")

	sf, ok := col.Fields.GetByName("verdict").(*core.SelectField)
	if !ok {
		t.Fatalf("evaluations.verdict is not a SelectField")
	}
	expected := map[string]bool{"viable": true, "marginal": true, "no_viable": true}
	for _, v := range sf.Values {
		if !expected[v] {
			t.Errorf("unexpected verdict value: %q", v)
		}
		delete(expected, v)
	}
	for v := range expected {
		t.Errorf("missing verdict value: %q", v)
	}
}

func TestSetup_SettingsKeyUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("settings")

	first := core.NewRecord(col)
	first.Set("key", "company")
	first.Set("value", map[string]any{"name": "A"})
	if err := app.Save(first); err != nil {
		t.Fatalf("save first setting: %v", err)
	}

	dup := core.NewRecord(col)
	dup.Set("key", "company")
	dup.Set("value", map[string]any{"name": "B"})
	if err := app.Save(dup); err == nil {
		t.Error("expected duplicate settings key to be rejected")
	}
}

func TestDeleteQuote_CascadesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quote := testhelpers.CreateTestQuote(t, app, "COT-2026-0001", "Cliente Uno")
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 1, "Detergente 5 L", 2, 8990, 0)
	testhelpers.CreateTestQuoteItem(t, app, quote.Id, 2, "Cloro gel", 1, 1490, 0)

	if err := app.Delete(quote); err != nil {
		t.Fatalf("delete quote: %v", err)
	}

	items, err := app.FindRecordsByFilter("quote_items", "quote = {:id}", "", 0, 0, map[string]any{"id": quote.Id})
	if err != nil {
		t.Fatalf("query items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected items to cascade, %d remain", len(items))
	}
}
