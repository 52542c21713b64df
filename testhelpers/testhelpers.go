// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestQuote creates a quote record with the given number and client.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, number, clientName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("number", number)
	record.Set("issue_date", time.Date(2026, time.October, 1, 12, 0, 0, 0, time.UTC))
	record.Set("client_name", clientName)
	record.Set("client_rut", "76.123.456-0")
	record.Set("client_email", "compras@cliente.cl")
	record.Set("seller", "Ana Rojas")
	record.Set("validity_days", 15)
	record.Set("iva_rate", 19)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestQuoteItem creates a quote item and refreshes the parent quote
// totals so the stored figures stay consistent.
func CreateTestQuoteItem(t *testing.T, app *pocketbase.PocketBase, quoteID string, sortOrder int, description string, qty, unitPrice, discount float64) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		t.Fatalf("failed to find quote_items collection: %v", err)
	}
	gross := qty * unitPrice
	net := gross - gross*discount/100

	record := core.NewRecord(col)
	record.Set("quote", quoteID)
	record.Set("sort_order", sortOrder)
	record.Set("code", "SKU-"+strings.ToUpper(description[:1]))
	record.Set("description", description)
	record.Set("unit", "Unidad")
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)
	record.Set("discount_percent", discount)
	record.Set("net", net)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote item: %v", err)
	}

	quote, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		t.Fatalf("failed to find parent quote: %v", err)
	}
	subtotal := quote.GetFloat("subtotal") + net
	iva := subtotal * quote.GetFloat("iva_rate") / 100
	quote.Set("gross", quote.GetFloat("gross")+gross)
	quote.Set("discount", quote.GetFloat("discount")+gross-net)
	quote.Set("subtotal", subtotal)
	quote.Set("iva", iva)
	quote.Set("total", subtotal+iva)
	if err := app.Save(quote); err != nil {
		t.Fatalf("failed to update quote totals: %v", err)
	}
	return record
}

// CreateTestEvaluation creates an evaluations record with the given verdict.
func CreateTestEvaluation(t *testing.T, app *pocketbase.PocketBase, clientName, verdict string) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId("evaluations")
	if err != nil {
		t.Fatalf("failed to find evaluations collection: %v", err)
	}
	record := core.NewRecord(col)
	record.Set("client_name", clientName)
	record.Set("contract_months", 24)
	record.Set("verdict", verdict)
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test evaluation: %v", err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
