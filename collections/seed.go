package collections

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// SeedSettings creates a settings record for every key in defaults that
// has none yet. Existing values are never overwritten, so edits made on the
// settings page survive restarts. Safe to call on every startup.
func SeedSettings(app *pocketbase.PocketBase, defaults map[string]any) error {
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("seed_settings: could not find settings collection: %w", err)
	}

	for key, value := range defaults {
		existing, _ := app.FindRecordsByFilter(
			settingsCol,
			"key = {:key}",
			"",
			1, 0,
			map[string]any{"key": key},
		)
		if len(existing) > 0 {
			continue
		}

		record := core.NewRecord(settingsCol)
		record.Set("key", key)
		record.Set("value", value)
		if err := app.Save(record); err != nil {
			log.Printf("seed_settings: failed to create setting %q: %v\n", key, err)
			continue
		}
	}

	return nil
}

type quoteItemDef struct {
	code        string
	description string
	unit        string
	quantity    float64
	unitPrice   float64
	discount    float64
}

// Seed inserts a sample quote so a fresh install has something to show.
// It returns early if any quote already exists.
func Seed(app *pocketbase.PocketBase) error {
	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}
	existing, err := app.FindAllRecords(quotesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query quotes: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	itemsCol, err := app.FindCollectionByNameOrId("quote_items")
	if err != nil {
		return fmt.Errorf("seed: could not find quote_items collection: %w", err)
	}

	log.Println("seed: quotes collection is empty, inserting sample quote")

	items := []quoteItemDef{
		{"DET-5L", "Detergente líquido 5 L", "Bidón", 12, 8990, 0},
		{"CLO-1L", "Cloro gel 900 ml", "Caja x12", 6, 14400, 5},
		{"PAP-H", "Papel higiénico jumbo 4 rollos", "Fardo", 10, 21500, 10},
	}

	var subtotal, gross, discount float64
	for _, it := range items {
		g := math.Round(it.quantity * it.unitPrice)
		d := math.Round(g * it.discount / 100)
		gross += g
		discount += d
		subtotal += g - d
	}
	const ivaRate = 19.0
	iva := math.Round(subtotal * ivaRate / 100)

	now := time.Now()
	quote := core.NewRecord(quotesCol)
	quote.Set("number", fmt.Sprintf("COT-%d-0001", now.Year()))
	quote.Set("issue_date", now)
	quote.Set("client_rut", "76.123.456-0")
	quote.Set("client_name", "Minimarket Don Pepe SpA")
	quote.Set("client_giro", "Comercio minorista")
	quote.Set("client_address", "Av. Providencia 1234")
	quote.Set("client_commune", "Providencia")
	quote.Set("client_city", "Santiago")
	quote.Set("client_contact", "José Pérez")
	quote.Set("client_email", "compras@donpepe.cl")
	quote.Set("seller", "Ana Rojas")
	quote.Set("validity_days", 15)
	quote.Set("payment_terms", "30 días")
	quote.Set("gross", gross)
	quote.Set("discount", discount)
	quote.Set("subtotal", subtotal)
	quote.Set("iva_rate", ivaRate)
	quote.Set("iva", iva)
	quote.Set("total", subtotal+iva)
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("seed: could not save sample quote: %w", err)
	}

	for i, it := range items {
		g := math.Round(it.quantity * it.unitPrice)
		r := core.NewRecord(itemsCol)
		r.Set("quote", quote.Id)
		r.Set("sort_order", i+1)
		r.Set("code", it.code)
		r.Set("description", it.description)
		r.Set("unit", it.unit)
		r.Set("quantity", it.quantity)
		r.Set("unit_price", it.unitPrice)
		r.Set("discount_percent", it.discount)
		r.Set("net", g-math.Round(g*it.discount/100))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not save quote item %q: %w", it.code, err)
		}
	}

	log.Printf("seed: created sample quote %s\n", quote.GetString("number"))
	return nil
}
