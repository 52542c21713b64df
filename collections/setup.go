package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// VerdictValues are the stored outcomes of a comodato evaluation.
var VerdictValues = []string{"viable", "marginal", "no_viable"}

// Setup programmatically creates/ensures the settings, quotes, quote_items
// and evaluations collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true, Max: 100})
		c.Fields.Add(&core.JSONField{Name: "value", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_settings_key", true, "`key`", "")
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "number", Required: true})
		c.Fields.Add(&core.DateField{Name: "issue_date"})
		c.Fields.Add(&core.TextField{Name: "client_rut"})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_giro"})
		c.Fields.Add(&core.TextField{Name: "client_address"})
		c.Fields.Add(&core.TextField{Name: "client_commune"})
		c.Fields.Add(&core.TextField{Name: "client_city"})
		c.Fields.Add(&core.TextField{Name: "client_contact"})
		c.Fields.Add(&core.EmailField{Name: "client_email"})
		c.Fields.Add(&core.TextField{Name: "client_phone"})
		c.Fields.Add(&core.TextField{Name: "seller"})
		c.Fields.Add(&core.NumberField{Name: "validity_days", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "payment_terms"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.NumberField{Name: "gross"})
		c.Fields.Add(&core.NumberField{Name: "discount"})
		c.Fields.Add(&core.NumberField{Name: "subtotal"})
		c.Fields.Add(&core.NumberField{Name: "iva_rate"})
		c.Fields.Add(&core.NumberField{Name: "iva"})
		c.Fields.Add(&core.NumberField{Name: "total"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_number", true, "number", "")
	})

	ensureCollection(app, "quote_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "code"})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "discount_percent"})
		c.Fields.Add(&core.NumberField{Name: "net"})
	})

	ensureCollection(app, "evaluations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "client_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_rut"})
		c.Fields.Add(&core.NumberField{Name: "contract_months", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "elapsed_months", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "commission_rate"})
		c.Fields.Add(&core.NumberField{Name: "target_margin"})
		c.Fields.Add(&core.NumberField{Name: "contract_total"})
		c.Fields.Add(&core.NumberField{Name: "monthly_loan"})
		c.Fields.Add(&core.NumberField{Name: "total_revenue"})
		c.Fields.Add(&core.NumberField{Name: "total_net"})
		c.Fields.Add(&core.NumberField{Name: "net_margin_pct"})
		c.Fields.Add(&core.SelectField{
			Name:      "verdict",
			Required:  true,
			Values:    VerdictValues,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "snapshot", MaxSize: 1 << 20})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
