package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
)

// QuoteExportData holds all data needed to render or print a saved quote.
type QuoteExportData struct {
	ID      string
	Company config.Company

	Number       string
	IssueDate    time.Time
	ValidUntil   time.Time
	ValidityDays int
	Seller       string
	PaymentTerms string
	Notes        string

	Client Client
	Lines  []QuoteExportLine

	Totals        QuoteTotals
	AmountInWords string
}

// QuoteExportLine holds a single quote line for display and export.
type QuoteExportLine struct {
	No int
	QuoteLineCalc
}

// SaveQuote numbers q, computes its totals with ivaRate and stores it with
// its items in a single transaction. The saved quote record is returned.
func SaveQuote(app core.App, q Quote, ivaRate float64, now time.Time) (*core.Record, error) {
	lines := CalcQuoteLines(q.Items)
	totals := CalcQuoteTotals(lines, ivaRate)
	if q.Date.IsZero() {
		q.Date = now
	}

	var saved *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		number, err := GenerateQuoteNumber(txApp, q.Date)
		if err != nil {
			return err
		}

		quotesCol, err := txApp.FindCollectionByNameOrId("quotes")
		if err != nil {
			return fmt.Errorf("quotes collection: %w", err)
		}
		itemsCol, err := txApp.FindCollectionByNameOrId("quote_items")
		if err != nil {
			return fmt.Errorf("quote_items collection: %w", err)
		}

		rec := core.NewRecord(quotesCol)
		rec.Set("number", number)
		rec.Set("issue_date", q.Date)
		rec.Set("client_rut", q.Client.RUT)
		rec.Set("client_name", q.Client.Name)
		rec.Set("client_giro", q.Client.BusinessLine)
		rec.Set("client_address", q.Client.Address)
		rec.Set("client_commune", q.Client.Commune)
		rec.Set("client_city", q.Client.City)
		rec.Set("client_contact", q.Client.Contact)
		rec.Set("client_email", q.Client.Email)
		rec.Set("client_phone", q.Client.Phone)
		rec.Set("seller", q.Seller)
		rec.Set("validity_days", q.ValidityDays)
		rec.Set("payment_terms", q.PaymentTerms)
		rec.Set("notes", q.Notes)
		rec.Set("gross", totals.Gross)
		rec.Set("discount", totals.Discount)
		rec.Set("subtotal", totals.Subtotal)
		rec.Set("iva_rate", totals.IVARate)
		rec.Set("iva", totals.IVA)
		rec.Set("total", totals.Total)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save quote: %w", err)
		}

		for i, l := range lines {
			item := core.NewRecord(itemsCol)
			item.Set("quote", rec.Id)
			item.Set("sort_order", i+1)
			item.Set("code", l.Item.Code)
			item.Set("description", quoteItemDescription(l.Item))
			item.Set("unit", l.Item.Unit)
			item.Set("quantity", l.Item.Quantity)
			item.Set("unit_price", l.Item.UnitPrice)
			item.Set("discount_percent", l.Item.DiscountPercent)
			item.Set("net", l.Net)
			if err := txApp.Save(item); err != nil {
				return fmt.Errorf("save quote item %d: %w", i+1, err)
			}
		}

		saved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func quoteItemDescription(item QuoteItem) string {
	if d := strings.TrimSpace(item.Description); d != "" {
		return d
	}
	return item.Code
}

// BuildQuoteExportData assembles a saved quote from its records. Line and
// quote totals are recalculated from the items so the printed figures
// always add up.
func BuildQuoteExportData(app core.App, quoteID string, company config.Company) (*QuoteExportData, error) {
	q, err := app.FindRecordById("quotes", quoteID)
	if err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}

	itemRecords, err := app.FindRecordsByFilter(
		"quote_items",
		"quote = {:quoteId}",
		"sort_order",
		0,
		0,
		map[string]any{"quoteId": quoteID},
	)
	if err != nil {
		log.Printf("quote_export: could not fetch items for quote %s: %v", quoteID, err)
		itemRecords = nil
	}

	var lines []QuoteExportLine
	var calcs []QuoteLineCalc
	for i, rec := range itemRecords {
		calc := CalcQuoteLine(QuoteItem{
			Code:            rec.GetString("code"),
			Description:     rec.GetString("description"),
			Unit:            rec.GetString("unit"),
			Quantity:        rec.GetFloat("quantity"),
			UnitPrice:       rec.GetFloat("unit_price"),
			DiscountPercent: rec.GetFloat("discount_percent"),
		})
		calcs = append(calcs, calc)
		lines = append(lines, QuoteExportLine{No: i + 1, QuoteLineCalc: calc})
	}

	totals := CalcQuoteTotals(calcs, q.GetFloat("iva_rate"))
	issued := q.GetDateTime("issue_date").Time()
	if issued.IsZero() {
		issued = q.GetDateTime("created").Time()
	}
	validity := q.GetInt("validity_days")

	return &QuoteExportData{
		ID:      q.Id,
		Company: company,

		Number:       q.GetString("number"),
		IssueDate:    issued,
		ValidUntil:   issued.AddDate(0, 0, validity),
		ValidityDays: validity,
		Seller:       q.GetString("seller"),
		PaymentTerms: q.GetString("payment_terms"),
		Notes:        q.GetString("notes"),

		Client: Client{
			RUT:          q.GetString("client_rut"),
			Name:         q.GetString("client_name"),
			BusinessLine: q.GetString("client_giro"),
			Address:      q.GetString("client_address"),
			Commune:      q.GetString("client_commune"),
			City:         q.GetString("client_city"),
			Contact:      q.GetString("client_contact"),
			Email:        q.GetString("client_email"),
			Phone:        q.GetString("client_phone"),
		},
		Lines: lines,

		Totals:        totals,
		AmountInWords: AmountToWords(totals.Total),
	}, nil
}

// QuoteSummary is a row of the saved quotes list.
type QuoteSummary struct {
	ID         string
	Number     string
	IssueDate  time.Time
	ClientName string
	Seller     string
	Total      float64
}

// ListQuotes returns saved quotes, newest first. A non-empty search
// matches number or client name.
func ListQuotes(app core.App, search string) ([]QuoteSummary, error) {
	filter := "id != ''"
	params := map[string]any{}
	if s := strings.TrimSpace(search); s != "" {
		filter = "number ~ {:q} || client_name ~ {:q} || client_rut ~ {:q}"
		params["q"] = s
	}

	records, err := app.FindRecordsByFilter("quotes", filter, "-number", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	out := make([]QuoteSummary, 0, len(records))
	for _, r := range records {
		out = append(out, QuoteSummary{
			ID:         r.Id,
			Number:     r.GetString("number"),
			IssueDate:  r.GetDateTime("issue_date").Time(),
			ClientName: r.GetString("client_name"),
			Seller:     r.GetString("seller"),
			Total:      r.GetFloat("total"),
		})
	}
	return out, nil
}
