package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// QuoteItem is one product line of a quote. Prices are net, before IVA.
type QuoteItem struct {
	Code            string
	Description     string
	Unit            string
	Quantity        float64
	UnitPrice       float64
	DiscountPercent float64
}

// QuoteLineCalc holds the calculated amounts for a single quote line.
type QuoteLineCalc struct {
	Item     QuoteItem
	Gross    float64 // Quantity * UnitPrice
	Discount float64 // Gross * DiscountPercent / 100
	Net      float64 // Gross - Discount
}

// QuoteTotals holds the aggregated totals of a quote, in whole pesos.
type QuoteTotals struct {
	Gross    float64
	Discount float64
	Subtotal float64 // net, before IVA
	IVARate  float64
	IVA      float64
	Total    float64
}

// Quote is a quote draft as entered in the form.
type Quote struct {
	Number       string
	Date         time.Time
	Client       Client
	Seller       string
	ValidityDays int
	PaymentTerms string
	Notes        string
	Items        []QuoteItem
}

// CalcQuoteLine calculates a single line. The discount is clamped to
// 0..100 and every amount is rounded to whole pesos.
func CalcQuoteLine(item QuoteItem) QuoteLineCalc {
	item.DiscountPercent = math.Min(math.Max(item.DiscountPercent, 0), 100)
	gross := math.Round(item.Quantity * item.UnitPrice)
	discount := math.Round(gross * item.DiscountPercent / 100)
	return QuoteLineCalc{
		Item:     item,
		Gross:    gross,
		Discount: discount,
		Net:      gross - discount,
	}
}

// CalcQuoteLines calculates every item of a quote.
func CalcQuoteLines(items []QuoteItem) []QuoteLineCalc {
	lines := make([]QuoteLineCalc, 0, len(items))
	for _, item := range items {
		lines = append(lines, CalcQuoteLine(item))
	}
	return lines
}

// CalcQuoteTotals sums the lines and applies IVA on the net subtotal.
func CalcQuoteTotals(lines []QuoteLineCalc, ivaRate float64) QuoteTotals {
	var totals QuoteTotals
	for _, l := range lines {
		totals.Gross += l.Gross
		totals.Discount += l.Discount
		totals.Subtotal += l.Net
	}
	totals.IVARate = ivaRate
	totals.IVA = math.Round(totals.Subtotal * ivaRate / 100)
	totals.Total = totals.Subtotal + totals.IVA
	return totals
}

// ValidEmail reports whether s is a syntactically valid address. The
// domain is not looked up.
func ValidEmail(s string) bool {
	return is.EmailFormat.Validate(s) == nil
}

// ValidateQuote checks a draft before it is saved. The returned map is
// keyed by form field; an empty map means the quote is valid.
func ValidateQuote(q Quote) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(q.Client.Name) == "" {
		errors["client_name"] = "Ingrese el nombre del cliente"
	}
	if q.Client.RUT != "" && !ValidRUT(q.Client.RUT) {
		errors["client_rut"] = "RUT inválido"
	}
	if q.Client.Email != "" {
		if !ValidEmail(q.Client.Email) {
			errors["client_email"] = "Correo inválido"
		}
	}
	if q.ValidityDays < 0 {
		errors["validity_days"] = "La validez no puede ser negativa"
	}

	if len(q.Items) == 0 {
		errors["items"] = "Agregue al menos un producto"
	}
	for i, item := range q.Items {
		prefix := fmt.Sprintf("items.%d.", i)
		if strings.TrimSpace(item.Description) == "" && strings.TrimSpace(item.Code) == "" {
			errors[prefix+"description"] = "Ingrese el producto"
		}
		if item.Quantity <= 0 {
			errors[prefix+"quantity"] = "La cantidad debe ser mayor a cero"
		}
		if item.UnitPrice < 0 {
			errors[prefix+"unit_price"] = "El precio no puede ser negativo"
		}
		if item.DiscountPercent < 0 || item.DiscountPercent > 100 {
			errors[prefix+"discount"] = "El descuento debe estar entre 0 y 100"
		}
	}

	return errors
}

// ValidUntil returns the last day the quote is valid.
func (q Quote) ValidUntil() time.Time {
	return q.Date.AddDate(0, 0, q.ValidityDays)
}
