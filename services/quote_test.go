package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalcQuoteLine(t *testing.T) {
	tests := []struct {
		name         string
		item         QuoteItem
		wantGross    float64
		wantDiscount float64
		wantNet      float64
	}{
		{"basic", QuoteItem{Quantity: 10, UnitPrice: 1990}, 19900, 0, 19900},
		{"with_discount", QuoteItem{Quantity: 4, UnitPrice: 12500, DiscountPercent: 10}, 50000, 5000, 45000},
		{"rounds_to_pesos", QuoteItem{Quantity: 3, UnitPrice: 333.33, DiscountPercent: 7.5}, 1000, 75, 925},
		{"discount_clamped_high", QuoteItem{Quantity: 1, UnitPrice: 1000, DiscountPercent: 150}, 1000, 1000, 0},
		{"discount_clamped_low", QuoteItem{Quantity: 1, UnitPrice: 1000, DiscountPercent: -5}, 1000, 0, 1000},
		{"zero_qty", QuoteItem{Quantity: 0, UnitPrice: 1000}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcQuoteLine(tt.item)
			if !floatClose(got.Gross, tt.wantGross) {
				t.Errorf("Gross = %f, want %f", got.Gross, tt.wantGross)
			}
			if !floatClose(got.Discount, tt.wantDiscount) {
				t.Errorf("Discount = %f, want %f", got.Discount, tt.wantDiscount)
			}
			if !floatClose(got.Net, tt.wantNet) {
				t.Errorf("Net = %f, want %f", got.Net, tt.wantNet)
			}
		})
	}
}

func TestCalcQuoteTotals(t *testing.T) {
	lines := CalcQuoteLines([]QuoteItem{
		{Quantity: 10, UnitPrice: 1990},                      // 19900
		{Quantity: 4, UnitPrice: 12500, DiscountPercent: 10}, // 50000 - 5000
		{Quantity: 1, UnitPrice: 3333},                       // 3333
	})
	got := CalcQuoteTotals(lines, 19)

	if !floatClose(got.Gross, 73233) {
		t.Errorf("Gross = %f, want 73233", got.Gross)
	}
	if !floatClose(got.Discount, 5000) {
		t.Errorf("Discount = %f, want 5000", got.Discount)
	}
	if !floatClose(got.Subtotal, 68233) {
		t.Errorf("Subtotal = %f, want 68233", got.Subtotal)
	}
	// 68233 * 0.19 = 12964.27
	if !floatClose(got.IVA, 12964) {
		t.Errorf("IVA = %f, want 12964", got.IVA)
	}
	if !floatClose(got.Total, 81197) {
		t.Errorf("Total = %f, want 81197", got.Total)
	}
}

func TestCalcQuoteTotals_Empty(t *testing.T) {
	got := CalcQuoteTotals(nil, 19)
	if got.Total != 0 || got.IVA != 0 {
		t.Errorf("expected zero totals, got %+v", got)
	}
}

func TestValidateQuote(t *testing.T) {
	valid := Quote{
		Client:       Client{Name: "Minimarket Don Pepe", RUT: "76.123.456-0", Email: "compras@donpepe.cl"},
		ValidityDays: 15,
		Items:        []QuoteItem{{Code: "A-1", Description: "Detergente 5 L", Quantity: 2, UnitPrice: 12990}},
	}
	if errs := ValidateQuote(valid); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	tests := []struct {
		name   string
		modify func(q *Quote)
		field  string
	}{
		{"missing_client", func(q *Quote) { q.Client.Name = " " }, "client_name"},
		{"bad_rut", func(q *Quote) { q.Client.RUT = "76.123.456-K" }, "client_rut"},
		{"bad_email", func(q *Quote) { q.Client.Email = "no-es-correo" }, "client_email"},
		{"negative_validity", func(q *Quote) { q.ValidityDays = -1 }, "validity_days"},
		{"no_items", func(q *Quote) { q.Items = nil }, "items"},
		{"zero_qty", func(q *Quote) { q.Items[0].Quantity = 0 }, "items.0.quantity"},
		{"negative_price", func(q *Quote) { q.Items[0].UnitPrice = -1 }, "items.0.unit_price"},
		{"discount_range", func(q *Quote) { q.Items[0].DiscountPercent = 101 }, "items.0.discount"},
		{"blank_product", func(q *Quote) { q.Items[0].Code, q.Items[0].Description = "", "" }, "items.0.description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Items = append([]QuoteItem(nil), valid.Items...)
			tt.modify(&q)
			errs := ValidateQuote(q)
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestQuoteValidUntil(t *testing.T) {
	q := Quote{Date: time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC), ValidityDays: 15}
	want := time.Date(2026, time.November, 4, 0, 0, 0, 0, time.UTC)
	if got := q.ValidUntil(); !got.Equal(want) {
		t.Errorf("ValidUntil() = %v, want %v", got, want)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("compras@donpepe.cl"))
	assert.True(t, ValidEmail("ana.rojas+ventas@distribuidora.com"))
	assert.False(t, ValidEmail("no-es-correo"))
	assert.False(t, ValidEmail("ana@"))
}
