package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"salesdesk/services"
)

func TestNavItems_Active(t *testing.T) {
	active := map[string]string{
		"/":             "Inicio",
		"/quotes/new":   "Cotizaciones",
		"/evaluation/x": "Evaluación",
		"/settings":     "Configuración",
	}
	for path, want := range active {
		var got []string
		for _, n := range navItems(path) {
			if n.Active {
				got = append(got, n.Label)
			}
		}
		if len(got) != 1 || got[0] != want {
			t.Errorf("path %s: expected only %q active, got %v", path, want, got)
		}
	}
}

func TestRawNumber(t *testing.T) {
	tests := map[float64]string{0: "0", 15: "15", 1234.5: "1234.5", 1e7: "10000000"}
	for in, want := range tests {
		if got := rawNumber(in); got != want {
			t.Errorf("rawNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBarStyle_Clamped(t *testing.T) {
	tests := map[float64]string{-5: "width: 0%", 42.4: "width: 42%", 180: "width: 100%"}
	for in, want := range tests {
		if got := string(barStyle(in)); got != want {
			t.Errorf("barStyle(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestClientLabel(t *testing.T) {
	if got := clientLabel(services.Client{Name: "Almacén Sur"}); got != "Almacén Sur" {
		t.Errorf("without RUT = %q", got)
	}
	if got := clientLabel(services.Client{Name: "Almacén Sur", RUT: "76.123.456-0"}); got != "Almacén Sur (76.123.456-0)" {
		t.Errorf("with RUT = %q", got)
	}
}

func TestEvaluationContent_Result(t *testing.T) {
	var buf bytes.Buffer
	if err := EvaluationContent(EvaluationFormData{}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), `class="result"`) {
		t.Error("result section rendered without a result")
	}

	buf.Reset()
	data := EvaluationFormData{Result: &services.Evaluation{Verdict: services.VerdictNotViable, TotalNet: -1500}}
	if err := EvaluationContent(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	for _, want := range []string{`class="result"`, `class="negative"`, `class="verdict verdict-` + string(services.VerdictNotViable) + `"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in result", want)
		}
	}
}

func TestQuoteFormContent_LineErrors(t *testing.T) {
	var buf bytes.Buffer
	data := QuoteFormData{
		Lines:  []services.QuoteLineCalc{{Item: services.QuoteItem{Code: "DET-5L", Quantity: 2, UnitPrice: 8990}}},
		Errors: map[string]string{"client_name": "Ingrese la razón social", "items.0.quantity": "Cantidad inválida"},
	}
	if err := QuoteFormContent(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		`<p class="field-error">Ingrese la razón social</p>`,
		`<span class="field-error">Cantidad inválida</span>`,
		`name="item_unit_price" value="8990"`,
		`hx-vals="{&#34;remove&#34;:&#34;0&#34;}"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in form content", want)
		}
	}
}

func TestDocumentsContent_Selected(t *testing.T) {
	docs := []DocumentItem{
		{Index: 0, Document: services.Document{Title: "Catálogo", URL: "https://example.com/a.pdf"}},
		{Index: 1, Document: services.Document{Title: "Ficha", URL: "https://example.com/b.pdf"}},
	}
	var buf bytes.Buffer
	data := DocumentsData{Documents: docs, Selected: &docs[1], PreviewURL: "https://example.com/b.pdf"}
	if err := DocumentsContent(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	if strings.Count(body, `class="active"`) != 1 {
		t.Errorf("expected exactly one active document, got %s", body)
	}
	if !strings.Contains(body, `<iframe src="https://example.com/b.pdf" title="Ficha"`) {
		t.Errorf("expected preview iframe, got %s", body)
	}
}

func TestKPIContent_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := KPIContent(KPIData{}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No hay metas para mostrar.") {
		t.Errorf("expected empty state, got %s", buf.String())
	}
}

func TestQuoteListPage_Layout(t *testing.T) {
	var buf bytes.Buffer
	data := QuoteListData{Quotes: []services.QuoteSummary{{ID: "abc", Number: "COT-2026-0001", ClientName: "Café <Ñuñoa>", Total: 2380}}}
	layout := LayoutData{Title: "Cotizaciones", ActivePath: "/quotes", CompanyName: "Distribuidora Sur"}
	if err := QuoteListPage(data, layout).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	body := buf.String()
	for _, want := range []string{
		"<title>Cotizaciones · Distribuidora Sur</title>",
		`<a href="/quotes" class="active" aria-current="page">Cotizaciones</a>`,
		`href="/quotes/abc"`,
		"Café &lt;Ñuñoa&gt;",
		"$2.380",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}
