package handlers

import (
	"bytes"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"salesdesk/services"
	"salesdesk/testhelpers"
)

func evaluationForm() url.Values {
	return url.Values{
		"client_name":     {"Minimarket Don Pepe SpA"},
		"client_rut":      {"76.123.456-0"},
		"contract_months": {"24"},
		"elapsed_months":  {"6"},
		"commission_rate": {"3"},
		"target_margin":   {"15"},
		"eq_description":  {"Vitrina", ""},
		"eq_quantity":     {"1", ""},
		"eq_value":        {"240000", ""},
		"sale_line":       {"Limpieza", ""},
		"sale_quantity":   {"100", ""},
		"sale_price":      {"1000", ""},
		"sale_cost":       {"600", ""},
		"sale_weight":     {"", ""},
	}
}

func uploadRequest(t *testing.T, target string, fields url.Values, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			if err := w.WriteField(key, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestParseEvaluationForm(t *testing.T) {
	req := postForm("/evaluation", evaluationForm())
	req.ParseForm()

	in := parseEvaluationForm(req, testConfig())
	if len(in.Equipment) != 1 || len(in.Sales) != 1 {
		t.Fatalf("expected blank rows to be dropped, got %d equipment and %d sales", len(in.Equipment), len(in.Sales))
	}
	if in.Sales[0].ClientRUT != "76.123.456-0" || in.Sales[0].UnitCost != 600 {
		t.Errorf("unexpected sale line %+v", in.Sales[0])
	}
	if in.ContractMonths != 24 || in.ElapsedMonths != 6 || in.CommissionRate != 3 {
		t.Errorf("unexpected contract fields %+v", in)
	}
}

func TestParseEvaluationForm_TargetFallsBackToConfig(t *testing.T) {
	form := evaluationForm()
	form.Del("target_margin")
	req := postForm("/evaluation", form)
	req.ParseForm()

	if in := parseEvaluationForm(req, testConfig()); in.TargetMargin != 15 {
		t.Errorf("expected configured target 15, got %v", in.TargetMargin)
	}
}

func TestParseEvaluationForm_NonFiniteNumbers(t *testing.T) {
	form := evaluationForm()
	form.Set("contract_months", "Inf")
	form.Set("commission_rate", "NaN")
	form["eq_value"] = []string{"NaN", ""}
	form["sale_price"] = []string{"1e400", ""}
	req := postForm("/evaluation", form)
	req.ParseForm()

	in := parseEvaluationForm(req, testConfig())
	if in.ContractMonths != 0 || in.CommissionRate != 0 {
		t.Errorf("expected non-finite contract fields to read as 0, got %+v", in)
	}
	if in.Equipment[0].UnitValue != 0 || in.Sales[0].UnitPrice != 0 {
		t.Errorf("expected non-finite amounts to read as 0, got %+v %+v", in.Equipment[0], in.Sales[0])
	}

	ev := services.Evaluate(in)
	for name, v := range map[string]float64{
		"contract": ev.ContractTotal,
		"monthly":  ev.MonthlyLoan,
		"net":      ev.TotalNet,
		"margin":   ev.NetMarginPct,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want a finite value", name, v)
		}
	}
	if got := services.FormatCLP(ev.ContractTotal); got != "$0" {
		t.Errorf("contract total = %q, want $0", got)
	}
}

func TestParseFormNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234.5", 1234.5},
		{"1.234,5", 1234.5},
		{"$ 240.000", 240000},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"-Inf", 0},
		{"+Infinity", 0},
		{"1e400", 0},
	}
	for _, tt := range tests {
		if got := parseFormNumber(tt.in); got != tt.want {
			t.Errorf("parseFormNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHandleEvaluationPage_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestEvaluation(t, app, "Almacén Las Rosas", "viable")

	req := httptest.NewRequest(http.MethodGet, "/evaluation", nil)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationPage(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		`name="contract_months" value="24"`,
		"Minimarket Don Pepe SpA",
		"Evaluaciones guardadas",
		"Almacén Las Rosas",
	)
	if strings.Contains(body, `class="result"`) {
		t.Error("expected no result without sales or equipment")
	}
}

func TestHandleEvaluationCalculate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := postForm("/evaluation", evaluationForm())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationCalculate(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	// loan 10.000/month, commission 3% scaled by 0.9, net 27.300 on 100.000
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Viable",
		"$240.000",
		"$10.000",
		"$27.300",
	)

	draft, ok := services.LoadEvaluationDraft(app)
	if !ok || draft.ClientName != "Minimarket Don Pepe SpA" {
		t.Errorf("expected the posted form to be kept as draft, got %+v", draft)
	}
}

func TestHandleEvaluationCalculate_LoadFromSheets(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	form := url.Values{
		"action":          {"load"},
		"client_rut":      {"761234560"},
		"contract_months": {"24"},
		"commission_rate": {"3"},
	}
	req := postForm("/evaluation", form)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationCalculate(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		`value="Minimarket Don Pepe SpA"`,
		`value="Dispensador"`,
		`value="Limpieza"`,
		`value="Lácteos"`,
	)
	// the other client's sales stay out
	if strings.Count(body, `name="sale_line" value=`) != 2 {
		t.Errorf("expected 2 sale lines for the client")
	}
	testhelpers.AssertHTMLContains(t, rec.Header().Get("HX-Trigger"), "Datos cargados")
}

func TestHandleEvaluationCalculate_LoadWithoutClient(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := postForm("/evaluation", url.Values{"action": {"load"}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationCalculate(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleEvaluationCalculate_LoadUnconfiguredSales(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	data := sampleData()
	data.sales = nil

	req := postForm("/evaluation", url.Values{"action": {"load"}, "client_rut": {"76.123.456-0"}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationCalculate(app, data, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ventas: planilla sin configurar", `value="Dispensador"`)
}

func TestHandleEvaluationSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := postForm("/evaluation/save", evaluationForm())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSave(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	saved, err := services.ListEvaluations(app, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved evaluation, got %d", len(saved))
	}
	if saved[0].Verdict != services.VerdictViable {
		t.Errorf("expected viable verdict, got %q", saved[0].Verdict)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `href="/evaluation/`+saved[0].ID+`"`)
}

func TestHandleEvaluationSave_RequiresClientName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	form := evaluationForm()
	form.Set("client_name", "")
	req := postForm("/evaluation/save", form)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationSave(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if saved, _ := services.ListEvaluations(app, 10); len(saved) != 0 {
		t.Error("expected nothing saved")
	}
}

func TestHandleEvaluationLoad(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	in := services.EvaluationInput{
		ClientName:     "Café Ñuñoa",
		ContractMonths: 12,
		TargetMargin:   15,
		Equipment:      []services.EquipmentLine{{Description: "Cafetera", Quantity: 1, UnitValue: 120000}},
		Sales:          []services.SaleLine{{ProductLine: "Café", Quantity: 20, UnitPrice: 8000, UnitCost: 5000}},
	}
	rec0, _, err := services.SaveEvaluation(app, in)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/evaluation/"+rec0.Id, nil)
	req.SetPathValue("id", rec0.Id)
	rec := httptest.NewRecorder()
	if err := HandleEvaluationLoad(app, sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `value="Cafetera"`, `name="contract_months" value="12"`, "$120.000")

	if draft, ok := services.LoadEvaluationDraft(app); !ok || draft.ClientName != "Café Ñuñoa" {
		t.Errorf("expected the loaded evaluation to become the draft, got %+v", draft)
	}
}

func TestHandleEvaluationLoad_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/evaluation/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationLoad(app, sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleEvaluationReset(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := services.SaveEvaluationDraft(app, services.EvaluationInput{ClientName: "X"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/evaluation/reset", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationReset(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/evaluation")
	if _, ok := services.LoadEvaluationDraft(app); ok {
		t.Error("expected draft to be discarded")
	}
}

func TestHandleEvaluationExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := httptest.NewRecorder()
	req := postForm("/evaluation/export/excel", evaluationForm())
	if err := HandleEvaluationExportExcel(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	testhelpers.AssertHTMLContains(t, rec.Header().Get("Content-Disposition"), "evaluacion-minimarket-don-pepe-spa.xlsx")
	// xlsx files are zip archives
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("expected a zip body")
	}
}

func TestHandleEvaluationExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := httptest.NewRecorder()
	req := postForm("/evaluation/export/pdf", evaluationForm())
	if err := HandleEvaluationExportPDF(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypePDF {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}

func TestHandleEvaluationImport_Sales(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "Línea,Cantidad,Precio unitario,Costo unitario\n" +
		"Bebidas,10,1000,700\n" +
		"Bebidas,5,1000,700\n" +
		",3,100,50\n"
	fields := url.Values{"kind": {"ventas"}, "client_name": {"Café Ñuñoa"}, "contract_months": {"24"}}
	req := uploadRequest(t, "/evaluation/import", fields, "ventas.csv", csv)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationImport(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		`value="Bebidas"`,
		`name="sale_quantity" value="15"`,
		"2 de 3 filas cargadas",
		"Falta la línea de producto",
		"data-error-report=",
	)
	testhelpers.AssertHTMLContains(t, rec.Header().Get("HX-Trigger"), "1 filas con errores")

	draft, _ := services.LoadEvaluationDraft(app)
	if len(draft.Sales) != 1 || draft.Sales[0].Quantity != 15 {
		t.Errorf("expected grouped sales in draft, got %+v", draft.Sales)
	}
}

func TestHandleEvaluationImport_Equipment(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "Equipo,Cantidad,Valor unitario\nVitrina,2,300000\n"
	req := uploadRequest(t, "/evaluation/import", url.Values{"kind": {"equipos"}}, "equipos.csv", csv)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleEvaluationImport(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `value="Vitrina"`, "$600.000")
	testhelpers.AssertHTMLContains(t, rec.Header().Get("HX-Trigger"), "1 filas cargadas")
}

func TestHandleEvaluationImport_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		fileName string
		content  string
	}{
		{"unknown kind", "clientes", "x.csv", "a,b\n1,2\n"},
		{"unsupported format", "ventas", "ventas.pdf", "%PDF"},
		{"missing columns", "ventas", "ventas.csv", "Nombre,Total\nx,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			req := uploadRequest(t, "/evaluation/import", url.Values{"kind": {tt.kind}}, tt.fileName, tt.content)
			req.Header.Set("HX-Request", "true")
			rec := httptest.NewRecorder()
			if err := HandleEvaluationImport(app, sampleData(), testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
		})
	}
}

func TestHandleImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	payload := `[{"row":2,"field":"Cantidad","message":"La cantidad debe ser mayor a cero"}]`
	req := httptest.NewRequest(http.MethodPost, "/evaluation/import/errors", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	if err := HandleImportErrorReport()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected Content-Type %q", ct)
	}
	testhelpers.AssertHTMLContains(t, rec.Header().Get("Content-Disposition"), "errores-carga-")

	req = httptest.NewRequest(http.MethodPost, "/evaluation/import/errors", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	HandleImportErrorReport()(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for invalid JSON, got %d", rec.Code)
	}
}

func TestHandleImportTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, kind := range []string{"ventas", "equipos"} {
		req := httptest.NewRequest(http.MethodGet, "/evaluation/template/"+kind, nil)
		req.SetPathValue("kind", kind)
		rec := httptest.NewRecorder()
		if err := HandleImportTemplate(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("%s: handler returned error: %v", kind, err)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="plantilla-`+kind+`.xlsx"` {
			t.Errorf("%s: unexpected Content-Disposition %q", kind, cd)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/evaluation/template/clientes", nil)
	req.SetPathValue("kind", "clientes")
	rec := httptest.NewRecorder()
	HandleImportTemplate(sampleData())(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown template, got %d", rec.Code)
	}
}
