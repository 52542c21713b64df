package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesdesk/testhelpers"
)

func TestHandleCatalog(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	rec := httptest.NewRecorder()
	if err := HandleCatalog(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"3 de 3 productos.",
		"$8.990",
		`href="/quotes/new?add=DET-5L"`,
		`<option value="Lácteos">`,
	)
}

func TestHandleCatalog_Filters(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/catalog?category=L%C3%A1cteos", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleCatalog(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "1 de 3 productos.", "LEC-1L")
	if strings.Contains(body, "DET-5L") {
		t.Error("expected other categories to be filtered out")
	}

	req = httptest.NewRequest(http.MethodGet, "/catalog?q=zzz", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	if err := HandleCatalog(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Ningún producto coincide")
}

func TestHandleCatalog_SourceError(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleCatalog(&fakeData{})(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Lista de precios: planilla sin configurar")
	if strings.Contains(body, "El catálogo está vacío") {
		t.Error("expected the error instead of the empty state")
	}
}

func TestHandleDocuments_Viewer(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	rec := httptest.NewRecorder()
	if err := HandleDocuments(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Catálogo Limpieza", "Ficha Cloro", "Seleccione un documento para verlo.")

	req = httptest.NewRequest(http.MethodGet, "/documents?doc=1", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	if err := HandleDocuments(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`<iframe src="https://drive.google.com/file/d/xyz789/preview"`,
		"Abrir en una pestaña nueva",
		`class="active"`,
	)
}

func TestHandleDocuments_SearchKeepsIndex(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/documents?q=cloro", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleDocuments(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, `href="/documents?doc=1"`)
	if strings.Contains(body, "Catálogo Limpieza") {
		t.Error("expected search to exclude other documents")
	}
}

func TestHandleDocuments_OutOfRange(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/documents?doc=9", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleDocuments(sampleData())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "<iframe") {
		t.Error("expected no viewer for an unknown document")
	}
}

func TestHandleDocuments_PartialResults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	data := sampleData()
	data.err = errors.New("carpeta no disponible")

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleDocuments(data)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Documentos: no se pudo leer la planilla (carpeta no disponible)",
		"Catálogo Limpieza",
	)
}
