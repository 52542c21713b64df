package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/testhelpers"
)

func TestGetCompany_FromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), companyKey, config.Company{Name: "Comercial Austral"})
	req = req.WithContext(ctx)

	if got := GetCompany(req).Name; got != "Comercial Austral" {
		t.Errorf("expected company from context, got %q", got)
	}
}

func TestGetLayoutData_DefaultName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/kpi", nil)

	got := GetLayoutData(req, "Metas")
	if got.CompanyName != "Salesdesk" {
		t.Errorf("expected fallback name, got %q", got.CompanyName)
	}
	if got.ActivePath != "/kpi" || got.Title != "Metas" {
		t.Errorf("unexpected layout data %+v", got)
	}
}

func TestLayoutMiddleware_UsesStoredCompany(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := services.SaveCompany(app, config.Company{Name: "Comercial Austral", RUT: "76.543.210-3"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())
	if err := LayoutMiddleware(app, testConfig())(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	if got := GetLayoutData(e.Request, "Inicio").CompanyName; got != "Comercial Austral" {
		t.Errorf("expected stored company name, got %q", got)
	}
}

func TestLayoutMiddleware_FallsBackToConfig(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())
	if err := LayoutMiddleware(app, testConfig())(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	if got := GetCompany(e.Request).Name; got != "Distribuidora Sur" {
		t.Errorf("expected configured company, got %q", got)
	}
}
