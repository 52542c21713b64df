package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:        "test",
		SheetsTimeout: time.Second,
		IVARate:       19,
		TargetMargin:  15,
		Company:       config.Company{Name: "Distribuidora Sur", RUT: "76.543.210-3"},
	}
}

// fakeData is an in-memory DataSource. A nil slice with a nil error means
// the dataset is not configured.
type fakeData struct {
	clients   []services.Client
	products  []services.Product
	sales     []services.SaleLine
	equipment []services.EquipmentLine
	goals     []services.Goal
	documents []services.Document
	err       error
}

func (f *fakeData) result(empty bool) error {
	if f.err != nil {
		return f.err
	}
	if empty {
		return services.ErrSourceNotConfigured
	}
	return nil
}

func (f *fakeData) Clients(context.Context) ([]services.Client, error) {
	return f.clients, f.result(f.clients == nil)
}

func (f *fakeData) Products(context.Context) ([]services.Product, error) {
	return f.products, f.result(f.products == nil)
}

func (f *fakeData) Sales(context.Context) ([]services.SaleLine, error) {
	return f.sales, f.result(f.sales == nil)
}

func (f *fakeData) Equipment(context.Context) ([]services.EquipmentLine, error) {
	return f.equipment, f.result(f.equipment == nil)
}

func (f *fakeData) Goals(context.Context) ([]services.Goal, error) {
	return f.goals, f.result(f.goals == nil)
}

func (f *fakeData) Documents(context.Context) ([]services.Document, error) {
	return f.documents, f.result(f.documents == nil)
}

func sampleData() *fakeData {
	return &fakeData{
		clients: []services.Client{
			{RUT: "76.123.456-0", Name: "Minimarket Don Pepe SpA", Email: "compras@donpepe.cl", Seller: "Ana Rojas"},
			{RUT: "12.345.678-5", Name: "Café Ñuñoa", Seller: "Luis Soto"},
		},
		products: []services.Product{
			{Code: "DET-5L", Description: "Detergente líquido 5 L", Category: "Limpieza", Unit: "Bidón", Price: 8990},
			{Code: "CLO-1L", Description: "Cloro gel 900 ml", Category: "Limpieza", Unit: "Caja", Price: 14400},
			{Code: "LEC-1L", Description: "Leche entera 1 L", Category: "Lácteos", Unit: "Caja", Price: 11900},
		},
		sales: []services.SaleLine{
			{ClientRUT: "76.123.456-0", ProductLine: "Limpieza", Quantity: 100, UnitPrice: 9000, UnitCost: 6000},
			{ClientRUT: "76.123.456-0", ProductLine: "Lácteos", Quantity: 50, UnitPrice: 12000, UnitCost: 9000},
			{ClientRUT: "12.345.678-5", ProductLine: "Limpieza", Quantity: 10, UnitPrice: 9000, UnitCost: 6000},
		},
		equipment: []services.EquipmentLine{
			{ClientRUT: "76.123.456-0", Description: "Dispensador", Quantity: 2, UnitValue: 600000},
		},
		goals: []services.Goal{
			{Seller: "Ana Rojas", Category: "Limpieza", Goal: 1000000, Actual: 900000},
			{Seller: "Luis Soto", Category: "Lácteos", Goal: 500000, Actual: 100000},
		},
		documents: []services.Document{
			{Title: "Catálogo Limpieza", Category: "Catálogos", URL: "https://drive.google.com/file/d/abc123/view"},
			{Title: "Ficha Cloro", Category: "Fichas", URL: "https://drive.google.com/open?id=xyz789"},
		},
	}
}
