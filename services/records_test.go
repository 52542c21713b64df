package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"salesdesk/sheets"
)

func TestProductsFromTable(t *testing.T) {
	table := &sheets.Table{
		Headers: []string{"Código", "Descripción", "Familia", "U.M.", "Precio Neto", "Costo"},
		Rows: [][]string{
			{"DET-5L", "Detergente líquido 5 L", "Limpieza", "Bidón", "$8.990", "6.100"},
			{"", "", "", "", "", ""},
			{"", "Producto sin código", "Varios", "", "1.000", ""},
		},
	}

	got := ProductsFromTable(table)
	want := []Product{
		{Code: "DET-5L", Description: "Detergente líquido 5 L", Category: "Limpieza", Unit: "Bidón", Price: 8990, Cost: 6100},
		{Description: "Producto sin código", Category: "Varios", Price: 1000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProductsFromTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestSalesFromTable_DerivesUnitValuesFromTotals(t *testing.T) {
	table := &sheets.Table{
		Headers: []string{"RUT Cliente", "Línea", "Cantidad", "Venta Neta", "Costo Total", "Kilos"},
		Rows: [][]string{
			{"76.123.456-0", "Lácteos", "100", "200.000", "140.000", "300"},
			{"76.123.456-0", "", "5", "1.000", "", ""},
			{"76.123.456-0", "Cecinas", "0", "5.000", "", ""},
		},
	}

	got := SalesFromTable(table)
	want := []SaleLine{
		{ClientRUT: "76.123.456-0", ProductLine: "Lácteos", Quantity: 100, UnitPrice: 2000, UnitCost: 1400, Weight: 300},
		{ClientRUT: "76.123.456-0", ProductLine: "Cecinas"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SalesFromTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestEquipmentFromTable(t *testing.T) {
	table := &sheets.Table{
		Headers: []string{"Equipo", "Cantidad", "Valor Unitario"},
		Rows:    [][]string{{"Vitrina", "2", "850.000"}, {"", "1", "1"}},
	}
	assert.Equal(t, []EquipmentLine{{Description: "Vitrina", Quantity: 2, UnitValue: 850000}}, EquipmentFromTable(table))
}

func TestGoalsAndDocumentsFromTable(t *testing.T) {
	goals := GoalsFromTable(&sheets.Table{
		Headers: []string{"Ejecutivo", "Categoría", "Objetivo", "Logrado"},
		Rows:    [][]string{{"Ana", "Lácteos", "1.500.000", "750.000"}, {"", "x", "1", "1"}},
	})
	assert.Equal(t, []Goal{{Seller: "Ana", Category: "Lácteos", Goal: 1500000, Actual: 750000}}, goals)

	docs := DocumentsFromTable(&sheets.Table{
		Headers: []string{"Link", "Tipo"},
		Rows:    [][]string{{"https://drive.google.com/file/d/a/view", "Catálogos"}, {"", "Fichas"}},
	})
	assert.Equal(t, []Document{{
		Title:    "https://drive.google.com/file/d/a/view",
		Category: "Catálogos",
		URL:      "https://drive.google.com/file/d/a/view",
	}}, docs)
}

func TestFromTable_Nil(t *testing.T) {
	assert.Nil(t, ClientsFromTable(nil))
	assert.Nil(t, ProductsFromTable(nil))
	assert.Nil(t, SalesFromTable(nil))
	assert.Nil(t, EquipmentFromTable(nil))
	assert.Nil(t, GoalsFromTable(nil))
	assert.Nil(t, DocumentsFromTable(nil))
}

func TestSalesForClient(t *testing.T) {
	lines := []SaleLine{
		{ClientRUT: "76.123.456-0", ProductLine: "A"},
		{ClientRUT: "12.345.678-5", ProductLine: "B"},
		{ProductLine: "C"},
	}
	got := SalesForClient(lines, "761234560")
	assert.Equal(t, []string{"A", "C"}, []string{got[0].ProductLine, got[1].ProductLine})
	assert.Len(t, SalesForClient(lines, ""), 3)

	equipment := []EquipmentLine{{ClientRUT: "12.345.678-5", Description: "Vitrina"}}
	assert.Empty(t, EquipmentForClient(equipment, "76.123.456-0"))
	assert.Len(t, EquipmentForClient(equipment, "12345678-5"), 1)
}

func TestGroupSalesByLine(t *testing.T) {
	lines := []SaleLine{
		{ProductLine: "Lácteos", Quantity: 10, UnitPrice: 1000, UnitCost: 700, Weight: 5},
		{ProductLine: "Cecinas", Quantity: 4, UnitPrice: 3000, UnitCost: 2000},
		{ProductLine: "lacteos", Quantity: 30, UnitPrice: 2000, UnitCost: 1500, Weight: 15},
	}
	got := GroupSalesByLine(lines)
	assert.Len(t, got, 2)

	dairy := got[0]
	assert.Equal(t, "Lácteos", dairy.ProductLine)
	assert.Equal(t, 40.0, dairy.Quantity)
	assert.Equal(t, 20.0, dairy.Weight)
	assert.InDelta(t, 1750, dairy.UnitPrice, 1e-9) // (10000 + 60000) / 40
	assert.InDelta(t, 1300, dairy.UnitCost, 1e-9)  // (7000 + 45000) / 40
	assert.Equal(t, "Cecinas", got[1].ProductLine)
}
