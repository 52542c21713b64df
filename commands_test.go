package main

import (
	"bytes"
	"strings"
	"testing"

	"salesdesk/services"
	"salesdesk/sheets"
)

func TestPrintTable_Limit(t *testing.T) {
	table := &sheets.Table{
		Headers: []string{"Código", "Precio"},
		Rows:    [][]string{{"DET-5L", "8.990"}, {"CLO-1L", "14.400"}, {"LEC-1L", "11.900"}},
	}

	var buf bytes.Buffer
	if err := printTable(&buf, table, 2); err != nil {
		t.Fatalf("printTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "DET-5L") || !strings.Contains(out, "CLO-1L") {
		t.Errorf("expected the first rows, got:\n%s", out)
	}
	if strings.Contains(out, "LEC-1L") {
		t.Errorf("expected the limit to cut the third row, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "3 rows\n") {
		t.Errorf("expected the full row count, got:\n%s", out)
	}
}

func TestPrintEvaluation(t *testing.T) {
	ev := services.Evaluate(services.EvaluationInput{
		ContractMonths: 24,
		CommissionRate: 3,
		TargetMargin:   15,
		Equipment:      []services.EquipmentLine{{Description: "Vitrina", Quantity: 1, UnitValue: 240000}},
		Sales:          []services.SaleLine{{ProductLine: "Limpieza", Quantity: 100, UnitPrice: 1000, UnitCost: 600}},
	})

	var buf bytes.Buffer
	printEvaluation(&buf, ev)
	out := buf.String()
	for _, want := range []string{"Limpieza", "$100.000", "Contrato $240.000", "cuota mensual $10.000", "Resultado: Viable"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
