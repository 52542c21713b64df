package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Import kinds accepted by GenerateImportTemplate.
const (
	ImportSalesKind     = "ventas"
	ImportEquipmentKind = "equipos"
)

// TemplateField describes one column of an import template.
type TemplateField struct {
	Label        string // header, matched against the column aliases on import
	Description  string
	FormatRule   string
	ExampleValue string
	Required     bool
}

// SalesTemplateFields returns the ordered columns of the sales template.
func SalesTemplateFields() []TemplateField {
	return []TemplateField{
		{Label: "Línea", Description: "Línea o familia de producto", ExampleValue: "Lácteos", Required: true},
		{Label: "Cantidad", Description: "Unidades vendidas al mes", FormatRule: "Número mayor a cero", ExampleValue: "100", Required: true},
		{Label: "Precio unitario", Description: "Precio neto por unidad", FormatRule: "Pesos, sin IVA", ExampleValue: "2.000", Required: true},
		{Label: "Costo unitario", Description: "Costo por unidad", FormatRule: "Pesos", ExampleValue: "1.400"},
		{Label: "Kilos", Description: "Peso usado para repartir el comodato; vacío usa la venta", FormatRule: "Número", ExampleValue: "300"},
	}
}

// EquipmentTemplateFields returns the ordered columns of the equipment template.
func EquipmentTemplateFields() []TemplateField {
	return []TemplateField{
		{Label: "Equipo", Description: "Descripción del equipo en comodato", ExampleValue: "Vitrina refrigerada", Required: true},
		{Label: "Cantidad", Description: "Unidades prestadas", FormatRule: "Número mayor a cero", ExampleValue: "2"},
		{Label: "Valor unitario", Description: "Valor de reposición por unidad", FormatRule: "Pesos", ExampleValue: "600.000", Required: true},
	}
}

// GenerateImportTemplate creates a downloadable .xlsx template for kind.
// For sales templates, lines (if any) become a drop-down on the first column.
func GenerateImportTemplate(kind string, lines []string) ([]byte, error) {
	var fields []TemplateField
	switch kind {
	case ImportSalesKind:
		fields = SalesTemplateFields()
	case ImportEquipmentKind:
		fields = EquipmentTemplateFields()
	default:
		return nil, fmt.Errorf("unknown import template %q", kind)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Datos"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		f.SetCellValue(sheetName, cell, field.Label)
		if field.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}
		f.SetColWidth(sheetName, columns[i], columns[i], max(float64(len(field.Label))*1.3, 15))
	}

	// Excel caps inline list validations at 255 characters.
	if kind == ImportSalesKind && len(lines) > 0 && listLength(lines) <= 255 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = "A2:A1048576"
		if err := dv.SetDropList(lines); err == nil {
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields, kind)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []TemplateField, kind string) {
	instSheet := "Instrucciones"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", fmt.Sprintf("Carga de %s - Instrucciones", kind))
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(5)
	for i, h := range []string{"Columna", "¿Obligatoria?", "Formato", "Descripción", "Ejemplo"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		req := "Opcional"
		if field.Required {
			req = "Sí"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	for i, w := range []float64{20, 14, 24, 50, 22} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

func listLength(items []string) int {
	n := 0
	for _, s := range items {
		n += len(s) + 1
	}
	return n
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
