package services

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"salesdesk/sheets"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an uploaded file.
type ImportResult struct {
	FileName  string            `json:"file_name"`
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`

	Sales     []SaleLine      `json:"-"`
	Equipment []EquipmentLine `json:"-"`
}

// HasErrors reports whether any row failed validation.
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseUpload reads an uploaded .csv or .xlsx file into a table.
func ParseUpload(file io.Reader, fileName string) (*sheets.Table, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		return sheets.ParseCSV(file)
	case ".xlsx":
		return sheets.ParseXLSX(file, "")
	}
	return nil, fmt.Errorf("formato no soportado: use .csv o .xlsx")
}

// ImportSales validates an uploaded sales file. Valid rows are returned in
// Sales even when other rows have errors.
func ImportSales(file io.Reader, fileName string) (*ImportResult, error) {
	t, err := ParseUpload(file, fileName)
	if err != nil {
		return nil, err
	}

	idx := columnIndex(t, saleColumns)
	if err := requireColumns(idx, map[string]string{"line": "Línea", "qty": "Cantidad"}); err != nil {
		return nil, err
	}
	if idx["price"] < 0 && idx["revenue"] < 0 {
		return nil, fmt.Errorf("falta la columna Precio o Venta")
	}

	result := &ImportResult{FileName: fileName, TotalRows: len(t.Rows)}
	for i, row := range t.Rows {
		rowNum := i + 2 // header is row 1
		s, ok := saleFromRow(row, idx)
		var errs []ValidationError
		switch {
		case !ok:
			errs = append(errs, ValidationError{Row: rowNum, Field: "Línea", Message: "Falta la línea de producto"})
		default:
			if s.Quantity <= 0 {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Cantidad", Message: "La cantidad debe ser mayor a cero"})
			}
			if s.UnitPrice <= 0 {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Precio", Message: "El precio debe ser mayor a cero"})
			}
			if s.UnitCost < 0 || s.Weight < 0 {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Costo", Message: "Costo y peso no pueden ser negativos"})
			}
		}
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			result.ErrorRows++
			continue
		}
		result.Sales = append(result.Sales, s)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

// ImportEquipment validates an uploaded comodato equipment file.
func ImportEquipment(file io.Reader, fileName string) (*ImportResult, error) {
	t, err := ParseUpload(file, fileName)
	if err != nil {
		return nil, err
	}

	idx := columnIndex(t, equipmentColumns)
	if err := requireColumns(idx, map[string]string{"desc": "Equipo", "value": "Valor"}); err != nil {
		return nil, err
	}

	result := &ImportResult{FileName: fileName, TotalRows: len(t.Rows)}
	for i, row := range t.Rows {
		rowNum := i + 2
		e, ok := equipmentFromRow(row, idx)
		if idx["qty"] < 0 {
			e.Quantity = 1
		}
		var errs []ValidationError
		switch {
		case !ok:
			errs = append(errs, ValidationError{Row: rowNum, Field: "Equipo", Message: "Falta la descripción del equipo"})
		default:
			if e.Quantity <= 0 {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Cantidad", Message: "La cantidad debe ser mayor a cero"})
			}
			if e.UnitValue <= 0 {
				errs = append(errs, ValidationError{Row: rowNum, Field: "Valor", Message: "El valor debe ser mayor a cero"})
			}
		}
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			result.ErrorRows++
			continue
		}
		result.Equipment = append(result.Equipment, e)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func requireColumns(idx map[string]int, required map[string]string) error {
	var missing []string
	for key, label := range required {
		if idx[key] < 0 {
			missing = append(missing, label)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("faltan columnas: %s", strings.Join(missing, ", "))
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errores"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Fila")
	f.SetCellValue(sheet, "B1", "Campo")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
