package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"salesdesk/sheets"
)

const (
	clpNumFmt     = `"$"#,##0;-"$"#,##0`
	percentNumFmt = `0.0"%"`
	qtyNumFmt     = `#,##0.##`
)

// EvaluationReport bundles an evaluation with the inputs it was run on.
type EvaluationReport struct {
	Input       EvaluationInput
	Result      Evaluation
	CompanyName string
	Date        time.Time
}

// GenerateEvaluationExcel creates a workbook with a summary sheet, the
// per-line breakdown and the equipment list, and returns its bytes.
func GenerateEvaluationExcel(r EvaluationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Evaluación"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 34, "B": 12, "C": 16, "D": 16, "E": 16, "F": 12, "G": 16, "H": 16, "I": 16, "J": 12}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Header ──────────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", "J1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", "Evaluación de Negocio - Comodato")
	f.SetCellStyle(sheet, "A1", "J1", st.title)

	f.SetCellValue(sheet, "A2", sanitizeExcelCell(joinNonEmpty([]string{r.Input.ClientName, r.Input.ClientRUT}, " - ")))
	f.SetCellValue(sheet, "A3", sanitizeExcelCell(joinNonEmpty([]string{r.CompanyName, FormatDate(r.Date)}, " | ")))
	f.SetCellStyle(sheet, "A2", "A3", st.subtitle)

	// ── Summary ─────────────────────────────────────────────────────────

	ev := r.Result
	summary := []struct {
		label string
		value any
		style int
	}{
		{"Valor total del contrato", ev.ContractTotal, st.money},
		{"Plazo (meses)", r.Input.ContractMonths, st.qty},
		{"Cuota mensual del comodato", ev.MonthlyLoan, st.money},
		{"Meses transcurridos", ev.ElapsedMonths, st.qty},
		{"Amortizado", ev.Amortized, st.money},
		{"Saldo por amortizar", ev.Remaining, st.money},
		{"Relación comodato / venta", ev.LoanSalesRatio * 100, st.percent},
		{"Comisión base", r.Input.CommissionRate, st.percent},
		{"Comisión efectiva", ev.EffectiveCommissionRate, st.percent},
		{"Venta mensual", ev.TotalRevenue, st.money},
		{"Margen neto mensual", ev.TotalNet, st.money},
		{"Margen neto %", ev.NetMarginPct, st.percent},
		{"Margen objetivo %", ev.TargetMargin, st.percent},
		{"Recuperación (meses)", ev.PaybackMonths, st.qty},
		{"Resultado", ev.Verdict.Label(), st.label},
	}

	row := 5
	for _, s := range summary {
		label, _ := excelize.CoordinatesToCellName(1, row)
		value, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, label, s.label)
		f.SetCellStyle(sheet, label, label, st.label)
		f.SetCellValue(sheet, value, s.value)
		f.SetCellStyle(sheet, value, value, s.style)
		row++
	}

	// ── Lines ───────────────────────────────────────────────────────────

	row++
	headers := []string{"Línea de producto", "Cantidad", "Precio unit.", "Costo unit.", "Venta", "Peso %", "Margen bruto", "Comodato asignado", "Comisión", "Margen neto %"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	f.SetCellStyle(sheet, first, last, st.header)
	row++

	for _, l := range ev.Lines {
		values := []any{
			sanitizeExcelCell(l.ProductLine),
			l.Quantity,
			l.UnitPrice,
			l.UnitCost,
			l.Revenue,
			l.WeightShare * 100,
			l.GrossMargin,
			l.AllocatedLoan,
			l.Commission,
			l.NetMarginPct,
		}
		styles := []int{st.cell, st.qtyCell, st.moneyCell, st.moneyCell, st.moneyCell, st.percentCell, st.moneyCell, st.moneyCell, st.moneyCell, st.percentCell}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, styles[i])
		}
		row++
	}

	totals := map[int]float64{5: ev.TotalRevenue, 7: ev.TotalGross, 8: ev.TotalAllocated, 9: ev.TotalCommission}
	label, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheet, label, "Total")
	f.SetCellStyle(sheet, label, label, st.label)
	for col, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		f.SetCellValue(sheet, cell, v)
		f.SetCellStyle(sheet, cell, cell, st.money)
	}
	pct, _ := excelize.CoordinatesToCellName(10, row)
	f.SetCellValue(sheet, pct, ev.NetMarginPct)
	f.SetCellStyle(sheet, pct, pct, st.percent)

	if err := addEquipmentSheet(f, st, r.Input.Equipment, ev.ContractTotal); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func addEquipmentSheet(f *excelize.File, st excelStyles, equipment []EquipmentLine, total float64) error {
	const sheet = "Equipos"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create equipment sheet: %w", err)
	}
	for col, w := range map[string]float64{"A": 40, "B": 12, "C": 16, "D": 16} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	f.SetSheetRow(sheet, "A1", &[]any{"Equipo", "Cantidad", "Valor unitario", "Valor total"})
	f.SetCellStyle(sheet, "A1", "D1", st.header)

	row := 2
	for _, e := range equipment {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+r, sanitizeExcelCell(e.Description))
		f.SetCellValue(sheet, "B"+r, e.Quantity)
		f.SetCellValue(sheet, "C"+r, e.UnitValue)
		f.SetCellValue(sheet, "D"+r, e.Quantity*e.UnitValue)
		f.SetCellStyle(sheet, "A"+r, "A"+r, st.cell)
		f.SetCellStyle(sheet, "B"+r, "B"+r, st.qtyCell)
		f.SetCellStyle(sheet, "C"+r, "D"+r, st.moneyCell)
		row++
	}

	r := fmt.Sprintf("%d", row)
	f.SetCellValue(sheet, "C"+r, "Total")
	f.SetCellStyle(sheet, "C"+r, "C"+r, st.label)
	f.SetCellValue(sheet, "D"+r, total)
	f.SetCellStyle(sheet, "D"+r, "D"+r, st.money)
	return nil
}

// excelStyles holds the style IDs shared by the workbook sheets.
type excelStyles struct {
	title, subtitle, header, label        int
	money, percent, qty                   int
	cell, moneyCell, percentCell, qtyCell int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	clp, pct, qty := clpNumFmt, percentNumFmt, qtyNumFmt

	defs := []struct {
		target *int
		name   string
		style  *excelize.Style
	}{
		{&st.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.subtitle, "subtitle", &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&st.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&st.label, "label", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}}},
		{&st.money, "money", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &clp}},
		{&st.percent, "percent", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &pct}},
		{&st.qty, "qty", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &qty}},
		{&st.cell, "cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&st.moneyCell, "money cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &clp}},
		{&st.percentCell, "percent cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &pct}},
		{&st.qtyCell, "qty cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &qty}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.target = id
	}
	return st, nil
}

// EvaluationFilename returns the download name for an evaluation export.
func EvaluationFilename(clientName, ext string) string {
	name := slugify(clientName)
	if name == "" {
		name = "evaluacion"
	} else {
		name = "evaluacion-" + name
	}
	return name + "." + ext
}

// slugify turns a name into a lowercase, accent-free, dash-separated token.
func slugify(s string) string {
	return strings.ReplaceAll(sheets.Normalize(s), " ", "-")
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
