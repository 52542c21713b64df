package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// verdictColor returns the banner colour of a verdict.
func verdictColor(v Verdict) *props.Color {
	switch v {
	case VerdictViable:
		return &props.Color{Red: 25, Green: 135, Blue: 84}
	case VerdictMarginal:
		return &props.Color{Red: 204, Green: 140, Blue: 0}
	}
	return &props.Color{Red: 176, Green: 42, Blue: 55}
}

// GenerateEvaluationPDF renders a one-page summary of a comodato evaluation.
func GenerateEvaluationPDF(r EvaluationReport) ([]byte, error) {
	m := newPDF()

	addEvaluationHeader(m, r)
	addEvaluationVerdict(m, r.Result)
	addEvaluationSummary(m, r)
	addEvaluationLines(m, r.Result)
	addEvaluationEquipment(m, r.Input.Equipment, r.Result.ContractTotal)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addEvaluationHeader(m core.Maroto, r EvaluationReport) {
	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(text.New("EVALUACIÓN DE NEGOCIO - COMODATO", props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: pdfDark,
			})),
			col.New(4).Add(text.New(FormatDate(r.Date), props.Text{
				Size:  9,
				Align: align.Right,
				Color: pdfMuted,
			})),
		),
		row.New(7).Add(
			col.New(8).Add(text.New(joinNonEmpty([]string{r.Input.ClientName, fmtField("RUT", r.Input.ClientRUT)}, " | "), props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(4).Add(text.New(r.CompanyName, props.Text{
				Size:  8,
				Align: align.Right,
				Color: pdfMuted,
			})),
		),
		row.New(3),
	)
}

func addEvaluationVerdict(m core.Maroto, ev Evaluation) {
	cell := &props.Cell{BackgroundColor: verdictColor(ev.Verdict)}
	style := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite, Top: 2}
	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(text.New(
				fmt.Sprintf("%s | Margen neto %s (objetivo %s)", ev.Verdict.Label(), FormatPercent(ev.NetMarginPct), FormatPercent(ev.TargetMargin)),
				style,
			)).WithStyle(cell),
		),
		row.New(3),
	)
}

func addEvaluationSummary(m core.Maroto, r EvaluationReport) {
	ev := r.Result
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: pdfMuted}
	value := props.Text{Size: 9, Align: align.Right}

	payback := "-"
	if ev.PaybackMonths > 0 {
		payback = FormatNumber(ev.PaybackMonths) + " meses"
	}

	pairs := [][2]string{
		{"Valor del contrato", FormatCLP(ev.ContractTotal)},
		{"Plazo", fmt.Sprintf("%d meses", r.Input.ContractMonths)},
		{"Cuota mensual", FormatCLP(ev.MonthlyLoan)},
		{"Transcurrido", fmt.Sprintf("%d meses", ev.ElapsedMonths)},
		{"Amortizado", FormatCLP(ev.Amortized)},
		{"Saldo", FormatCLP(ev.Remaining)},
		{"Comodato / venta", FormatPercent(ev.LoanSalesRatio * 100)},
		{"Comisión efectiva", FormatPercent(ev.EffectiveCommissionRate)},
		{"Venta mensual", FormatCLP(ev.TotalRevenue)},
		{"Margen neto mensual", FormatCLP(ev.TotalNet)},
		{"Recuperación", payback},
	}

	// two label/value pairs per row
	for i := 0; i < len(pairs); i += 2 {
		cols := []core.Col{
			col.New(3).Add(text.New(pairs[i][0], label)),
			col.New(3).Add(text.New(pairs[i][1], value)),
		}
		if i+1 < len(pairs) {
			cols = append(cols,
				col.New(3).Add(text.New(pairs[i+1][0], label)),
				col.New(3).Add(text.New(pairs[i+1][1], value)),
			)
		} else {
			cols = append(cols, col.New(6))
		}
		m.AddRows(row.New(6).Add(cols...))
	}
	m.AddRows(row.New(4))
}

func addEvaluationLines(m core.Maroto, ev Evaluation) {
	header := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headerLeft := header
	headerLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: pdfDark}

	m.AddRows(
		row.New(8).Add(
			col.New(3).Add(text.New("Línea", headerLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("Venta", header)).WithStyle(headerCell),
			col.New(1).Add(text.New("Peso", header)).WithStyle(headerCell),
			col.New(2).Add(text.New("Margen bruto", header)).WithStyle(headerCell),
			col.New(2).Add(text.New("Comodato", header)).WithStyle(headerCell),
			col.New(2).Add(text.New("Margen neto", header)).WithStyle(headerCell),
		),
	)

	body := props.Text{Size: 7, Align: align.Right}
	bodyLeft := props.Text{Size: 7, Align: align.Left}
	for i, l := range ev.Lines {
		cols := []core.Col{
			col.New(3).Add(text.New(l.ProductLine, bodyLeft)),
			col.New(2).Add(text.New(FormatCLP(l.Revenue), body)),
			col.New(1).Add(text.New(FormatPercent(l.WeightShare*100), body)),
			col.New(2).Add(text.New(FormatCLP(l.GrossMargin), body)),
			col.New(2).Add(text.New(FormatCLP(l.AllocatedLoan), body)),
			col.New(2).Add(text.New(fmt.Sprintf("%s (%s)", FormatCLP(l.NetMargin), FormatPercent(l.NetMarginPct)), body)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(&props.Cell{BackgroundColor: pdfAlt})
			}
		}
		m.AddRows(row.New(6).Add(cols...))
	}

	total := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}
	totalCell := &props.Cell{BackgroundColor: pdfPanel}
	m.AddRows(
		row.New(7).Add(
			col.New(3).Add(text.New("Total", props.Text{Size: 7, Style: fontstyle.Bold})).WithStyle(totalCell),
			col.New(2).Add(text.New(FormatCLP(ev.TotalRevenue), total)).WithStyle(totalCell),
			col.New(1).WithStyle(totalCell),
			col.New(2).Add(text.New(FormatCLP(ev.TotalGross), total)).WithStyle(totalCell),
			col.New(2).Add(text.New(FormatCLP(ev.TotalAllocated), total)).WithStyle(totalCell),
			col.New(2).Add(text.New(FormatCLP(ev.TotalNet), total)).WithStyle(totalCell),
		),
		row.New(4),
	)
}

func addEvaluationEquipment(m core.Maroto, equipment []EquipmentLine, total float64) {
	if len(equipment) == 0 {
		return
	}

	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("EQUIPOS EN COMODATO", props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Color: pdfDark,
	}))))

	body := props.Text{Size: 7, Align: align.Right}
	for _, e := range equipment {
		m.AddRows(row.New(5).Add(
			col.New(6).Add(text.New(e.Description, props.Text{Size: 7})),
			col.New(2).Add(text.New(FormatNumber(e.Quantity), body)),
			col.New(2).Add(text.New(FormatCLP(e.UnitValue), body)),
			col.New(2).Add(text.New(FormatCLP(e.Quantity*e.UnitValue), body)),
		))
	}
	m.AddRows(row.New(6).Add(
		col.New(10).Add(text.New("Total", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(FormatCLP(total), props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right})),
	))
}
