package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfDark  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfMuted = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfWhite = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfPanel = &props.Color{Red: 245, Green: 243, Blue: 239}
	pdfAlt   = &props.Color{Red: 248, Green: 249, Blue: 250}
)

// newPDF returns an A4 maroto document with the shared margins and footer.
func newPDF() core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GenerateQuotePDF creates the printable quote. It returns the raw PDF
// bytes or an error.
func GenerateQuotePDF(data *QuoteExportData) ([]byte, error) {
	m := newPDF()

	addQuoteHeader(m, data)
	addQuoteClient(m, data)
	addQuoteItemsTable(m, data)
	addQuoteTotals(m, data)
	addQuoteAmountInWords(m, data)
	addQuoteTerms(m, data)
	addQuoteSignature(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quote PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// QuoteFilename returns the download name of a quote PDF.
func QuoteFilename(number string) string {
	if number == "" {
		number = "cotizacion"
	}
	return number + ".pdf"
}

// addQuoteHeader adds the issuer block and the quote number box.
func addQuoteHeader(m core.Maroto, data *QuoteExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.Company.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New("COTIZACIÓN", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: pdfDark,
				}),
			),
		),
	)

	issuer := joinNonEmpty([]string{
		fmtField("RUT", data.Company.RUT),
		data.Company.Address,
		data.Company.Email,
		data.Company.Phone,
	}, " | ")
	m.AddRows(
		row.New(8).Add(
			col.New(7).Add(
				text.New(issuer, props.Text{
					Size:  8,
					Align: align.Left,
					Color: pdfMuted,
				}),
			),
			col.New(5).Add(
				text.New(fmt.Sprintf("N° %s", data.Number), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteClient adds client details on the left and quote metadata on the right.
func addQuoteClient(m core.Maroto, data *QuoteExportData) {
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: pdfMuted}
	valueStyle := props.Text{Size: 8, Align: align.Left}
	rightLabelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: pdfMuted}
	rightValueStyle := props.Text{Size: 8, Align: align.Right}
	panel := &props.Cell{BackgroundColor: pdfPanel}

	m.AddRows(
		row.New(7).Add(
			col.New(7).Add(text.New("CLIENTE", labelStyle)).WithStyle(panel),
			col.New(5).Add(text.New("DATOS DE LA COTIZACIÓN", rightLabelStyle)).WithStyle(panel),
		),
	)

	c := data.Client
	left := []string{
		c.Name,
		fmtField("RUT", c.RUT),
		fmtField("Giro", c.BusinessLine),
		joinNonEmpty([]string{c.Address, c.Commune, c.City}, ", "),
		joinNonEmpty([]string{fmtField("Contacto", c.Contact), c.Email, c.Phone}, " | "),
	}
	right := []struct{ label, value string }{
		{"Fecha:", FormatDate(data.IssueDate)},
		{"Válida hasta:", FormatDate(data.ValidUntil)},
		{"Vendedor:", data.Seller},
	}

	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		var l string
		if i < len(left) {
			l = left[i]
		}
		style := valueStyle
		if i == 0 {
			style.Style = fontstyle.Bold
			style.Size = 9
		}
		cols := []core.Col{col.New(7).Add(text.New(l, style))}
		if i < len(right) {
			cols = append(cols,
				col.New(2).Add(text.New(right[i].label, rightLabelStyle)),
				col.New(3).Add(text.New(right[i].value, rightValueStyle)),
			)
		} else {
			cols = append(cols, col.New(5))
		}
		if l == "" && i >= len(right) {
			continue
		}
		m.AddRows(row.New(6).Add(cols...))
	}

	m.AddRows(row.New(3))
}

// addQuoteItemsTable adds the items table with header and body rows.
func addQuoteItemsTable(m core.Maroto, data *QuoteExportData) {
	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: pdfDark}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("N°", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Código", headerTextLeft)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Descripción", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Cant.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unidad", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Precio", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Dcto.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Neto", headerText)).WithStyle(&headerCell),
		),
	)

	for i, line := range data.Lines {
		bodyText := props.Text{Size: 7, Align: align.Center}
		bodyTextLeft := props.Text{Size: 7, Align: align.Left}
		bodyTextRight := props.Text{Size: 7, Align: align.Right}

		discount := ""
		if line.Item.DiscountPercent > 0 {
			discount = FormatPercent(line.Item.DiscountPercent)
		}

		cols := []core.Col{
			col.New(1).Add(text.New(fmt.Sprintf("%d", line.No), bodyText)),
			col.New(2).Add(text.New(line.Item.Code, bodyTextLeft)),
			col.New(4).Add(text.New(line.Item.Description, bodyTextLeft)),
			col.New(1).Add(text.New(FormatNumber(line.Item.Quantity), bodyTextRight)),
			col.New(1).Add(text.New(line.Item.Unit, bodyText)),
			col.New(1).Add(text.New(FormatCLP(line.Item.UnitPrice), bodyTextRight)),
			col.New(1).Add(text.New(discount, bodyText)),
			col.New(1).Add(text.New(FormatCLP(line.Net), bodyTextRight)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(&props.Cell{BackgroundColor: pdfAlt})
			}
		}

		m.AddRows(row.New(7).Add(cols...))
	}

	m.AddRows(row.New(2))
}

// addQuoteTotals adds right-aligned total rows.
func addQuoteTotals(m core.Maroto, data *QuoteExportData) {
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}

	t := data.Totals
	rows := []struct{ label, value string }{}
	if t.Discount > 0 {
		rows = append(rows,
			struct{ label, value string }{"Subtotal", FormatCLP(t.Gross)},
			struct{ label, value string }{"Descuento", "-" + FormatCLP(t.Discount)},
		)
	}
	rows = append(rows,
		struct{ label, value string }{"Neto", FormatCLP(t.Subtotal)},
		struct{ label, value string }{fmt.Sprintf("IVA %s", FormatPercent(t.IVARate)), FormatCLP(t.IVA)},
	)

	for _, r := range rows {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(r.label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(r.value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	grandCell := &props.Cell{BackgroundColor: pdfDark}
	grandStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: pdfWhite}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("TOTAL", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatCLP(t.Total), grandStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteAmountInWords adds the "son:" row.
func addQuoteAmountInWords(m core.Maroto, data *QuoteExportData) {
	if data.AmountInWords == "" {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Son: %s", data.AmountInWords), props.Text{
					Size:  8,
					Style: fontstyle.BoldItalic,
					Align: align.Left,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteTerms adds payment terms, validity and notes.
func addQuoteTerms(m core.Maroto, data *QuoteExportData) {
	sectionLabel := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: pdfDark}
	termLabel := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: pdfMuted}
	termValue := props.Text{Size: 8, Align: align.Left}

	terms := []struct{ label, value string }{
		{"Condiciones de pago", data.PaymentTerms},
		{"Validez", validityText(data.ValidityDays)},
		{"Observaciones", data.Notes},
	}

	m.AddRows(row.New(7).Add(col.New(12).Add(text.New("CONDICIONES COMERCIALES", sectionLabel))))
	for _, t := range terms {
		if strings.TrimSpace(t.value) == "" {
			continue
		}
		m.AddRows(
			row.New(6).Add(
				col.New(3).Add(text.New(t.label, termLabel)),
				col.New(9).Add(text.New(t.value, termValue)),
			),
		)
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("Precios netos en pesos chilenos; el IVA se detalla por separado.", termLabel)),
		),
	)

	m.AddRows(row.New(3))
}

// addQuoteSignature adds the seller signature line at the bottom.
func addQuoteSignature(m core.Maroto, data *QuoteExportData) {
	m.AddRows(row.New(12))

	lineStyle := props.Text{Size: 8, Align: align.Center, Color: pdfMuted}
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfMuted}

	m.AddRows(
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New("____________________________", lineStyle)),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(6),
			col.New(6).Add(text.New(joinNonEmpty([]string{data.Seller, data.Company.Name}, " / "), labelStyle)),
		),
	)
}

func validityText(days int) string {
	switch {
	case days <= 0:
		return ""
	case days == 1:
		return "1 día"
	default:
		return fmt.Sprintf("%d días", days)
	}
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
