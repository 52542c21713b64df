package services

import (
	"fmt"
	"strings"
)

// BuildMailto returns a mailto: link with the subject and body escaped
// as RFC 6068 requires: spaces become %20, not "+", and line breaks are
// sent as %0D%0A.
func BuildMailto(to, subject, body string) string {
	var params []string
	if subject != "" {
		params = append(params, "subject="+mailtoEscape(subject))
	}
	if body != "" {
		body = strings.ReplaceAll(body, "\r\n", "\n")
		body = strings.ReplaceAll(body, "\n", "\r\n")
		params = append(params, "body="+mailtoEscape(body))
	}

	link := "mailto:" + mailtoEscapeAddr(strings.TrimSpace(to))
	if len(params) > 0 {
		link += "?" + strings.Join(params, "&")
	}
	return link
}

// mailtoEscape percent-encodes every byte outside the unreserved set.
func mailtoEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// mailtoEscapeAddr is mailtoEscape but keeps "@" and "," so addresses stay
// readable.
func mailtoEscapeAddr(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == '@' || c == ',' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// QuoteMailto builds the hand-off link for a saved quote. The PDF itself
// cannot travel in a mailto: link, so the body lists the totals and asks
// the seller to attach the downloaded file.
func QuoteMailto(data *QuoteExportData) string {
	subject := fmt.Sprintf("Cotización %s - %s", data.Number, data.Company.Name)

	var b strings.Builder
	greeting := "Estimado(a)"
	if data.Client.Contact != "" {
		greeting += " " + data.Client.Contact
	}
	fmt.Fprintf(&b, "%s:\n\n", greeting)
	fmt.Fprintf(&b, "Adjuntamos la cotización %s para %s.\n\n", data.Number, data.Client.Name)
	fmt.Fprintf(&b, "Neto: %s\n", FormatCLP(data.Totals.Subtotal))
	fmt.Fprintf(&b, "IVA %s: %s\n", FormatPercent(data.Totals.IVARate), FormatCLP(data.Totals.IVA))
	fmt.Fprintf(&b, "Total: %s\n", FormatCLP(data.Totals.Total))
	if !data.ValidUntil.IsZero() && data.ValidityDays > 0 {
		fmt.Fprintf(&b, "Válida hasta: %s\n", FormatDate(data.ValidUntil))
	}
	b.WriteString("\nSaludos,\n")
	b.WriteString(joinNonEmpty([]string{data.Seller, data.Company.Name}, "\n"))

	return BuildMailto(data.Client.Email, subject, b.String())
}
