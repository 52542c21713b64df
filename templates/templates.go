// Package templates holds the templ components for the HTML pages and the
// HTMX partials, plus the small helpers they share.
package templates

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"salesdesk/services"
)

var navigation = []NavItem{
	{Label: "Inicio", Href: "/"},
	{Label: "Cotizaciones", Href: "/quotes"},
	{Label: "Evaluación", Href: "/evaluation"},
	{Label: "KPI", Href: "/kpi"},
	{Label: "Catálogo", Href: "/catalog"},
	{Label: "Documentos", Href: "/documents"},
	{Label: "Configuración", Href: "/settings"},
}

// navItems marks the entry matching path as active.
func navItems(path string) []NavItem {
	items := make([]NavItem, len(navigation))
	for i, n := range navigation {
		n.Active = n.Href == path || (n.Href != "/" && strings.HasPrefix(path, n.Href))
		items[i] = n
	}
	return items
}

// rawNumber formats f for an input value: no grouping, no exponent.
func rawNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func itemErr(errs map[string]string, i int, field string) string {
	return errs[fmt.Sprintf("items.%d.%s", i, field)]
}

func verdictClass(v services.Verdict) string {
	return "verdict-" + string(v)
}

func statusClass(s services.KPIStatus) string {
	return "status-" + string(s)
}

func negativeClass(f float64) string {
	if f < 0 {
		return "negative"
	}
	return ""
}

// barStyle sizes a progress bar, clamped to 0..100%.
func barStyle(pct float64) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("width: %.0f%%", min(max(pct, 0), 100)))
}

func clientLabel(c services.Client) string {
	if c.RUT == "" {
		return c.Name
	}
	return c.Name + " (" + c.RUT + ")"
}

// sameRUT reports whether a picker option matches the current client. An
// empty RUT never matches.
func sameRUT(option, current string) bool {
	return current != "" && option == current
}

func clientAddress(c services.Client) string {
	parts := []string{c.Address}
	for _, p := range []string{c.Commune, c.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// quoteFieldKeys lists the quote header fields whose errors show above the items.
var quoteFieldKeys = []string{"client_name", "client_rut", "client_email", "validity_days"}

func removeLineVals(i int) string {
	return fmt.Sprintf(`{"remove":"%d"}`, i)
}

func docHref(i int) string {
	return fmt.Sprintf("/documents?doc=%d", i)
}

func addHref(code string) string {
	return "/quotes/new?add=" + url.QueryEscape(code)
}
