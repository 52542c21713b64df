package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/templates"
)

// HandleQuoteList renders the saved quotes, filtered by ?q=.
// Route: GET /quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		search := strings.TrimSpace(e.Request.URL.Query().Get("q"))

		data := templates.QuoteListData{Search: search}
		quotes, err := services.ListQuotes(app, search)
		if err != nil {
			log.Printf("quote_list: %v", err)
			data.Error = "No se pudieron cargar las cotizaciones."
		}
		data.Quotes = quotes

		var component templ.Component
		if isHTMX(e) {
			component = templates.QuoteListContent(data)
		} else {
			component = templates.QuoteListPage(data, GetLayoutData(e.Request, "Cotizaciones"))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteView renders a saved quote with its mail hand-off link.
// Route: GET /quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		quote, err := services.BuildQuoteExportData(app, id, companyFor(app, cfg, e.Request))
		if err != nil {
			log.Printf("quote_view: %v", err)
			return e.String(http.StatusNotFound, "Cotización no encontrada")
		}

		data := templates.QuoteViewData{
			Quote:  quote,
			Mailto: services.QuoteMailto(quote),
		}
		layout := GetLayoutData(e.Request, "Cotización "+quote.Number)
		return templates.QuoteViewPage(data, layout).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotePDF downloads a saved quote as PDF.
// Route: GET /quotes/{id}/pdf
func HandleQuotePDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Falta el ID de la cotización")
		}

		data, err := services.BuildQuoteExportData(app, id, companyFor(app, cfg, e.Request))
		if err != nil {
			log.Printf("quote_pdf: %v", err)
			return e.String(http.StatusNotFound, "Cotización no encontrada")
		}

		pdf, err := services.GenerateQuotePDF(data)
		if err != nil {
			log.Printf("quote_pdf: generate %s: %v", data.Number, err)
			return e.String(http.StatusInternalServerError, "No se pudo generar el PDF")
		}
		return writeDownload(e.Response, contentTypePDF, services.QuoteFilename(data.Number), pdf)
	}
}

// HandleQuoteDelete removes a quote and its items. HTMX callers get an
// empty body so the row disappears.
// Route: DELETE /quotes/{id}
func HandleQuoteDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := app.FindRecordById("quotes", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Cotización no encontrada")
		}
		number := rec.GetString("number")
		if err := app.Delete(rec); err != nil {
			log.Printf("quote_delete: %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo eliminar la cotización")
		}

		SetToast(e, toastSuccess, "Cotización "+number+" eliminada")
		if isHTMX(e) {
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusSeeOther, "/quotes")
	}
}
