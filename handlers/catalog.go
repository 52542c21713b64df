package handlers

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
	"salesdesk/templates"
)

// HandleCatalog renders the price list filtered by ?q= and ?category=.
// Route: GET /catalog
func HandleCatalog(data services.DataSource) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := strings.TrimSpace(e.Request.URL.Query().Get("q"))
		category := strings.TrimSpace(e.Request.URL.Query().Get("category"))

		products, err := data.Products(e.Request.Context())
		catalog := templates.CatalogData{
			Products:   services.SearchProducts(products, query, category),
			Total:      len(products),
			Categories: services.ProductCategories(products),
			Query:      query,
			Category:   category,
			Error:      sourceMessage("Lista de precios", err),
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.CatalogContent(catalog)
		} else {
			component = templates.CatalogPage(catalog, GetLayoutData(e.Request, "Catálogo"))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleDocuments renders the document catalog. ?doc=<n> selects the n-th
// document of the unfiltered list for the embedded viewer.
// Route: GET /documents
func HandleDocuments(data services.DataSource) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		query := strings.TrimSpace(q.Get("q"))
		category := strings.TrimSpace(q.Get("category"))

		// Partial results are still listed alongside the error.
		docs, err := data.Documents(e.Request.Context())
		page := templates.DocumentsData{
			Categories: services.DocumentCategories(docs),
			Query:      query,
			Category:   category,
			Error:      sourceMessage("Documentos", err),
		}

		items := make([]templates.DocumentItem, len(docs))
		for i, d := range docs {
			items[i] = templates.DocumentItem{Index: i, Document: d}
		}
		matched := services.SearchDocuments(docs, query, category)
		for _, item := range items {
			if containsDocument(matched, item.Document) {
				page.Documents = append(page.Documents, item)
			}
		}

		if n, convErr := strconv.Atoi(q.Get("doc")); convErr == nil && n >= 0 && n < len(items) {
			selected := items[n]
			page.Selected = &selected
			page.PreviewURL = services.DrivePreviewURL(selected.URL)
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.DocumentsContent(page)
		} else {
			component = templates.DocumentsPage(page, GetLayoutData(e.Request, "Documentos"))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

func containsDocument(docs []services.Document, d services.Document) bool {
	for _, m := range docs {
		if m == d {
			return true
		}
	}
	return false
}
