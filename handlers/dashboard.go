package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/templates"
)

const dashboardRecent = 5

var sourceLabels = []struct{ key, label string }{
	{"clients", "Clientes"},
	{"products", "Lista de precios"},
	{"sales", "Ventas"},
	{"equipment", "Equipos en comodato"},
	{"goals", "Metas"},
	{"documents", "Documentos"},
}

// HandleDashboard renders the home page.
// Route: GET /
func HandleDashboard(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		configured := services.Configured(services.LoadSheetURLs(app, cfg.Sheets))
		data := templates.DashboardData{}
		for _, s := range sourceLabels {
			data.Sources = append(data.Sources, templates.SourceStatus{
				Key:        s.key,
				Label:      s.label,
				Configured: configured[s.key],
			})
		}

		quotes, err := services.ListQuotes(app, "")
		if err != nil {
			log.Printf("dashboard: %v", err)
		}
		if len(quotes) > dashboardRecent {
			quotes = quotes[:dashboardRecent]
		}
		data.RecentQuotes = quotes

		evals, err := services.ListEvaluations(app, dashboardRecent)
		if err != nil {
			log.Printf("dashboard: %v", err)
		}
		data.RecentEvaluations = evals

		layout := GetLayoutData(e.Request, "Inicio")
		return templates.DashboardPage(data, layout).Render(e.Request.Context(), e.Response)
	}
}
