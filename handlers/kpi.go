package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"salesdesk/services"
	"salesdesk/templates"
)

// HandleKPI renders the goals summary. Goals, sales and clients are read
// concurrently; sales only fill goals whose sheet has no actual. A missing
// sales or clients sheet is not reported.
// Route: GET /kpi
func HandleKPI(data services.DataSource, now func() time.Time) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		seller := strings.TrimSpace(e.Request.URL.Query().Get("seller"))

		var goals []services.Goal
		var sales []services.SaleLine
		var clients []services.Client
		var goalsErr, salesErr, clientsErr error

		g, ctx := errgroup.WithContext(e.Request.Context())
		g.Go(func() error { goals, goalsErr = data.Goals(ctx); return nil })
		g.Go(func() error { sales, salesErr = data.Sales(ctx); return nil })
		g.Go(func() error { clients, clientsErr = data.Clients(ctx); return nil })
		_ = g.Wait()

		if salesErr == nil && clientsErr == nil {
			goals = services.FillActualsFromSales(goals, sales, clients)
		}

		kpi := templates.KPIData{
			Seller:  seller,
			Sellers: services.Sellers(goals),
			Summary: services.SummarizeGoals(services.FilterGoalsBySeller(goals, seller), now()),
			Error:   sourceMessage("Metas", goalsErr),
		}
		for _, src := range []struct {
			label string
			err   error
		}{{"Ventas", salesErr}, {"Clientes", clientsErr}} {
			if src.err != nil && !errors.Is(src.err, services.ErrSourceNotConfigured) {
				kpi.Error = joinMessages(kpi.Error, sourceMessage(src.label, src.err))
			}
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.KPIContent(kpi)
		} else {
			component = templates.KPIPage(kpi, GetLayoutData(e.Request, "Metas y KPI"))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
