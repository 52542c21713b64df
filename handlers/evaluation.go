package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/templates"
)

var errNoClient = errors.New("Seleccione un cliente de la planilla")

const (
	defaultContractMonths = 24
	savedEvaluationsShown = 20
)

// parseEvaluationForm reads the evaluation form. Rows with nothing but
// blanks are dropped; a missing target margin falls back to cfg.
func parseEvaluationForm(r *http.Request, cfg *config.Config) services.EvaluationInput {
	in := services.EvaluationInput{
		ClientName:     formText(r, "client_name"),
		ClientRUT:      formText(r, "client_rut"),
		ContractMonths: formInt(r, "contract_months"),
		ElapsedMonths:  formInt(r, "elapsed_months"),
		CommissionRate: formFloat(r, "commission_rate"),
		TargetMargin:   cfg.TargetMargin,
	}
	if formText(r, "target_margin") != "" {
		in.TargetMargin = formFloat(r, "target_margin")
	}

	descs, qtys, values := r.Form["eq_description"], r.Form["eq_quantity"], r.Form["eq_value"]
	for i := range formRows(r, "eq_description", "eq_quantity", "eq_value") {
		eq := services.EquipmentLine{
			ClientRUT:   in.ClientRUT,
			Description: formColumn(descs, i),
			Quantity:    parseFormNumber(formColumn(qtys, i)),
			UnitValue:   parseFormNumber(formColumn(values, i)),
		}
		if eq.Description == "" && eq.Quantity == 0 && eq.UnitValue == 0 {
			continue
		}
		in.Equipment = append(in.Equipment, eq)
	}

	lines, sq, sp, sc, sw := r.Form["sale_line"], r.Form["sale_quantity"], r.Form["sale_price"], r.Form["sale_cost"], r.Form["sale_weight"]
	for i := range formRows(r, "sale_line", "sale_quantity", "sale_price", "sale_cost", "sale_weight") {
		s := services.SaleLine{
			ClientRUT:   in.ClientRUT,
			ProductLine: formColumn(lines, i),
			Quantity:    parseFormNumber(formColumn(sq, i)),
			UnitPrice:   parseFormNumber(formColumn(sp, i)),
			UnitCost:    parseFormNumber(formColumn(sc, i)),
			Weight:      parseFormNumber(formColumn(sw, i)),
		}
		if s.ProductLine == "" && s.Quantity == 0 && s.UnitPrice == 0 {
			continue
		}
		in.Sales = append(in.Sales, s)
	}
	return in
}

func defaultEvaluationInput(cfg *config.Config) services.EvaluationInput {
	return services.EvaluationInput{
		ContractMonths: defaultContractMonths,
		CommissionRate: services.CommissionOptions[0],
		TargetMargin:   cfg.TargetMargin,
	}
}

// evaluationFormData evaluates in when there is something to evaluate and
// fills the lookups shared by every render of the form.
func evaluationFormData(ctx context.Context, data services.DataSource, in services.EvaluationInput) templates.EvaluationFormData {
	form := templates.EvaluationFormData{
		Input:      in,
		Commission: services.CommissionOptions,
	}
	if len(in.Sales) > 0 || len(in.Equipment) > 0 {
		ev := services.Evaluate(in)
		form.Result = &ev
	}
	clients, err := data.Clients(ctx)
	form.Clients = clients
	form.LoadError = sourceMessage("Clientes", err)
	return form
}

func renderEvaluation(e *core.RequestEvent, app *pocketbase.PocketBase, form templates.EvaluationFormData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.EvaluationContent(form)
	} else {
		saved, err := services.ListEvaluations(app, savedEvaluationsShown)
		if err != nil {
			log.Printf("evaluation: list saved: %v", err)
		}
		form.Saved = saved
		component = templates.EvaluationPage(form, GetLayoutData(e.Request, "Evaluación de Negocio"))
	}
	return component.Render(e.Request.Context(), e.Response)
}

func keepEvaluationDraft(app *pocketbase.PocketBase, in services.EvaluationInput) {
	if err := services.SaveEvaluationDraft(app, in); err != nil {
		log.Printf("evaluation: save draft: %v", err)
	}
}

// HandleEvaluationPage renders the evaluator with the stored draft.
// Route: GET /evaluation
func HandleEvaluationPage(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in, ok := services.LoadEvaluationDraft(app)
		if !ok {
			in = defaultEvaluationInput(cfg)
		}
		return renderEvaluation(e, app, evaluationFormData(e.Request.Context(), data, in))
	}
}

// HandleEvaluationCalculate evaluates the posted form. With action=load the
// client's sales and equipment are first read from the sheets, replacing
// the rows in the form.
// Route: POST /evaluation
func HandleEvaluationCalculate(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario inválidos")
		}
		in := parseEvaluationForm(e.Request, cfg)
		ctx := e.Request.Context()

		var loadMsg string
		if e.Request.FormValue("action") == "load" {
			var err error
			in, loadMsg, err = loadClientData(ctx, data, in)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, err.Error())
			}
			if loadMsg == "" {
				SetToast(e, toastInfo, "Datos cargados desde las planillas")
			}
		}

		keepEvaluationDraft(app, in)
		form := evaluationFormData(ctx, data, in)
		form.LoadError = joinMessages(form.LoadError, loadMsg)
		return renderEvaluation(e, app, form)
	}
}

// loadClientData replaces the sales and equipment rows of in with the
// client's rows from the sheets. Sales are grouped per product line.
func loadClientData(ctx context.Context, data services.DataSource, in services.EvaluationInput) (services.EvaluationInput, string, error) {
	if in.ClientRUT == "" {
		return in, "", errNoClient
	}

	var sales []services.SaleLine
	var equipment []services.EquipmentLine
	var clients []services.Client
	var salesErr, equipmentErr, clientsErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { sales, salesErr = data.Sales(gctx); return nil })
	g.Go(func() error { equipment, equipmentErr = data.Equipment(gctx); return nil })
	g.Go(func() error { clients, clientsErr = data.Clients(gctx); return nil })
	_ = g.Wait()

	if salesErr == nil {
		in.Sales = services.GroupSalesByLine(services.SalesForClient(sales, in.ClientRUT))
	}
	if equipmentErr == nil {
		in.Equipment = services.EquipmentForClient(equipment, in.ClientRUT)
	}
	if clientsErr == nil {
		if c, ok := services.FindClient(clients, in.ClientRUT); ok {
			in.ClientName = c.Name
			in.ClientRUT = c.RUT
		}
	}
	msg := joinMessages(sourceMessage("Ventas", salesErr), sourceMessage("Equipos", equipmentErr))
	return in, msg, nil
}

// HandleEvaluationSave stores the evaluation.
// Route: POST /evaluation/save
func HandleEvaluationSave(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario inválidos")
		}
		in := parseEvaluationForm(e.Request, cfg)
		if in.ClientName == "" {
			return ErrorToast(e, http.StatusBadRequest, "Ingrese el nombre del cliente antes de guardar")
		}

		rec, _, err := services.SaveEvaluation(app, in)
		if err != nil {
			log.Printf("evaluation_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la evaluación")
		}
		keepEvaluationDraft(app, in)

		SetToast(e, toastSuccess, "Evaluación guardada")
		form := evaluationFormData(e.Request.Context(), data, in)
		form.SavedID = rec.Id
		return renderEvaluation(e, app, form)
	}
}

// HandleEvaluationLoad opens a saved evaluation in the form.
// Route: GET /evaluation/{id}
func HandleEvaluationLoad(app *pocketbase.PocketBase, data services.DataSource) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in, _, err := services.LoadEvaluation(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("evaluation_load: %v", err)
			return e.String(http.StatusNotFound, "Evaluación no encontrada")
		}
		keepEvaluationDraft(app, in)
		return renderEvaluation(e, app, evaluationFormData(e.Request.Context(), data, in))
	}
}

// HandleEvaluationReset discards the draft.
// Route: POST /evaluation/reset
func HandleEvaluationReset(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := services.DeleteSetting(app, services.SettingEvaluationDraft); err != nil {
			log.Printf("evaluation_reset: %v", err)
		}
		return redirect(e, "/evaluation")
	}
}
