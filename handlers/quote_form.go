package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/errgroup"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/templates"
)

const defaultValidityDays = 15

// parseQuoteForm reads the quote editor. Item rows left completely blank
// are dropped.
func parseQuoteForm(r *http.Request) services.Quote {
	q := services.Quote{
		Client: services.Client{
			Name:         formText(r, "client_name"),
			RUT:          formText(r, "client_rut"),
			BusinessLine: formText(r, "client_giro"),
			Address:      formText(r, "client_address"),
			Commune:      formText(r, "client_commune"),
			City:         formText(r, "client_city"),
			Contact:      formText(r, "client_contact"),
			Email:        formText(r, "client_email"),
			Phone:        formText(r, "client_phone"),
		},
		Seller:       formText(r, "seller"),
		ValidityDays: formInt(r, "validity_days"),
		PaymentTerms: formText(r, "payment_terms"),
		Notes:        formText(r, "notes"),
	}
	if q.Client.RUT != "" && services.ValidRUT(q.Client.RUT) {
		q.Client.RUT = services.FormatRUT(q.Client.RUT)
	}

	codes := r.Form["item_code"]
	descs := r.Form["item_description"]
	units := r.Form["item_unit"]
	qtys := r.Form["item_quantity"]
	prices := r.Form["item_unit_price"]
	discounts := r.Form["item_discount"]
	n := formRows(r, "item_code", "item_description", "item_unit", "item_quantity", "item_unit_price", "item_discount")
	for i := 0; i < n; i++ {
		item := services.QuoteItem{
			Code:            formColumn(codes, i),
			Description:     formColumn(descs, i),
			Unit:            formColumn(units, i),
			Quantity:        parseFormNumber(formColumn(qtys, i)),
			UnitPrice:       parseFormNumber(formColumn(prices, i)),
			DiscountPercent: parseFormNumber(formColumn(discounts, i)),
		}
		if item.Code == "" && item.Description == "" && item.Quantity == 0 && item.UnitPrice == 0 {
			continue
		}
		q.Items = append(q.Items, item)
	}
	return q
}

// quoteLookups loads clients and products concurrently. Failures become an
// inline message; the editor still works with manual entry.
func quoteLookups(ctx context.Context, data services.DataSource) ([]services.Client, []services.Product, string) {
	var clients []services.Client
	var products []services.Product
	var clientsErr, productsErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clients, clientsErr = data.Clients(gctx)
		return nil
	})
	g.Go(func() error {
		products, productsErr = data.Products(gctx)
		return nil
	})
	_ = g.Wait()

	msg := joinMessages(sourceMessage("Clientes", clientsErr), sourceMessage("Lista de precios", productsErr))
	return clients, products, msg
}

func buildQuoteFormData(q services.Quote, ivaRate float64) templates.QuoteFormData {
	lines := services.CalcQuoteLines(q.Items)
	totals := services.CalcQuoteTotals(lines, ivaRate)
	data := templates.QuoteFormData{
		Quote:        q,
		Lines:        lines,
		Totals:       totals,
		Units:        services.UnitOptions,
		Validity:     services.ValidityOptions,
		PaymentTerms: services.PaymentTermsOptions,
	}
	if totals.Total > 0 {
		data.Words = services.AmountToWords(totals.Total)
	}
	return data
}

// productItem turns a price list entry into a quote line of one unit.
func productItem(p services.Product) services.QuoteItem {
	return services.QuoteItem{
		Code:        p.Code,
		Description: p.Description,
		Unit:        p.Unit,
		Quantity:    1,
		UnitPrice:   p.Price,
	}
}

// lookupProduct resolves what was typed in the add box: an exact code, or
// a search that matches a single product.
func lookupProduct(products []services.Product, typed string) (services.Product, bool) {
	if p, ok := services.FindProduct(products, typed); ok {
		return p, true
	}
	if matches := services.SearchProducts(products, typed, ""); len(matches) == 1 {
		return matches[0], true
	}
	return services.Product{}, false
}

func newQuoteDraft(app *pocketbase.PocketBase) services.Quote {
	if q, ok := services.LoadQuoteDraft(app); ok {
		return q
	}
	return services.Quote{ValidityDays: defaultValidityDays}
}

// HandleQuoteNew renders the quote editor with the stored draft. A code in
// ?add= is appended to the draft first.
// Route: GET /quotes/new
func HandleQuoteNew(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := newQuoteDraft(app)
		clients, products, loadErr := quoteLookups(e.Request.Context(), data)

		if code := e.Request.URL.Query().Get("add"); code != "" {
			if p, ok := lookupProduct(products, code); ok {
				q.Items = append(q.Items, productItem(p))
				if err := services.SaveQuoteDraft(app, q); err != nil {
					log.Printf("quote_new: save draft: %v", err)
				}
			} else {
				loadErr = joinMessages(loadErr, "Producto "+code+" no encontrado.")
			}
		}

		form := buildQuoteFormData(q, cfg.IVARate)
		form.Clients = clients
		form.Products = products
		form.LoadError = loadErr
		layout := GetLayoutData(e.Request, "Nueva cotización")
		return templates.QuoteFormPage(form, layout).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotePreview recalculates the editor after any change and keeps
// the draft. It also applies the editor actions: add, remove, reset and
// picking a client from the sheet.
// Route: POST /quotes/preview
func HandleQuotePreview(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario inválidos")
		}

		if e.Request.FormValue("reset") != "" {
			if err := services.ClearQuoteDraft(app); err != nil {
				log.Printf("quote_preview: clear draft: %v", err)
			}
			return redirect(e, "/quotes/new")
		}

		q := parseQuoteForm(e.Request)
		ctx := e.Request.Context()

		if e.Request.Header.Get("HX-Trigger-Name") == "client_pick" {
			rut := formText(e.Request, "client_pick")
			clients, err := data.Clients(ctx)
			if err != nil {
				return ErrorToast(e, http.StatusBadGateway, sourceMessage("Clientes", err))
			}
			if c, ok := services.FindClient(clients, rut); ok {
				q.Client = c
				if c.Seller != "" {
					q.Seller = c.Seller
				}
			}
			if err := services.SaveQuoteDraft(app, q); err != nil {
				log.Printf("quote_preview: save draft: %v", err)
			}
			return redirect(e, "/quotes/new")
		}

		if raw := e.Request.FormValue("remove"); raw != "" {
			if i, err := strconv.Atoi(raw); err == nil && i >= 0 && i < len(q.Items) {
				q.Items = append(q.Items[:i], q.Items[i+1:]...)
			}
		}

		var products []services.Product
		switch e.Request.FormValue("add") {
		case "blank":
			q.Items = append(q.Items, services.QuoteItem{Quantity: 1})
		case "":
		default:
			typed := formText(e.Request, "add_code")
			if typed == "" {
				return ErrorToast(e, http.StatusBadRequest, "Ingrese un código o producto")
			}
			var err error
			products, err = data.Products(ctx)
			if err != nil {
				return ErrorToast(e, http.StatusBadGateway, sourceMessage("Lista de precios", err))
			}
			p, ok := lookupProduct(products, typed)
			if !ok {
				return ErrorToast(e, http.StatusNotFound, "Producto no encontrado: "+typed)
			}
			q.Items = append(q.Items, productItem(p))
		}

		if err := services.SaveQuoteDraft(app, q); err != nil {
			log.Printf("quote_preview: save draft: %v", err)
		}

		form := buildQuoteFormData(q, cfg.IVARate)
		if products == nil {
			products, _ = data.Products(ctx)
		}
		form.Products = products
		return templates.QuoteFormContent(form).Render(ctx, e.Response)
	}
}

// HandleQuoteSave validates and stores the quote, then opens it.
// Route: POST /quotes
func HandleQuoteSave(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario inválidos")
		}
		q := parseQuoteForm(e.Request)

		if errs := services.ValidateQuote(q); len(errs) > 0 {
			if err := services.SaveQuoteDraft(app, q); err != nil {
				log.Printf("quote_save: save draft: %v", err)
			}
			SetToast(e, toastWarning, "Revise los datos marcados")
			form := buildQuoteFormData(q, cfg.IVARate)
			form.Errors = errs
			if isHTMX(e) {
				form.Products, _ = data.Products(e.Request.Context())
				return templates.QuoteFormContent(form).Render(e.Request.Context(), e.Response)
			}
			form.Clients, form.Products, form.LoadError = quoteLookups(e.Request.Context(), data)
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			layout := GetLayoutData(e.Request, "Nueva cotización")
			return templates.QuoteFormPage(form, layout).Render(e.Request.Context(), e.Response)
		}

		rec, err := services.SaveQuote(app, q, cfg.IVARate, time.Now())
		if err != nil {
			log.Printf("quote_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la cotización. Intente nuevamente.")
		}
		if err := services.ClearQuoteDraft(app); err != nil {
			log.Printf("quote_save: clear draft: %v", err)
		}

		SetToast(e, toastSuccess, "Cotización "+rec.GetString("number")+" guardada")
		return redirect(e, "/quotes/"+rec.Id)
	}
}
