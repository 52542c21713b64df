package handlers

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/sheets"
	"salesdesk/templates"
)

// HandleSettings renders the sheet URLs and the company profile.
// Route: GET /settings
func HandleSettings(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.SettingsData{
			URLs:    services.LoadSheetURLs(app, cfg.Sheets),
			Company: services.LoadCompany(app, cfg.Company),
		}
		return renderSettings(e, data)
	}
}

// HandleSettingsSave validates and stores the settings. Invalid input is
// shown back with per-field messages and nothing is saved.
// Route: POST /settings
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos del formulario inválidos")
		}
		r := e.Request
		data := templates.SettingsData{
			URLs: config.SheetURLs{
				Clients:   formText(r, "clients"),
				Products:  formText(r, "products"),
				Sales:     formText(r, "sales"),
				Equipment: formText(r, "equipment"),
				Goals:     formText(r, "goals"),
				Documents: formText(r, "documents"),
			},
			Company: config.Company{
				Name:    formText(r, "company_name"),
				RUT:     formText(r, "company_rut"),
				Address: formText(r, "company_address"),
				Email:   formText(r, "company_email"),
				Phone:   formText(r, "company_phone"),
			},
		}

		data.Errors = validateSettings(data.URLs, data.Company)
		if len(data.Errors) > 0 {
			SetToast(e, toastWarning, "Revise los datos marcados")
			if !isHTMX(e) {
				e.Response.WriteHeader(http.StatusUnprocessableEntity)
			}
			return renderSettings(e, data)
		}
		if services.ValidRUT(data.Company.RUT) {
			data.Company.RUT = services.FormatRUT(data.Company.RUT)
		}

		if err := services.SaveSheetURLs(app, data.URLs); err != nil {
			log.Printf("settings: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la configuración")
		}
		if err := services.SaveCompany(app, data.Company); err != nil {
			log.Printf("settings: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo guardar la configuración")
		}

		SetToast(e, toastSuccess, "Configuración guardada")
		data.Saved = true
		return renderSettings(e, data)
	}
}

func validateSettings(urls config.SheetURLs, company config.Company) map[string]string {
	errs := map[string]string{}
	for key, raw := range map[string]string{
		"clients":   urls.Clients,
		"products":  urls.Products,
		"sales":     urls.Sales,
		"equipment": urls.Equipment,
		"goals":     urls.Goals,
		"documents": urls.Documents,
	} {
		if raw == "" {
			continue
		}
		if _, err := sheets.ParseURL(raw); err != nil {
			errs[key] = "No es un enlace de Google Sheets válido"
		}
	}
	if company.Name == "" {
		errs["company_name"] = "Ingrese la razón social"
	}
	if company.RUT != "" && !services.ValidRUT(company.RUT) {
		errs["company_rut"] = "RUT inválido"
	}
	if company.Email != "" {
		if !services.ValidEmail(company.Email) {
			errs["company_email"] = "Correo inválido"
		}
	}
	return errs
}

func renderSettings(e *core.RequestEvent, data templates.SettingsData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.SettingsContent(data)
	} else {
		component = templates.SettingsPage(data, GetLayoutData(e.Request, "Configuración"))
	}
	return component.Render(e.Request.Context(), e.Response)
}
