package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
)

func evaluationReport(app *pocketbase.PocketBase, cfg *config.Config, e *core.RequestEvent) services.EvaluationReport {
	in := parseEvaluationForm(e.Request, cfg)
	return services.EvaluationReport{
		Input:       in,
		Result:      services.Evaluate(in),
		CompanyName: companyFor(app, cfg, e.Request).Name,
		Date:        time.Now(),
	}
}

// HandleEvaluationExportExcel downloads the posted evaluation as .xlsx.
// Route: POST /evaluation/export/excel
func HandleEvaluationExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Datos del formulario inválidos")
		}
		report := evaluationReport(app, cfg, e)

		body, err := services.GenerateEvaluationExcel(report)
		if err != nil {
			log.Printf("evaluation_export: excel: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo generar el Excel")
		}
		return writeDownload(e.Response, contentTypeXLSX, services.EvaluationFilename(report.Input.ClientName, "xlsx"), body)
	}
}

// HandleEvaluationExportPDF downloads the posted evaluation as PDF.
// Route: POST /evaluation/export/pdf
func HandleEvaluationExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Datos del formulario inválidos")
		}
		report := evaluationReport(app, cfg, e)

		body, err := services.GenerateEvaluationPDF(report)
		if err != nil {
			log.Printf("evaluation_export: pdf: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo generar el PDF")
		}
		return writeDownload(e.Response, contentTypePDF, services.EvaluationFilename(report.Input.ClientName, "pdf"), body)
	}
}

// HandleEvaluationImport reads an uploaded sales or equipment file into the
// form. Valid rows replace the matching table; row errors are listed.
// Route: POST /evaluation/import
func HandleEvaluationImport(app *pocketbase.PocketBase, data services.DataSource, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Archivo demasiado grande o formulario inválido")
		}
		in := parseEvaluationForm(e.Request, cfg)

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Seleccione un archivo")
		}
		defer file.Close()

		var result *services.ImportResult
		kind := e.Request.FormValue("kind")
		switch kind {
		case services.ImportSalesKind:
			result, err = services.ImportSales(file, header.Filename)
		case services.ImportEquipmentKind:
			result, err = services.ImportEquipment(file, header.Filename)
		default:
			return ErrorToast(e, http.StatusBadRequest, "Tipo de archivo desconocido")
		}
		if err != nil {
			log.Printf("evaluation_import: %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		if kind == services.ImportSalesKind && len(result.Sales) > 0 {
			in.Sales = services.GroupSalesByLine(result.Sales)
		}
		if kind == services.ImportEquipmentKind && len(result.Equipment) > 0 {
			in.Equipment = result.Equipment
		}
		keepEvaluationDraft(app, in)

		form := evaluationFormData(e.Request.Context(), data, in)
		form.Import = result
		if result.HasErrors() {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("evaluation_import: marshal errors: %v", err)
			} else {
				form.ImportJSON = string(b)
			}
			SetToast(e, toastWarning, fmt.Sprintf("%d filas con errores", result.ErrorRows))
		} else {
			SetToast(e, toastSuccess, fmt.Sprintf("%d filas cargadas", result.ValidRows))
		}
		return renderEvaluation(e, app, form)
	}
}

// HandleImportErrorReport downloads the posted import errors as .xlsx.
// Route: POST /evaluation/import/errors
func HandleImportErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var errs []services.ValidationError
		if err := json.NewDecoder(e.Request.Body).Decode(&errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de errores inválidos")
		}

		body, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("import_errors: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "No se pudo generar el reporte")
		}
		filename := fmt.Sprintf("errores-carga-%s.xlsx", time.Now().Format("2006-01-02"))
		return writeDownload(e.Response, contentTypeXLSX, filename, body)
	}
}

// HandleImportTemplate downloads the upload template for {kind}. The sales
// template offers the price list categories as product lines.
// Route: GET /evaluation/template/{kind}
func HandleImportTemplate(data services.DataSource) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind := e.Request.PathValue("kind")
		if kind != services.ImportSalesKind && kind != services.ImportEquipmentKind {
			return e.String(http.StatusNotFound, "Plantilla no encontrada")
		}

		var lines []string
		if kind == services.ImportSalesKind {
			products, err := data.Products(e.Request.Context())
			if err != nil {
				log.Printf("import_template: products: %v", err)
			}
			lines = services.ProductCategories(products)
		}

		body, err := services.GenerateImportTemplate(kind, lines)
		if err != nil {
			log.Printf("import_template: %v", err)
			return e.String(http.StatusInternalServerError, "No se pudo generar la plantilla")
		}
		return writeDownload(e.Response, contentTypeXLSX, "plantilla-"+kind+".xlsx", body)
	}
}
