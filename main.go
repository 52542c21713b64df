package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
	"salesdesk/config"
	"salesdesk/handlers"
	"salesdesk/services"
	"salesdesk/sheets"
)

func main() {
	config.LoadDotEnv(".env")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.NewWithConfig(pocketbase.Config{DefaultDataDir: cfg.DataDir})
	data := newDataSource(context.Background(), app, cfg)

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.SeedSettings(app, map[string]any{
			services.SettingSheetURLs: cfg.Sheets,
			services.SettingCompany:   cfg.Company,
		}); err != nil {
			log.Printf("Warning: settings seed failed: %v", err)
		}
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.LayoutMiddleware(app, cfg))

		se.Router.GET("/", handlers.HandleDashboard(app, cfg))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/quotes", handlers.HandleQuoteList(app))
		se.Router.GET("/quotes/new", handlers.HandleQuoteNew(app, data, cfg))
		se.Router.POST("/quotes/preview", handlers.HandleQuotePreview(app, data, cfg))
		se.Router.POST("/quotes", handlers.HandleQuoteSave(app, data, cfg))
		se.Router.GET("/quotes/{id}/pdf", handlers.HandleQuotePDF(app, cfg))
		se.Router.GET("/quotes/{id}", handlers.HandleQuoteView(app, cfg))
		se.Router.DELETE("/quotes/{id}", handlers.HandleQuoteDelete(app))

		// ── Comodato evaluation ──────────────────────────────────
		se.Router.GET("/evaluation", handlers.HandleEvaluationPage(app, data, cfg))
		se.Router.POST("/evaluation", handlers.HandleEvaluationCalculate(app, data, cfg))
		se.Router.POST("/evaluation/save", handlers.HandleEvaluationSave(app, data, cfg))
		se.Router.POST("/evaluation/reset", handlers.HandleEvaluationReset(app))
		se.Router.POST("/evaluation/export/excel", handlers.HandleEvaluationExportExcel(app, cfg))
		se.Router.POST("/evaluation/export/pdf", handlers.HandleEvaluationExportPDF(app, cfg))
		se.Router.POST("/evaluation/import", handlers.HandleEvaluationImport(app, data, cfg))
		se.Router.POST("/evaluation/import/errors", handlers.HandleImportErrorReport())
		se.Router.GET("/evaluation/template/{kind}", handlers.HandleImportTemplate(data))
		se.Router.GET("/evaluation/{id}", handlers.HandleEvaluationLoad(app, data))

		// ── Goals, catalog, documents ────────────────────────────
		se.Router.GET("/kpi", handlers.HandleKPI(data, time.Now))
		se.Router.GET("/catalog", handlers.HandleCatalog(data))
		se.Router.GET("/documents", handlers.HandleDocuments(data))

		// ── Settings ─────────────────────────────────────────────
		se.Router.GET("/settings", handlers.HandleSettings(app, cfg))
		se.Router.POST("/settings", handlers.HandleSettingsSave(app))

		return se.Next()
	})

	app.RootCmd.AddCommand(newSheetCmd(cfg), newEvaluateCmd(app, data, cfg))

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// newDataSource wires the sheet readers: the Sheets API first when a
// service account is configured, then the public exports. Sheet URLs are
// read from the settings on every call.
func newDataSource(ctx context.Context, app *pocketbase.PocketBase, cfg *config.Config) *services.SheetStore {
	store := services.NewSheetStore(newFetcher(ctx, cfg), func() config.SheetURLs {
		return services.LoadSheetURLs(app, cfg.Sheets)
	})

	if cfg.DocumentsFolder != "" {
		lister, err := services.NewDriveLister(ctx, cfg.CredentialsFile)
		if err != nil {
			log.Printf("Warning: drive folder disabled: %v", err)
		} else {
			store.WithDocumentFolder(lister, cfg.DocumentsFolder)
		}
	}
	return store
}

func newFetcher(ctx context.Context, cfg *config.Config) sheets.Fetcher {
	public := sheets.NewHTTPClient(cfg.SheetsTimeout)
	if !cfg.HasCredentials() {
		return public
	}
	api, err := sheets.NewAPIClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Printf("Warning: sheets api disabled: %v", err)
		return public
	}
	return sheets.Chain{api, public}
}
