package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
	"salesdesk/services"
	"salesdesk/templates"
)

type contextKey string

const companyKey contextKey = "company"

// GetCompany extracts the issuing company stored by LayoutMiddleware. Tests
// that skip the middleware get the zero value.
func GetCompany(r *http.Request) config.Company {
	if val, ok := r.Context().Value(companyKey).(config.Company); ok {
		return val
	}
	return config.Company{}
}

// GetLayoutData builds the page shell data for title.
func GetLayoutData(r *http.Request, title string) templates.LayoutData {
	name := GetCompany(r).Name
	if name == "" {
		name = "Salesdesk"
	}
	return templates.LayoutData{
		Title:       title,
		ActivePath:  r.URL.Path,
		CompanyName: name,
	}
}

// LayoutMiddleware loads the company settings once per request and stores
// them in the request context for page headers and exports.
func LayoutMiddleware(app *pocketbase.PocketBase, cfg *config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		company := services.LoadCompany(app, cfg.Company)
		ctx := context.WithValue(e.Request.Context(), companyKey, company)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// companyFor returns the company from the request context, falling back to
// the stored settings when the middleware did not run.
func companyFor(app *pocketbase.PocketBase, cfg *config.Config, r *http.Request) config.Company {
	if c := GetCompany(r); c.Name != "" {
		return c
	}
	return services.LoadCompany(app, cfg.Company)
}
