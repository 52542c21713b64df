package templates

import (
	"salesdesk/config"
	"salesdesk/services"
)

// LayoutData is shared by every full page.
type LayoutData struct {
	Title       string
	ActivePath  string
	CompanyName string
}

// NavItem is one entry of the top navigation.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// SourceStatus reports whether a dataset has a sheet configured.
type SourceStatus struct {
	Key        string
	Label      string
	Configured bool
}

// DashboardData feeds the home page.
type DashboardData struct {
	Sources           []SourceStatus
	RecentQuotes      []services.QuoteSummary
	RecentEvaluations []services.EvaluationSummary
}

// QuoteListData feeds the saved quotes list.
type QuoteListData struct {
	Quotes []services.QuoteSummary
	Search string
	Error  string
}

// QuoteFormData feeds the quote editor.
type QuoteFormData struct {
	Quote     services.Quote
	Lines     []services.QuoteLineCalc
	Totals    services.QuoteTotals
	Words     string
	Errors    map[string]string
	Clients   []services.Client
	Products  []services.Product
	LoadError string

	Units        []string
	Validity     []int
	PaymentTerms []string
}

// QuoteViewData feeds the saved quote page.
type QuoteViewData struct {
	Quote  *services.QuoteExportData
	Mailto string
}

// EvaluationFormData feeds the comodato evaluation page.
type EvaluationFormData struct {
	Input      services.EvaluationInput
	Result     *services.Evaluation
	Clients    []services.Client
	Saved      []services.EvaluationSummary
	SavedID    string
	LoadError  string
	Import     *services.ImportResult
	ImportJSON string
	Commission []float64
}

// KPIData feeds the goals page.
type KPIData struct {
	Summary services.KPISummary
	Sellers []string
	Seller  string
	Error   string
}

// CatalogData feeds the product catalog.
type CatalogData struct {
	Products   []services.Product
	Total      int
	Categories []string
	Query      string
	Category   string
	Error      string
}

// DocumentItem is a document with its position in the unfiltered list.
type DocumentItem struct {
	Index int
	services.Document
}

// DocumentsData feeds the document viewer.
type DocumentsData struct {
	Documents  []DocumentItem
	Categories []string
	Query      string
	Category   string
	Selected   *DocumentItem
	PreviewURL string
	Error      string
}

// SettingsData feeds the settings page.
type SettingsData struct {
	URLs    config.SheetURLs
	Company config.Company
	Errors  map[string]string
	Saved   bool
}
