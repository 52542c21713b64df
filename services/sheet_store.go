package services

import (
	"context"
	"errors"
	"fmt"

	"salesdesk/config"
	"salesdesk/sheets"
)

// ErrSourceNotConfigured is returned when a dataset has no sheet URL.
var ErrSourceNotConfigured = errors.New("data source not configured")

// DataSource provides the datasets every page reads.
type DataSource interface {
	Clients(ctx context.Context) ([]Client, error)
	Products(ctx context.Context) ([]Product, error)
	Sales(ctx context.Context) ([]SaleLine, error)
	Equipment(ctx context.Context) ([]EquipmentLine, error)
	Goals(ctx context.Context) ([]Goal, error)
	Documents(ctx context.Context) ([]Document, error)
}

// SheetStore is the DataSource backed by Google Sheets. URLs are resolved
// on every call so changes saved on the settings page apply immediately.
type SheetStore struct {
	fetcher sheets.Fetcher
	urls    func() config.SheetURLs

	lister DocumentLister
	folder string
}

// NewSheetStore creates a store reading through f. urls returns the
// current sheet URL of each dataset.
func NewSheetStore(f sheets.Fetcher, urls func() config.SheetURLs) *SheetStore {
	return &SheetStore{fetcher: f, urls: urls}
}

// WithDocumentFolder adds the PDFs of a Drive folder to Documents.
func (s *SheetStore) WithDocumentFolder(l DocumentLister, folderID string) *SheetStore {
	s.lister = l
	s.folder = folderID
	return s
}

func (s *SheetStore) table(ctx context.Context, dataset, raw string) (*sheets.Table, error) {
	if raw == "" {
		return nil, fmt.Errorf("%s: %w", dataset, ErrSourceNotConfigured)
	}
	src, err := sheets.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataset, err)
	}
	t, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataset, err)
	}
	return t, nil
}

func (s *SheetStore) Clients(ctx context.Context) ([]Client, error) {
	t, err := s.table(ctx, "clients", s.urls().Clients)
	if err != nil {
		return nil, err
	}
	return ClientsFromTable(t), nil
}

func (s *SheetStore) Products(ctx context.Context) ([]Product, error) {
	t, err := s.table(ctx, "products", s.urls().Products)
	if err != nil {
		return nil, err
	}
	return ProductsFromTable(t), nil
}

func (s *SheetStore) Sales(ctx context.Context) ([]SaleLine, error) {
	t, err := s.table(ctx, "sales", s.urls().Sales)
	if err != nil {
		return nil, err
	}
	return SalesFromTable(t), nil
}

func (s *SheetStore) Equipment(ctx context.Context) ([]EquipmentLine, error) {
	t, err := s.table(ctx, "equipment", s.urls().Equipment)
	if err != nil {
		return nil, err
	}
	return EquipmentFromTable(t), nil
}

func (s *SheetStore) Goals(ctx context.Context) ([]Goal, error) {
	t, err := s.table(ctx, "goals", s.urls().Goals)
	if err != nil {
		return nil, err
	}
	return GoalsFromTable(t), nil
}

// Documents merges the documents sheet with the Drive folder listing. When
// one of the two fails the other is still returned along with the error.
func (s *SheetStore) Documents(ctx context.Context) ([]Document, error) {
	raw := s.urls().Documents
	hasFolder := s.lister != nil && s.folder != ""
	if raw == "" && !hasFolder {
		return nil, fmt.Errorf("documents: %w", ErrSourceNotConfigured)
	}

	var docs []Document
	var errs []error
	if raw != "" {
		t, err := s.table(ctx, "documents", raw)
		if err != nil {
			errs = append(errs, err)
		} else {
			docs = append(docs, DocumentsFromTable(t)...)
		}
	}
	if hasFolder {
		listed, err := s.lister.ListDocuments(ctx, s.folder)
		if err != nil {
			errs = append(errs, fmt.Errorf("documents folder: %w", err))
		} else {
			docs = append(docs, listed...)
		}
	}
	return docs, errors.Join(errs...)
}

// Configured reports which datasets have a sheet URL.
func Configured(urls config.SheetURLs) map[string]bool {
	return map[string]bool{
		"clients":   urls.Clients != "",
		"products":  urls.Products != "",
		"sales":     urls.Sales != "",
		"equipment": urls.Equipment != "",
		"goals":     urls.Goals != "",
		"documents": urls.Documents != "",
	}
}
