package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/config"
	"salesdesk/sheets"
)

const testSheetURL = "https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit#gid=7"

type fakeFetcher struct {
	tables map[string]*sheets.Table // keyed by gid
	err    error
	got    []sheets.Source
}

func (f *fakeFetcher) Fetch(ctx context.Context, src sheets.Source) (*sheets.Table, error) {
	f.got = append(f.got, src)
	if f.err != nil {
		return nil, f.err
	}
	return f.tables[src.GID], nil
}

type fakeLister struct {
	docs []Document
	err  error
}

func (f fakeLister) ListDocuments(ctx context.Context, folderID string) ([]Document, error) {
	return f.docs, f.err
}

func TestSheetStore_Clients(t *testing.T) {
	f := &fakeFetcher{tables: map[string]*sheets.Table{
		"7": {
			Headers: []string{"RUT", "Razón Social", "Vendedor"},
			Rows: [][]string{
				{"761234560", "Don Pepe SpA", "Ana"},
				{"", "", "Luis"},
			},
		},
	}}
	store := NewSheetStore(f, func() config.SheetURLs { return config.SheetURLs{Clients: testSheetURL} })

	clients, err := store.Clients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, Client{RUT: "76.123.456-0", Name: "Don Pepe SpA", Seller: "Ana"}, clients[0])
	assert.Equal(t, "1AbCdEfGhIjKlMnOpQrStUvWxYz", f.got[0].ID)
}

func TestSheetStore_NotConfigured(t *testing.T) {
	store := NewSheetStore(&fakeFetcher{}, func() config.SheetURLs { return config.SheetURLs{} })
	ctx := context.Background()

	_, err := store.Products(ctx)
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
	_, err = store.Goals(ctx)
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
	_, err = store.Documents(ctx)
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
}

func TestSheetStore_InvalidURLAndFetchError(t *testing.T) {
	store := NewSheetStore(&fakeFetcher{}, func() config.SheetURLs {
		return config.SheetURLs{Sales: "https://example.com/sheet"}
	})
	_, err := store.Sales(context.Background())
	assert.ErrorIs(t, err, sheets.ErrInvalidURL)

	boom := errors.New("boom")
	store = NewSheetStore(&fakeFetcher{err: boom}, func() config.SheetURLs {
		return config.SheetURLs{Equipment: testSheetURL}
	})
	_, err = store.Equipment(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "equipment")
}

func TestSheetStore_URLsResolvedPerCall(t *testing.T) {
	urls := config.SheetURLs{}
	f := &fakeFetcher{tables: map[string]*sheets.Table{
		"7": {Headers: []string{"Vendedor", "Meta", "Real"}, Rows: [][]string{{"Ana", "100", "50"}}},
	}}
	store := NewSheetStore(f, func() config.SheetURLs { return urls })

	_, err := store.Goals(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotConfigured)

	urls.Goals = testSheetURL
	goals, err := store.Goals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Goal{{Seller: "Ana", Goal: 100, Actual: 50}}, goals)
}

func TestSheetStore_DocumentsMerge(t *testing.T) {
	f := &fakeFetcher{tables: map[string]*sheets.Table{
		"7": {Headers: []string{"Título", "Enlace"}, Rows: [][]string{{"Lista de precios", "https://drive.google.com/file/d/a/view"}}},
	}}
	urls := func() config.SheetURLs { return config.SheetURLs{Documents: testSheetURL} }

	store := NewSheetStore(f, urls).WithDocumentFolder(fakeLister{docs: []Document{{Title: "Catálogo", URL: "x"}}}, "folder")
	docs, err := store.Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Lista de precios", docs[0].Title)
	assert.Equal(t, "Catálogo", docs[1].Title)

	// A failing folder still returns the sheet rows.
	store = NewSheetStore(f, urls).WithDocumentFolder(fakeLister{err: errors.New("forbidden")}, "folder")
	docs, err = store.Documents(context.Background())
	assert.ErrorContains(t, err, "forbidden")
	assert.Len(t, docs, 1)

	// Folder only.
	store = NewSheetStore(f, func() config.SheetURLs { return config.SheetURLs{} }).
		WithDocumentFolder(fakeLister{docs: []Document{{Title: "Catálogo"}}}, "folder")
	docs, err = store.Documents(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestConfigured(t *testing.T) {
	got := Configured(config.SheetURLs{Clients: "x", Goals: "y"})
	assert.True(t, got["clients"])
	assert.True(t, got["goals"])
	assert.False(t, got["products"])
}
