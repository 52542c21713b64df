package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testProducts = []Product{
	{Code: "DET-5L", Description: "Detergente líquido 5 L", Category: "Limpieza", Price: 8990},
	{Code: "CLO-1L", Description: "Cloro gel 900 ml", Category: "Limpieza", Price: 1490},
	{Code: "LEC-1L", Description: "Leche entera 1 L", Category: "Lácteos", Price: 1090},
	{Code: "YOG-6", Description: "Yoghurt batido pack 6", Category: "lacteos", Price: 2390},
}

func productCodes(ps []Product) []string {
	codes := make([]string, 0, len(ps))
	for _, p := range ps {
		codes = append(codes, p.Code)
	}
	return codes
}

func TestSearchProducts(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"empty returns all", "", "", []string{"DET-5L", "CLO-1L", "LEC-1L", "YOG-6"}},
		{"accent insensitive", "liquido", "", []string{"DET-5L"}},
		{"by code", "clo-1l", "", []string{"CLO-1L"}},
		{"all terms must match", "leche 1", "", []string{"LEC-1L"}},
		{"category filter", "", "LÁCTEOS", []string{"LEC-1L", "YOG-6"}},
		{"category and query", "pack", "Lacteos", []string{"YOG-6"}},
		{"category text searchable", "limpieza gel", "", []string{"CLO-1L"}},
		{"no match", "vino", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchProducts(testProducts, tt.query, tt.category)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, productCodes(got))
		})
	}
}

func TestProductCategories(t *testing.T) {
	assert.Equal(t, []string{"Lácteos", "Limpieza"}, ProductCategories(testProducts))
	assert.Empty(t, ProductCategories(nil))
}

func TestFindProductAndClient(t *testing.T) {
	p, ok := FindProduct(testProducts, "lec-1l")
	assert.True(t, ok)
	assert.Equal(t, 1090.0, p.Price)

	_, ok = FindProduct(testProducts, "")
	assert.False(t, ok)

	clients := []Client{{RUT: "76.123.456-0", Name: "Don Pepe"}}
	c, ok := FindClient(clients, "761234560")
	assert.True(t, ok)
	assert.Equal(t, "Don Pepe", c.Name)

	_, ok = FindClient(clients, "12.345.678-5")
	assert.False(t, ok)
}

func TestDrivePreviewURL(t *testing.T) {
	const id = "1aBcDeFgHiJkLmNoP_qr-St"
	const preview = "https://drive.google.com/file/d/" + id + "/preview"

	tests := []struct {
		name string
		link string
		want string
	}{
		{"view link", "https://drive.google.com/file/d/" + id + "/view?usp=sharing", preview},
		{"already preview", preview, preview},
		{"open link", "https://drive.google.com/open?id=" + id, preview},
		{"uc link", "https://drive.google.com/uc?id=" + id + "&export=download", preview},
		{"docs host", "https://docs.google.com/file/d/" + id + "/edit", preview},
		{"bare id", id, preview},
		{"other host", "https://example.com/file/d/" + id + "/view", "https://example.com/file/d/" + id + "/view"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DrivePreviewURL(tt.link))
		})
	}
}

func TestSearchDocuments(t *testing.T) {
	docs := []Document{
		{Title: "Catálogo Limpieza 2026", Category: "Catálogos"},
		{Title: "Ficha técnica cloro", Category: "Fichas", Description: "Hoja de seguridad"},
	}
	assert.Len(t, SearchDocuments(docs, "catalogo", ""), 1)
	assert.Len(t, SearchDocuments(docs, "seguridad", "fichas"), 1)
	assert.Empty(t, SearchDocuments(docs, "seguridad", "Catálogos"))
	assert.Equal(t, []string{"Catálogos", "Fichas"}, DocumentCategories(docs))
}
