package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/config"
	"salesdesk/testhelpers"
)

func TestSetSetting_Upsert(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	require.NoError(t, SetSetting(app, "greeting", map[string]string{"text": "hola"}))
	require.NoError(t, SetSetting(app, "greeting", map[string]string{"text": "buenas"}))

	var got map[string]string
	require.NoError(t, GetSetting(app, "greeting", &got))
	assert.Equal(t, "buenas", got["text"])

	records, err := app.FindRecordsByFilter("settings", "key = 'greeting'", "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetSetting_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	var v any
	err := GetSetting(app, "missing", &v)
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestDeleteSetting(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	require.NoError(t, SetSetting(app, SettingQuoteDraft, Quote{Seller: "Ana"}))
	require.NoError(t, DeleteSetting(app, SettingQuoteDraft))

	var q Quote
	assert.ErrorIs(t, GetSetting(app, SettingQuoteDraft, &q), ErrSettingNotFound)

	// deleting twice is fine
	assert.NoError(t, DeleteSetting(app, SettingQuoteDraft))
}

func TestLoadSheetURLs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fallback := config.SheetURLs{Clients: "https://docs.google.com/spreadsheets/d/env/edit"}

	assert.Equal(t, fallback, LoadSheetURLs(app, fallback))

	stored := config.SheetURLs{
		Clients:  "https://docs.google.com/spreadsheets/d/stored/edit",
		Products: "https://docs.google.com/spreadsheets/d/stored/edit#gid=2",
	}
	require.NoError(t, SaveSheetURLs(app, stored))
	assert.Equal(t, stored, LoadSheetURLs(app, fallback))
}

func TestLoadCompany(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	fallback := config.Company{Name: "Distribuidora"}

	assert.Equal(t, fallback, LoadCompany(app, fallback))

	stored := config.Company{Name: "Distribuidora Sur", RUT: "76.543.210-3", Email: "ventas@dsur.cl"}
	require.NoError(t, SaveCompany(app, stored))
	assert.Equal(t, stored, LoadCompany(app, fallback))
}
