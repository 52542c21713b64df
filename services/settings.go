package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/config"
)

// Settings keys.
const (
	SettingSheetURLs       = "sheet_urls"
	SettingCompany         = "company"
	SettingQuoteDraft      = "quote_draft"
	SettingEvaluationDraft = "evaluation_draft"
)

// ErrSettingNotFound is returned by GetSetting when key has no record.
var ErrSettingNotFound = errors.New("setting not found")

// GetSetting decodes the JSON value stored under key into v.
func GetSetting(app core.App, key string, v any) error {
	record, err := app.FindFirstRecordByData("settings", "key", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSettingNotFound
		}
		return fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := record.UnmarshalJSONField("value", v); err != nil {
		return fmt.Errorf("decode setting %s: %w", key, err)
	}
	return nil
}

// SetSetting stores v as the JSON value of key, creating the record when
// needed.
func SetSetting(app core.App, key string, v any) error {
	record, err := app.FindFirstRecordByData("settings", "key", key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get setting %s: %w", key, err)
		}
		col, err := app.FindCollectionByNameOrId("settings")
		if err != nil {
			return fmt.Errorf("settings collection: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("key", key)
	}
	record.Set("value", v)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key. Missing keys are not an error.
func DeleteSetting(app core.App, key string) error {
	record, err := app.FindFirstRecordByData("settings", "key", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("get setting %s: %w", key, err)
	}
	return app.Delete(record)
}

// LoadSheetURLs returns the stored sheet URLs, or fallback when none are
// stored yet.
func LoadSheetURLs(app core.App, fallback config.SheetURLs) config.SheetURLs {
	var urls config.SheetURLs
	if err := GetSetting(app, SettingSheetURLs, &urls); err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			log.Printf("settings: %v", err)
		}
		return fallback
	}
	return urls
}

// SaveSheetURLs stores the sheet URLs.
func SaveSheetURLs(app core.App, urls config.SheetURLs) error {
	return SetSetting(app, SettingSheetURLs, urls)
}

// LoadCompany returns the stored company profile, or fallback when none
// is stored yet.
func LoadCompany(app core.App, fallback config.Company) config.Company {
	var company config.Company
	if err := GetSetting(app, SettingCompany, &company); err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			log.Printf("settings: %v", err)
		}
		return fallback
	}
	return company
}

// SaveCompany stores the company profile.
func SaveCompany(app core.App, company config.Company) error {
	return SetSetting(app, SettingCompany, company)
}
