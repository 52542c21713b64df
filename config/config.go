// Package config loads the runtime configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSheetsTimeout = "15s"
	defaultIVARate       = "19"
	defaultTargetMargin  = "15"
	defaultCompanyName   = "Distribuidora"
)

// SheetURLs holds the Google Sheets link configured for each dataset.
// Any of them may be empty; pages depending on an empty one show an
// inline "not configured" message.
type SheetURLs struct {
	Clients   string `json:"clients"`
	Products  string `json:"products"`
	Sales     string `json:"sales"`
	Equipment string `json:"equipment"`
	Goals     string `json:"goals"`
	Documents string `json:"documents"`
}

// Company is the issuer shown on quotes and exports.
type Company struct {
	Name    string `json:"name"`
	RUT     string `json:"rut"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type Config struct {
	AppEnv  string
	DataDir string

	Sheets          SheetURLs
	DocumentsFolder string
	CredentialsFile string
	SheetsTimeout   time.Duration

	// Percentages, e.g. 19 for 19%.
	IVARate      float64
	TargetMargin float64

	Company Company
}

// LoadDotEnv loads path into the process environment unless running in
// production. A missing file is not an error.
func LoadDotEnv(path string) {
	if isProdLike(os.Getenv("APP_ENV")) {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: %s not loaded, using system environment: %v", path, err)
		return
	}
	log.Printf("config: loaded environment from %s", path)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.DataDir = strings.TrimSpace(os.Getenv("SALESDESK_DATA_DIR"))

	cfg.Sheets = SheetURLs{
		Clients:   strings.TrimSpace(os.Getenv("SHEET_CLIENTS_URL")),
		Products:  strings.TrimSpace(os.Getenv("SHEET_PRODUCTS_URL")),
		Sales:     strings.TrimSpace(os.Getenv("SHEET_SALES_URL")),
		Equipment: strings.TrimSpace(os.Getenv("SHEET_EQUIPMENT_URL")),
		Goals:     strings.TrimSpace(os.Getenv("SHEET_GOALS_URL")),
		Documents: strings.TrimSpace(os.Getenv("SHEET_DOCUMENTS_URL")),
	}
	cfg.DocumentsFolder = strings.TrimSpace(os.Getenv("DRIVE_DOCUMENTS_FOLDER"))
	cfg.CredentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))

	var err error
	cfg.SheetsTimeout, err = parseDurationEnv("SHEETS_TIMEOUT", defaultSheetsTimeout)
	if err != nil {
		return nil, err
	}
	cfg.IVARate, err = parsePercentEnv("IVA_RATE", defaultIVARate)
	if err != nil {
		return nil, err
	}
	cfg.TargetMargin, err = parsePercentEnv("TARGET_MARGIN", defaultTargetMargin)
	if err != nil {
		return nil, err
	}

	cfg.Company = Company{
		Name:    strings.TrimSpace(getEnv("COMPANY_NAME", defaultCompanyName)),
		RUT:     strings.TrimSpace(os.Getenv("COMPANY_RUT")),
		Address: strings.TrimSpace(os.Getenv("COMPANY_ADDRESS")),
		Email:   strings.TrimSpace(os.Getenv("COMPANY_EMAIL")),
		Phone:   strings.TrimSpace(os.Getenv("COMPANY_PHONE")),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasCredentials reports whether a service account file is configured.
func (c *Config) HasCredentials() bool {
	return c.CredentialsFile != ""
}

func validate(cfg *Config) error {
	if cfg.SheetsTimeout <= 0 {
		return fmt.Errorf("SHEETS_TIMEOUT must be > 0")
	}
	if cfg.IVARate < 0 || cfg.IVARate > 100 {
		return fmt.Errorf("IVA_RATE must be between 0 and 100")
	}
	if cfg.TargetMargin < -100 || cfg.TargetMargin > 100 {
		return fmt.Errorf("TARGET_MARGIN must be between -100 and 100")
	}
	if cfg.DocumentsFolder != "" && cfg.CredentialsFile == "" {
		return fmt.Errorf("DRIVE_DOCUMENTS_FOLDER requires GOOGLE_APPLICATION_CREDENTIALS")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parsePercentEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	value = strings.TrimSuffix(value, "%")
	value = strings.ReplaceAll(value, ",", ".")
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
