package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// evaluationSnapshot is the JSON stored with every saved evaluation. Only
// inputs are kept; figures are recalculated on load.
type evaluationSnapshot struct {
	Equipment []EquipmentLine `json:"equipment"`
	Sales     []SaleLine      `json:"sales"`
}

// EvaluationSummary is a row of the saved evaluations list.
type EvaluationSummary struct {
	ID           string
	ClientName   string
	ClientRUT    string
	Created      time.Time
	TotalRevenue float64
	NetMarginPct float64
	Verdict      Verdict
}

// SaveEvaluation evaluates in and stores the inputs together with the
// headline figures.
func SaveEvaluation(app core.App, in EvaluationInput) (*core.Record, Evaluation, error) {
	ev := Evaluate(in)

	col, err := app.FindCollectionByNameOrId("evaluations")
	if err != nil {
		return nil, ev, fmt.Errorf("evaluations collection: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("client_name", in.ClientName)
	rec.Set("client_rut", in.ClientRUT)
	rec.Set("contract_months", in.ContractMonths)
	rec.Set("elapsed_months", in.ElapsedMonths)
	rec.Set("commission_rate", in.CommissionRate)
	rec.Set("target_margin", in.TargetMargin)
	rec.Set("contract_total", ev.ContractTotal)
	rec.Set("monthly_loan", ev.MonthlyLoan)
	rec.Set("total_revenue", ev.TotalRevenue)
	rec.Set("total_net", ev.TotalNet)
	rec.Set("net_margin_pct", ev.NetMarginPct)
	rec.Set("verdict", string(ev.Verdict))
	rec.Set("snapshot", evaluationSnapshot{Equipment: in.Equipment, Sales: in.Sales})

	if err := app.Save(rec); err != nil {
		return nil, ev, fmt.Errorf("save evaluation: %w", err)
	}
	log.Printf("evaluation: saved %s for %q (%s)", rec.Id, in.ClientName, ev.Verdict)
	return rec, ev, nil
}

// LoadEvaluation rebuilds the input of a saved evaluation and evaluates it
// again.
func LoadEvaluation(app core.App, id string) (EvaluationInput, Evaluation, error) {
	rec, err := app.FindRecordById("evaluations", id)
	if err != nil {
		return EvaluationInput{}, Evaluation{}, fmt.Errorf("evaluation not found: %w", err)
	}

	var snap evaluationSnapshot
	if raw := rec.GetString("snapshot"); raw != "" && raw != "null" {
		if err := rec.UnmarshalJSONField("snapshot", &snap); err != nil {
			return EvaluationInput{}, Evaluation{}, fmt.Errorf("decode evaluation %s: %w", id, err)
		}
	}

	in := EvaluationInput{
		ClientName:     rec.GetString("client_name"),
		ClientRUT:      rec.GetString("client_rut"),
		Equipment:      snap.Equipment,
		ContractMonths: rec.GetInt("contract_months"),
		ElapsedMonths:  rec.GetInt("elapsed_months"),
		CommissionRate: rec.GetFloat("commission_rate"),
		TargetMargin:   rec.GetFloat("target_margin"),
		Sales:          snap.Sales,
	}
	return in, Evaluate(in), nil
}

// ListEvaluations returns saved evaluations, newest first.
func ListEvaluations(app core.App, limit int) ([]EvaluationSummary, error) {
	records, err := app.FindRecordsByFilter("evaluations", "id != ''", "-created", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	out := make([]EvaluationSummary, 0, len(records))
	for _, r := range records {
		out = append(out, EvaluationSummary{
			ID:           r.Id,
			ClientName:   r.GetString("client_name"),
			ClientRUT:    r.GetString("client_rut"),
			Created:      r.GetDateTime("created").Time(),
			TotalRevenue: r.GetFloat("total_revenue"),
			NetMarginPct: r.GetFloat("net_margin_pct"),
			Verdict:      Verdict(r.GetString("verdict")),
		})
	}
	return out, nil
}

// SaveEvaluationDraft keeps the evaluation form between visits.
func SaveEvaluationDraft(app core.App, in EvaluationInput) error {
	return SetSetting(app, SettingEvaluationDraft, in)
}

// LoadEvaluationDraft returns the stored draft. ok is false when there is
// none.
func LoadEvaluationDraft(app core.App) (in EvaluationInput, ok bool) {
	if err := GetSetting(app, SettingEvaluationDraft, &in); err != nil {
		return EvaluationInput{}, false
	}
	return in, true
}

// SaveQuoteDraft keeps the quote form between visits.
func SaveQuoteDraft(app core.App, q Quote) error {
	return SetSetting(app, SettingQuoteDraft, q)
}

// LoadQuoteDraft returns the stored quote draft. ok is false when there is
// none.
func LoadQuoteDraft(app core.App) (q Quote, ok bool) {
	if err := GetSetting(app, SettingQuoteDraft, &q); err != nil {
		return Quote{}, false
	}
	return q, true
}

// ClearQuoteDraft drops the stored quote draft, typically after saving.
func ClearQuoteDraft(app core.App) error {
	return DeleteSetting(app, SettingQuoteDraft)
}
