package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func parseToast(t *testing.T, header string) toastMessage {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	raw, ok := parsed["showToast"]
	if !ok {
		t.Fatal("expected showToast key in HX-Trigger JSON")
	}
	var toast toastMessage
	if err := json.Unmarshal(raw, &toast); err != nil {
		t.Fatalf("showToast value is not valid JSON: %v", err)
	}
	return toast
}

func TestSetToast_Types(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		message string
	}{
		{"success", toastSuccess, "Cotización guardada"},
		{"error", toastError, "No se pudo leer la planilla"},
		{"info", toastInfo, "Datos del cliente cargados"},
		{"warning", toastWarning, "Revise los datos marcados"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := &core.RequestEvent{}
			e.Response = rec

			SetToast(e, tt.kind, tt.message)

			toast := parseToast(t, rec.Header().Get("HX-Trigger"))
			if toast.Type != tt.kind {
				t.Errorf("expected type %q, got %q", tt.kind, toast.Type)
			}
			if toast.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, toast.Message)
			}
		})
	}
}

func TestSetToast_MergesWithExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", `{"quoteSaved":{"id":"abc"}}`)

	SetToast(e, toastSuccess, "Merged toast")

	trigger := rec.Header().Get("HX-Trigger")
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if _, ok := parsed["quoteSaved"]; !ok {
		t.Error("expected quoteSaved key to be preserved after merge")
	}
	if toast := parseToast(t, trigger); toast.Message != "Merged toast" {
		t.Errorf("expected message %q, got %q", "Merged toast", toast.Message)
	}
}

func TestSetToast_OverwritesInvalidExisting(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	rec.Header().Set("HX-Trigger", "notValidJSON")

	SetToast(e, toastError, "Overwritten")

	if toast := parseToast(t, rec.Header().Get("HX-Trigger")); toast.Type != toastError {
		t.Errorf("expected error toast, got %q", toast.Type)
	}
}

func TestSetToast_SpecialCharacters(t *testing.T) {
	for _, msg := range []string{`Cliente "Don Pepe" guardado`, `<script>alert("xss")</script>`, "línea1\nlínea2"} {
		rec := httptest.NewRecorder()
		e := &core.RequestEvent{}
		e.Response = rec

		SetToast(e, toastInfo, msg)

		if toast := parseToast(t, rec.Header().Get("HX-Trigger")); toast.Message != msg {
			t.Errorf("expected message %q, got %q", msg, toast.Message)
		}
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	SetToast(e, toastSuccess, "Configuración guardada")

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash cookie to be set")
	}
	if flash.HttpOnly {
		t.Error("flash cookie must be readable from the page")
	}
	if flash.MaxAge <= 0 {
		t.Errorf("expected short positive MaxAge, got %d", flash.MaxAge)
	}

	raw, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("cookie value is not query-escaped: %v", err)
	}
	var toast toastMessage
	if err := json.Unmarshal([]byte(raw), &toast); err != nil {
		t.Fatalf("cookie value is not JSON: %v", err)
	}
	if toast.Message != "Configuración guardada" || toast.Type != toastSuccess {
		t.Errorf("unexpected cookie toast %+v", toast)
	}
}

func TestErrorToast_SetsHeaderAndReswap(t *testing.T) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec

	if err := ErrorToast(e, http.StatusNotFound, "Cotización no encontrada"); err != nil {
		t.Fatalf("ErrorToast returned error: %v", err)
	}

	toast := parseToast(t, rec.Header().Get("HX-Trigger"))
	if toast.Type != toastError {
		t.Errorf("expected type 'error', got %q", toast.Type)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("expected HX-Reswap 'none', got %q", rec.Header().Get("HX-Reswap"))
	}
	if rec.Body.String() != "Cotización no encontrada" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestErrorToast_StatusCodes(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway, http.StatusInternalServerError} {
		rec := httptest.NewRecorder()
		e := &core.RequestEvent{}
		e.Response = rec

		ErrorToast(e, code, "falló")

		if rec.Code != code {
			t.Errorf("expected status %d, got %d", code, rec.Code)
		}
		if rec.Header().Get("HX-Reswap") != "none" {
			t.Error("expected HX-Reswap: none")
		}
	}
}
