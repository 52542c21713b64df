package services

import (
	"testing"
)

func TestUnitOptions(t *testing.T) {
	if len(UnitOptions) == 0 {
		t.Fatal("UnitOptions should not be empty")
	}

	expected := map[string]bool{"Unidad": true, "Caja": true, "Kg": true}
	found := make(map[string]bool)
	for _, opt := range UnitOptions {
		if opt == "" {
			t.Error("UnitOptions contains empty string")
		}
		if found[opt] {
			t.Errorf("duplicate unit option %q", opt)
		}
		found[opt] = true
	}
	for k := range expected {
		if !found[k] {
			t.Errorf("expected unit option %q not found", k)
		}
	}
}

func TestValidityOptions(t *testing.T) {
	for i := 1; i < len(ValidityOptions); i++ {
		if ValidityOptions[i] <= ValidityOptions[i-1] {
			t.Errorf("ValidityOptions not ascending at %d: %v", i, ValidityOptions)
		}
	}
	if ValidityOptions[0] <= 0 {
		t.Errorf("ValidityOptions[0] = %d, want > 0", ValidityOptions[0])
	}
}

func TestPaymentTermsOptions(t *testing.T) {
	if len(PaymentTermsOptions) == 0 || PaymentTermsOptions[0] != "Contado" {
		t.Errorf("expected first payment term to be 'Contado', got %v", PaymentTermsOptions)
	}
}
