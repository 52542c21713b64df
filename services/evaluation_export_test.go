package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() EvaluationReport {
	in := sampleEvaluationInput()
	return EvaluationReport{
		Input:       in,
		Result:      Evaluate(in),
		CompanyName: "Distribuidora Sur",
		Date:        time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateEvaluationExcel(t *testing.T) {
	result, err := GenerateEvaluationExcel(sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, result)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err, "result is not valid Excel")
	defer f.Close()

	assert.Equal(t, []string{"Evaluación", "Equipos"}, f.GetSheetList())

	title, _ := f.GetCellValue("Evaluación", "A1")
	assert.Equal(t, "Evaluación de Negocio - Comodato", title)

	client, _ := f.GetCellValue("Evaluación", "A2")
	assert.Equal(t, "Minimarket Don Pepe", client)

	// first summary row holds the contract total as a number
	raw, err := f.GetCellValue("Evaluación", "B5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1200000", raw)

	verdict, _ := f.GetCellValue("Evaluación", "B19")
	assert.Equal(t, "Viable", verdict)

	equipment, _ := f.GetCellValue("Equipos", "A2")
	assert.Equal(t, "Vitrina refrigerada", equipment)
}

func TestGenerateEvaluationExcel_Empty(t *testing.T) {
	result, err := GenerateEvaluationExcel(EvaluationReport{Result: Evaluate(EvaluationInput{})})
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestGenerateEvaluationExcel_SanitizesNames(t *testing.T) {
	r := sampleReport()
	r.Input.ClientName = "=HYPERLINK(\"x\")"
	r.Result.Lines[0].ProductLine = "+cmd"

	result, err := GenerateEvaluationExcel(r)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err)
	defer f.Close()

	client, _ := f.GetCellValue("Evaluación", "A2")
	assert.Equal(t, "'=HYPERLINK(\"x\")", client)
	line, _ := f.GetCellValue("Evaluación", "A22")
	assert.Equal(t, "'+cmd", line)
}

func TestGenerateEvaluationPDF(t *testing.T) {
	for _, v := range []Verdict{VerdictViable, VerdictMarginal, VerdictNotViable} {
		r := sampleReport()
		r.Result.Verdict = v

		result, err := GenerateEvaluationPDF(r)
		require.NoError(t, err)
		require.NotEmpty(t, result)
		assert.Equal(t, "%PDF-", string(result[:5]))
	}
}

func TestGenerateEvaluationPDF_NoEquipment(t *testing.T) {
	r := EvaluationReport{Input: EvaluationInput{ClientName: "Sin equipos"}}
	r.Result = Evaluate(r.Input)

	result, err := GenerateEvaluationPDF(r)
	require.NoError(t, err)
	assert.NotEmpty(t, result)
}

func TestEvaluationFilename(t *testing.T) {
	assert.Equal(t, "evaluacion-minimarket-don-pepe.xlsx", EvaluationFilename("Minimarket Don Pepe", "xlsx"))
	assert.Equal(t, "evaluacion-cafe-nunoa.pdf", EvaluationFilename("Café Ñuñoa", "pdf"))
	assert.Equal(t, "evaluacion.pdf", EvaluationFilename("  ", "pdf"))
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Lácteos", "Lácteos"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"-5", "'-5"},
		{"@x", "'@x"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
