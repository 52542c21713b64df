package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGenerateImportTemplate_Sales(t *testing.T) {
	result, err := GenerateImportTemplate(ImportSalesKind, []string{"Lácteos", "Cecinas"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err, "result is not valid Excel")
	defer f.Close()

	assert.Equal(t, []string{"Datos", "Instrucciones"}, f.GetSheetList())

	rows, err := f.GetRows("Datos")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Línea", "Cantidad", "Precio unitario", "Costo unitario", "Kilos"}, rows[0])

	dvs, err := f.GetDataValidations("Datos")
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Contains(t, dvs[0].Formula1, "Cecinas")

	visible, err := f.GetSheetVisible("Instrucciones")
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestGenerateImportTemplate_RoundTripsThroughImport(t *testing.T) {
	result, err := GenerateImportTemplate(ImportEquipmentKind, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err)
	f.SetSheetRow("Datos", "A2", &[]any{"Conservadora", 1, 350000})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	f.Close()

	imported, err := ImportEquipment(buf, "equipos.xlsx")
	require.NoError(t, err)
	assert.False(t, imported.HasErrors())
	require.Len(t, imported.Equipment, 1)
	assert.Equal(t, 350000.0, imported.Equipment[0].UnitValue)
}

func TestGenerateImportTemplate_LongLineListSkipsDropDown(t *testing.T) {
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = strings.Repeat("x", 10)
	}
	result, err := GenerateImportTemplate(ImportSalesKind, lines)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytesReader(result))
	require.NoError(t, err)
	defer f.Close()

	dvs, err := f.GetDataValidations("Datos")
	require.NoError(t, err)
	assert.Empty(t, dvs)
}

func TestGenerateImportTemplate_UnknownKind(t *testing.T) {
	_, err := GenerateImportTemplate("clientes", nil)
	assert.Error(t, err)
}

func TestColumnLetters(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, columnLetters(3))
	assert.Equal(t, "AA", columnLetters(27)[26])
}
