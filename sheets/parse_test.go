package sheets

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_QuotedFields(t *testing.T) {
	input := "\ufeffCódigo,Descripción,Precio\n" +
		"A-1,\"Detergente, 5 L\",\"$12.990\"\n" +
		"A-2,\"Cloro\ngel 900 ml\",1.490\n" +
		",,\n" +
		"A-3,\"Esponja \"\"multiuso\"\"\"\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	want := &Table{
		Headers: []string{"Código", "Descripción", "Precio"},
		Rows: [][]string{
			{"A-1", "Detergente, 5 L", "$12.990"},
			{"A-2", "Cloro\ngel 900 ml", "1.490"},
			{"A-3", "Esponja \"multiuso\"", ""},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("ParseCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSV_LeadingBlankRowsAndTrailingColumns(t *testing.T) {
	input := ",,\n,,\nVendedor,Meta,,\nAna,100,,\n"
	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Vendedor", "Meta"}, table.Headers)
	assert.Equal(t, [][]string{{"Ana", "100"}}, table.Rows)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptySheet))

	_, err = ParseCSV(strings.NewReader(",,\n\n"))
	assert.True(t, errors.Is(err, ErrEmptySheet))
}

func TestParseCSV_HTMLPage(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("<!DOCTYPE html><html><body>Sign in</body></html>"))
	assert.ErrorIs(t, err, errHTMLPage)
}

func TestParseGViz(t *testing.T) {
	body := []byte(`/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","reqId":"0","status":"ok","table":{"cols":[{"id":"A","label":"Vendedor","type":"string"},{"id":"B","label":"Meta","type":"number","pattern":"#,##0"},{"id":"C","label":"Fecha","type":"date"},{"id":"D","label":"Avance","type":"number"}],"rows":[{"c":[{"v":"Ana"},{"v":1500000.0,"f":"1.500.000"},{"v":"Date(2026,9,1)","f":"01-10-2026"},{"v":0.25,"f":"25%"}]},{"c":[{"v":"Luis"},null,null,{"v":1234.5}]},{"c":[null,null,null,null]}]}});`)

	table, err := ParseGViz(body)
	require.NoError(t, err)

	want := &Table{
		Headers: []string{"Vendedor", "Meta", "Fecha", "Avance"},
		Rows: [][]string{
			{"Ana", "1500000", "01-10-2026", "0,25"},
			{"Luis", "", "", "1234,5"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("ParseGViz() mismatch (-want +got):\n%s", diff)
	}

	// Raw numbers survive the round trip through ParseNumber.
	assert.Equal(t, 1500000.0, ParseNumber(table.Rows[0][1]))
	assert.Equal(t, 0.25, ParseNumber(table.Rows[0][3]))
	assert.Equal(t, 1234.5, ParseNumber(table.Rows[1][3]))
}

func TestParseGViz_UnlabelledColumns(t *testing.T) {
	body := []byte(`google.visualization.Query.setResponse({"status":"ok","table":{"cols":[{"id":"A","label":"","type":"string"},{"id":"B","label":"","type":"string"}],"rows":[{"c":[{"v":"Titulo"},{"v":"Enlace"}]},{"c":[{"v":"Catálogo 2026"},{"v":"https://drive.google.com/file/d/x/view"}]}]}});`)

	table, err := ParseGViz(body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Titulo", "Enlace"}, table.Headers)
	assert.Equal(t, 1, table.Len())
}

func TestParseGViz_ErrorStatus(t *testing.T) {
	body := []byte(`google.visualization.Query.setResponse({"version":"0.6","status":"error","errors":[{"reason":"access_denied","message":"Access denied","detailed_message":"Sheet is private"}]});`)
	_, err := ParseGViz(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access denied: Sheet is private")
}

func TestParseGViz_Garbage(t *testing.T) {
	_, err := ParseGViz([]byte("not a response"))
	assert.Error(t, err)

	_, err = ParseGViz([]byte("<html><head><style>body{margin:0}</style></head></html>"))
	assert.ErrorIs(t, err, errHTMLPage)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Equipo", "Cantidad", "Valor unitario"})
	f.SetSheetRow(sheet, "A2", &[]any{"Vitrina refrigerada", 2, 850000})
	f.SetSheetRow(sheet, "A3", &[]any{"Dispensador", 5, 45000})

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	table, err := ParseXLSX(&buf, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipo", "Cantidad", "Valor unitario"}, table.Headers)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Vitrina refrigerada", table.Rows[0][0])
	assert.Equal(t, 850000.0, ParseNumber(table.Rows[0][2]))
}

func TestParseXLSX_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	_, err := ParseXLSX(&buf, "Nope")
	assert.Error(t, err)
}
