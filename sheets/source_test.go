package sheets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Source
	}{
		{
			"edit link with fragment gid",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit#gid=123456",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", GID: "123456"},
		},
		{
			"share link without gid",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit?usp=sharing",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", GID: "0"},
		},
		{
			"export link with query gid",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/export?format=csv&gid=77",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", GID: "77"},
		},
		{
			"gviz link with sheet name",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/gviz/tq?tqx=out:json&sheet=Metas",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", Sheet: "Metas"},
		},
		{
			"edit link with sheet name and gid",
			"https://docs.google.com/spreadsheets/d/1AbCdEfGhIjKlMnOpQrStUvWxYz/edit?sheet=Ventas#gid=9",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", GID: "9", Sheet: "Ventas"},
		},
		{
			"published link",
			"https://docs.google.com/spreadsheets/d/e/2PACX-1vQabc/pub?gid=5&single=true&output=csv",
			Source{ID: "2PACX-1vQabc", GID: "5", Published: true},
		},
		{
			"bare id",
			"  1AbCdEfGhIjKlMnOpQrStUvWxYz  ",
			Source{ID: "1AbCdEfGhIjKlMnOpQrStUvWxYz", GID: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://example.com/spreadsheets/d/abc/edit",
		"https://docs.google.com/document/d/abc/edit",
		"https://docs.google.com/spreadsheets/d/e/",
		"short-id",
	} {
		_, err := ParseURL(raw)
		assert.True(t, errors.Is(err, ErrInvalidURL), "ParseURL(%q) error = %v", raw, err)
	}
}

func TestSourceURLs(t *testing.T) {
	src := Source{ID: "abc", GID: "12"}
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=csv&gid=12", src.CSVURL())
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/gviz/tq?gid=12&tqx=out%3Ajson", src.GVizURL())
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/export?format=xlsx&gid=12", src.XLSXURL())

	named := Source{ID: "abc", Sheet: "Ventas Q1"}
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/gviz/tq?sheet=Ventas+Q1&tqx=out%3Ajson", named.GVizURL())

	pub := Source{ID: "2PACX", Published: true}
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/e/2PACX/pub?gid=0&output=csv&single=true", pub.CSVURL())
	assert.Empty(t, pub.GVizURL())
}

func TestSource_NamedOnly(t *testing.T) {
	assert.True(t, Source{ID: "abc", Sheet: "Ventas"}.NamedOnly())
	assert.False(t, Source{ID: "abc", GID: "4", Sheet: "Ventas"}.NamedOnly())
	assert.False(t, Source{ID: "abc", GID: "0"}.NamedOnly())
	assert.False(t, Source{ID: "2PACX", Sheet: "Ventas", Published: true}.NamedOnly())
}
