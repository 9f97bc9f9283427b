package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolinasrbc/spotcheck/internal/cmd/output"
	"github.com/bolinasrbc/spotcheck/internal/cmd/table"
)

type payer struct {
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatJSON).Format(&buf, payer{"Smith, Ann", "75"}))
	assert.JSONEq(t, `{"name":"Smith, Ann","amount":"75"}`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string][]string{"mooring": {"Smith 500", "Jones 250"}}
	require.NoError(t, output.NewFormatter(output.FormatYAML).Format(&buf, data))
	assert.Equal(t, "mooring:\n- Smith 500\n- Jones 250\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{
		Headers:         []string{"name", "amount"},
		Rows:            [][]string{{"Smith, Ann", "75"}, {"Lee, Kim", "60"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, data))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "AMOUNT")
	assert.Contains(t, out, "Smith, Ann")
	assert.Contains(t, out, "Lee, Kim")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewFormatter(output.FormatTable).Format(&buf, []string{"a"}))
	assert.JSONEq(t, `["a"]`, buf.String())
}

func TestParseFormat(t *testing.T) {
	allowed := []output.Format{output.FormatTable, output.FormatJSON}

	f, err := output.ParseFormat("JSON", allowed...)
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, f)

	f, err = output.ParseFormat("", allowed...)
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = output.ParseFormat("yaml", allowed...)
	assert.ErrorContains(t, err, "table, json")
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, output.FormatYAML, output.DetectFormat("yaml"))
	// Tests do not run with a terminal on stdout.
	assert.Equal(t, output.FormatJSON, output.DetectFormat(""))
}
