package columns

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{" Resp. SM ", "RESP_SM"},
		{"Resp.  BU", "RESP_BU"},
		{"Qtia Quest", "QTDE_QUEST"},
		{"QTIA QUEST JIRA", "QTDE_QUEST_JIRA"},
		{"Data Solicitação", "DATA_SOLICITACAO"},
		{"data de conclusão", "DATA_DE_CONCLUSAO"},
		{"Observações", "OBSERVACOES"},
		{"Detalhe", "DETALHE_QUESTIONAMENTO"},
		{"Conclusão Qualitativa", "CONCLUSAO_QUALITATIVA"},
		{"status", "STATUS"},
		{"Coluna Extra", "COLUNA_EXTRA"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.label))
		})
	}
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "SOLICITACOES", StripAccents("SOLICITAÇÕES"))
	assert.Equal(t, "aeiou", StripAccents("áéíõü"))
	assert.Equal(t, "plain", StripAccents("plain"))
}

func TestOrderHasExpectedThenDerived(t *testing.T) {
	require.Len(t, Order, len(Expected)+len(Derived))
	assert.Equal(t, Expected, Order[:len(Expected)])
	assert.Equal(t, Derived, Order[len(Expected):])
}

func TestCanonicalizeKeepsFirstOfCollidingLabels(t *testing.T) {
	raw := dataframe.LoadRecords([][]string{
		{"Resp. SM", "RESP_SM", "Status"},
		{"Ana", "Bia", "Aberto"},
	}, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	require.NoError(t, raw.Err)

	df, dropped := Canonicalize(raw)
	require.NoError(t, df.Err)

	assert.Equal(t, []string{"RESP_SM", "STATUS"}, df.Names())
	assert.Equal(t, []string{"RESP_SM"}, dropped)
	assert.Equal(t, "Ana", df.Col("RESP_SM").Elem(0).String())
	assert.Equal(t, []string{"Resp. SM", "RESP_SM", "Status"}, raw.Names())
}
