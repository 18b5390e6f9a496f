package columns

import (
	"strings"
	"unicode"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Expected lists the canonical fields every normalized table carries, in
// output order.
var Expected = []string{
	types.ColBU,
	types.ColRespBU,
	types.ColDataSolicitacao,
	types.ColCliente,
	types.ColCategoria,
	types.ColDetalheQuestionamento,
	types.ColTipo,
	types.ColRespSM,
	types.ColQtdeQuest,
	types.ColJira,
	types.ColQtdeQuestJira,
	types.ColDataAbertura,
	types.ColDataConclusao,
	types.ColObservacoes,
	types.ColStatus,
	types.ColConclusaoQualitativa,
}

// Derived lists the fields computed by the normalizer.
var Derived = []string{
	types.ColSLADiasUteis,
	types.ColFlagResolucao1Dev,
	types.ColFlagReprocesso,
}

// Order is the full output column order.
var Order = append(append([]string{}, Expected...), Derived...)

// synonyms maps spellings seen in the exports to their canonical name.
var synonyms = map[string]string{
	"RESP_BU":  types.ColRespBU,
	"RESP_SM":  types.ColRespSM,
	"RESP__SM": types.ColRespSM,
	"RESP__BU": types.ColRespBU,

	"DATA_SOLICITACAO": types.ColDataSolicitacao,
	"DATA_ABERTURA":    types.ColDataAbertura,
	"DATA_CONCLUSAO":   types.ColDataConclusao,

	"DETALHE":                types.ColDetalheQuestionamento,
	"DETALHE_QUESTIONAMENTO": types.ColDetalheQuestionamento,

	"QTIA_QUEST":      types.ColQtdeQuest,
	"QTDE_QUEST":      types.ColQtdeQuest,
	"QTIA_QUEST_JIRA": types.ColQtdeQuestJira,
	"QTDE_QUEST_JIRA": types.ColQtdeQuestJira,

	"OBSERVACOES":           types.ColObservacoes,
	"STATUS":                types.ColStatus,
	"TIPO":                  types.ColTipo,
	"CLIENTE":               types.ColCliente,
	"CATEGORIA":             types.ColCategoria,
	"JIRA":                  types.ColJira,
	"CONCLUSAO_QUALITATIVA": types.ColConclusaoQualitativa,
}

// StripAccents decomposes s and drops combining marks and any rune that has
// no ASCII form, so "SOLICITAÇÃO" becomes "SOLICITACAO".
func StripAccents(s string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Spelling applies the mechanical part of canonicalization: accents, trim,
// separators, repeated underscores and case.
func Spelling(label string) string {
	c := strings.TrimSpace(StripAccents(label))
	c = strings.NewReplacer(".", "_", " ", "_").Replace(c)
	for strings.Contains(c, "__") {
		c = strings.ReplaceAll(c, "__", "_")
	}
	return strings.ToUpper(c)
}

// Canonical maps a raw column label to its canonical name. Unknown labels
// keep their canonicalized spelling.
func Canonical(label string) string {
	c := Spelling(label)
	if name, ok := synonyms[c]; ok {
		return name
	}
	return c
}

// Canonicalize renames every column of df to its canonical name. When two
// labels land on the same name only the first column is kept; the dropped
// labels are returned.
func Canonicalize(df dataframe.DataFrame) (dataframe.DataFrame, []string) {
	names := df.Names()
	seen := make(map[string]bool, len(names))
	keep := make([]int, 0, len(names))
	renamed := make([]string, 0, len(names))
	var dropped []string

	for i, n := range names {
		c := Canonical(n)
		if seen[c] {
			dropped = append(dropped, n)
			continue
		}
		seen[c] = true
		keep = append(keep, i)
		renamed = append(renamed, c)
	}

	out := df.Copy()
	if len(dropped) > 0 {
		out = df.Select(keep)
	}
	if err := out.SetNames(renamed...); err != nil {
		return dataframe.DataFrame{Err: err}, dropped
	}
	return out, dropped
}
