package normalize

import "strings"

// topicKeywords scores free text into one of the thematic buckets. Both
// accented and plain spellings are listed because source titles use either.
var topicKeywords = map[string][]string{
	"saude": {
		"saúde", "saude", "hospital", "médico", "medico", "sns", "medicamento",
		"vacina", "epidemia", "pandemia", "doença", "doenca", "tratamento",
		"enfermagem", "clínica", "clinica", "sanitário", "sanitario", "farmácia",
	},
	"ambiente": {
		"ambiente", "ambiental", "clima", "climático", "climatico", "poluição",
		"poluicao", "reciclagem", "sustentável", "sustentavel", "energia renovável",
		"carbono", "emissões", "emissoes", "biodiversidade", "floresta", "água",
		"agua", "resíduos", "residuos", "ecológico", "ecologico",
	},
	"economia": {
		"economia", "económico", "economico", "pib", "crescimento económico",
		"inflação", "inflacao", "investimento", "exportação", "exportacao",
		"importação", "importacao", "mercado", "comércio", "comercio", "empresas",
		"negócios", "negocios",
	},
	"trabalho": {
		"trabalho", "emprego", "desemprego", "salário", "salario", "trabalhador",
		"contrato trabalho", "código trabalho", "codigo trabalho", "sindicato",
		"greve", "férias", "ferias", "despedimento", "horário", "horario",
		"segurança social", "seguranca social", "laboral",
	},
	"financas": {
		"finanças", "financas", "financeiro", "orçamento", "orcamento", "fiscal",
		"imposto", "iva", "irs", "irc", "taxa", "tributário", "tributario",
		"receita", "despesa", "défice", "defice", "dívida", "divida", "tesouro",
	},
}

// Categorize assigns a thematic topic to a document by keyword occurrence
// count over title and summary; "outros" when nothing scores.
func Categorize(title, summary string) string {
	text := strings.ToLower(title + " " + summary)

	best := "outros"
	bestScore := 0
	// Deterministic iteration so ties resolve stably.
	for _, topic := range []string{"saude", "ambiente", "economia", "trabalho", "financas"} {
		score := 0
		for _, kw := range topicKeywords[topic] {
			score += strings.Count(text, kw)
		}
		if score > bestScore {
			bestScore = score
			best = topic
		}
	}
	return best
}
