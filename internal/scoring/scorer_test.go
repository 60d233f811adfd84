package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultScorer() *Scorer {
	return NewScorer(DefaultCatalog(), DefaultCalibration())
}

func TestExtractTerms_CustomerSuccessAndCRM(t *testing.T) {
	scorer := newDefaultScorer()

	analysis := scorer.ExtractTerms("Estágio em Customer Success com uso diário de CRM. Relatórios no CRM.")

	require.Len(t, analysis.Matches, 2)
	assert.Equal(t, KeywordMatch{Term: "customer success", Category: "Customer Success", Count: 1, Weight: 3, Score: 3}, analysis.Matches[0])
	assert.Equal(t, KeywordMatch{Term: "crm", Category: "CRM", Count: 2, Weight: 2.5, Score: 5}, analysis.Matches[1])
	assert.Equal(t, 2.7, analysis.Score)
	assert.Equal(t, 8.1, Round1(analysis.Score*3))

	var missing []string
	for _, m := range analysis.MissingCategories {
		missing = append(missing, m.Category)
	}
	assert.Equal(t, []string{"Atendimento", "Métricas", "Soft Skills"}, missing)
}

func TestExtractTerms_EmptyText(t *testing.T) {
	scorer := newDefaultScorer()

	for _, text := range []string{"", "   \n\t"} {
		analysis := scorer.ExtractTerms(text)

		assert.Zero(t, analysis.Score)
		assert.Empty(t, analysis.Matches)
		require.Len(t, analysis.MissingCategories, 5)
		assert.Equal(t, MissingCategory{Category: "Customer Success", Suggestion: "Add: customer success, cs"}, analysis.MissingCategories[0])
		assert.Equal(t, MissingCategory{Category: "Soft Skills", Suggestion: "Add: comunicação, empatia"}, analysis.MissingCategories[4])
	}
}

func TestExtractTerms_WordBoundaries(t *testing.T) {
	scorer := newDefaultScorer()

	tests := []struct {
		name  string
		text  string
		term  string
		count int
	}{
		{name: "acronym inside word", text: "quarterly forecasts", term: "cs", count: 0},
		{name: "acronym inside secs", text: "30 secs", term: "cs", count: 0},
		{name: "plain acronym", text: "uso de CRM", term: "crm", count: 1},
		{name: "punctuation delimits", text: "(cs), cs; cs.", term: "cs", count: 3},
		{name: "accented neighbour", text: "sacão e sacola", term: "sac", count: 0},
		{name: "accented term", text: "Boa Comunicação!", term: "comunicação", count: 1},
		{name: "phrase", text: "serviço ao cliente e serviço ao clientes", term: "serviço ao cliente", count: 1},
		{name: "underscore is word char", text: "crm_admin", term: "crm", count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := scorer.ExtractTerms(tt.text)

			got := 0
			for _, m := range analysis.Matches {
				if m.Term == tt.term {
					got = m.Count
				}
			}
			assert.Equal(t, tt.count, got)
		})
	}
}

func TestExtractTerms_ScoreIsCapped(t *testing.T) {
	scorer := newDefaultScorer()

	text := strings.Repeat("customer success salesforce churn ", 50)
	analysis := scorer.ExtractTerms(text)

	assert.Equal(t, 10.0, analysis.Score)
	assert.LessOrEqual(t, Round1(analysis.Score*3), 30.0)
}

func TestExtractTerms_OrderFollowsCatalog(t *testing.T) {
	scorer := newDefaultScorer()

	analysis := scorer.ExtractTerms("empatia, nps, suporte, hubspot, cs")

	var terms []string
	for _, m := range analysis.Matches {
		terms = append(terms, m.Term)
	}
	assert.Equal(t, []string{"cs", "hubspot", "suporte", "nps", "empatia"}, terms)
	assert.Empty(t, analysis.MissingCategories)
}

func TestExtractTerms_Idempotent(t *testing.T) {
	scorer := newDefaultScorer()
	text := "Onboarding de clientes, NPS e churn. Atendimento via Zendesk."

	assert.Equal(t, scorer.ExtractTerms(text), scorer.ExtractTerms(text))
}

func TestExtractTerms_ScoreBounds(t *testing.T) {
	scorer := newDefaultScorer()

	texts := []string{
		"",
		"cs",
		"nenhum termo relevante aqui",
		strings.Repeat("crm ", 1000),
		"Customer Success, CRM, SAC, NPS, empatia",
	}
	for _, text := range texts {
		analysis := scorer.ExtractTerms(text)
		assert.GreaterOrEqual(t, analysis.Score, 0.0)
		assert.LessOrEqual(t, analysis.Score, 10.0)
	}
}

func TestNewScorer_CustomCalibration(t *testing.T) {
	scorer := NewScorer(DefaultCatalog(), Calibration{Divisor: 1, Cap: 4})

	analysis := scorer.ExtractTerms("crm")
	assert.Equal(t, 2.5, analysis.Score)

	analysis = scorer.ExtractTerms("crm crm")
	assert.Equal(t, 4.0, analysis.Score)
}

func TestCountWholeWord(t *testing.T) {
	assert.Equal(t, 2, CountWholeWord("crm crm", "crm"))
	assert.Equal(t, 0, CountWholeWord("crm", ""))
	assert.Equal(t, 1, CountWholeWord("xcs cs", "cs"))
	assert.Equal(t, 0, CountWholeWord("c", "crm"))
	assert.Equal(t, 0, CountWholeWord("crm²", "crm"))
	assert.Equal(t, 0, CountWholeWord("sacão", "sac"))
	// A decomposed accent is a combining mark, not a letter.
	assert.Equal(t, 1, CountWholeWord("sac\u0301 e suporte", "sac"))
}
