package normalize

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/source"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var ingestedAt = time.Date(2026, 2, 14, 16, 45, 0, 0, time.UTC)

func newNormalizer() *Normalizer {
	return New(fixedClock{now: ingestedAt})
}

func TestResolveURLForms(t *testing.T) {
	t.Parallel()

	committeePage := "https://www.parlamento.pt/sites/com/XVIILeg/1CACDLG/Paginas/default.aspx"
	cases := []struct {
		name string
		base string
		raw  string
		want string
	}{
		{"absolute", committeePage, "https://app.parlamento.pt/doc/1", "https://app.parlamento.pt/doc/1"},
		{"protocol relative", committeePage, "//app.parlamento.pt/doc/2", "https://app.parlamento.pt/doc/2"},
		{"root relative", committeePage, "/agenda/123", "https://www.parlamento.pt/agenda/123"},
		{
			"path relative replaces the document segment",
			committeePage,
			"detalhe.aspx?id=9",
			"https://www.parlamento.pt/sites/com/XVIILeg/1CACDLG/Paginas/detalhe.aspx?id=9",
		},
		{
			"path relative under a listing page",
			"https://ordemdosmedicos.pt/noticias/",
			"comunicado-escalas/",
			"https://ordemdosmedicos.pt/noticias/comunicado-escalas/",
		},
		{"empty", committeePage, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ResolveURL(tc.base, tc.raw))
		})
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		title   string
		summary string
		want    string
	}{
		{"health", "Audição sobre as urgências do SNS", "falta de médicos nos hospitais", "saude"},
		{"environment", "Plano nacional de redução de emissões", "poluição e biodiversidade", "ambiente"},
		{"finance", "Proposta de alteração ao IRS", "impostos e orçamento", "financas"},
		{"labor", "Greve geral marcada pelos sindicatos", "salário mínimo e contrato trabalho", "trabalho"},
		{"no match", "Sessão solene do 25 de Abril", "", "outros"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Categorize(tc.title, tc.summary))
		})
	}
}

func TestNormalizeCommitteeAgendaRecord(t *testing.T) {
	t.Parallel()

	src := source.Source{
		ID:      "comissao_01",
		Name:    "Comissão de Assuntos Constitucionais",
		URL:     "https://www.parlamento.pt/sites/com/XVIILeg/1CACDLG/Paginas/default.aspx",
		Family:  source.FamilyCommittees,
		Channel: document.ChannelParliament,
		Topic:   "comissao_01",
	}
	rec := document.RawRecord{
		Title:   "Agenda da reunião nº 34 da Comissão",
		Link:    "/agenda/123",
		Meta: map[string]string{
			MetaContentKind: "agenda",
			MetaDayMonth:    "22.10",
			MetaYear:        "2025",
			MetaEventTime:   "10:00",
			MetaEventVenue:  "Sala 6",
		},
	}

	doc := newNormalizer().Normalize(rec, src)
	require.Equal(t, "https://www.parlamento.pt/agenda/123", doc.URL)
	require.Equal(t, time.Date(2025, 10, 22, 0, 0, 0, 0, time.UTC), doc.PublishedAt)
	require.Equal(t, "agenda", doc.ContentKind)
	require.Equal(t, "comissao_01", doc.Topic)
	require.Equal(t, document.ChannelParliament, doc.Channel)
	require.Equal(t, "10:00", doc.EventTime)
	require.Equal(t, "Sala 6", doc.EventVenue)
}

func TestNormalizeMissingDateUsesIngestionDay(t *testing.T) {
	t.Parallel()

	src := source.Source{
		ID:      "ordem_medicos",
		Name:    "Ordem dos Médicos",
		URL:     "https://ordemdosmedicos.pt/noticias/",
		Family:  source.FamilyStakeholders,
		Channel: document.ChannelStakeholders,
	}
	rec := document.RawRecord{
		Title: "Comunicado sobre as escalas de urgência",
		Link:  "comunicado-escalas/",
	}

	doc := newNormalizer().Normalize(rec, src)
	require.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), doc.PublishedAt)
	require.Equal(t, "https://ordemdosmedicos.pt/noticias/comunicado-escalas/", doc.URL)
	// Stakeholder records inherit the organisation as entity.
	require.Equal(t, "Ordem dos Médicos", doc.Entities)
	// No topic on the source, so the categorizer decides.
	require.Equal(t, "saude", doc.Topic)
}

func TestNormalizeQuestionKindFromTitle(t *testing.T) {
	t.Parallel()

	src := source.Source{
		ID:          "geral_perguntas",
		URL:         "https://www.parlamento.pt/perguntas",
		Family:      source.FamilyGeneralPages,
		Channel:     document.ChannelParliament,
		ContentKind: "pergunta",
	}

	q := newNormalizer().Normalize(document.RawRecord{
		Title: "Pergunta 120/XVII ao Ministério da Educação",
		Link:  "/pergunta/120",
	}, src)
	require.Equal(t, "pergunta", q.ContentKind)

	r := newNormalizer().Normalize(document.RawRecord{
		Title: "Requerimento 45/XVII à Comissão de Orçamento",
		Link:  "/requerimento/45",
	}, src)
	require.Equal(t, "requerimento", r.ContentKind)
}

func TestNormalizeSummaryDerivation(t *testing.T) {
	t.Parallel()

	src := source.Source{ID: "geral_x", URL: "https://www.parlamento.pt/x", Channel: document.ChannelParliament}
	n := newNormalizer()

	// A real summary survives.
	withSummary := n.Normalize(document.RawRecord{
		Title:      "Título do documento em apreço",
		Link:       "/d/1",
		RawSummary: "Aprecia a situação dos serviços públicos essenciais no interior",
	}, src)
	require.Equal(t, "Aprecia a situação dos serviços públicos essenciais no interior", withSummary.Summary)

	// A too-short summary falls back to the title, truncated.
	longTitle := strings.Repeat("Título muito longo ", 20)
	fromTitle := n.Normalize(document.RawRecord{
		Title:      longTitle,
		Link:       "/d/2",
		RawSummary: "curto",
	}, src)
	require.Equal(t, 200, len([]rune(fromTitle.Summary)))
}
