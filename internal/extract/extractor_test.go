package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radarlegislativo/ingest/internal/normalize"
	"github.com/radarlegislativo/ingest/internal/source"
)

func linkListSource(chain ...source.Strategy) source.Source {
	return source.Source{
		ID:     "teste",
		URL:    "https://example.pt/noticias",
		Family: source.FamilyStakeholders,
		Chain:  chain,
	}
}

func TestExtractCommitsToFirstMatchingStrategy(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<div class="primary"><a href="/a">Título suficientemente longo A</a></div>
	<div class="secondary"><a href="/b">Título suficientemente longo B</a></div>
	</body></html>`

	src := linkListSource(
		source.Strategy{Kind: source.KindLinkList, Selector: ".primary a"},
		source.Strategy{Kind: source.KindLinkList, Selector: ".secondary a"},
	)
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	require.Equal(t, "link_list[0]", res.Strategy)
	require.Len(t, res.Records, 1)
	require.Equal(t, "/a", res.Records[0].Link)
}

func TestExtractFallsThroughToLaterStrategy(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<div class="secondary"><a href="/b">Título suficientemente longo B</a></div>
	</body></html>`

	src := linkListSource(
		source.Strategy{Kind: source.KindLinkList, Selector: ".primary a"},
		source.Strategy{Kind: source.KindLinkList, Selector: ".secondary a"},
	)
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	require.Equal(t, "link_list[1]", res.Strategy)
	require.Len(t, res.Records, 1)
}

func TestExtractNoMatchIsNotAnError(t *testing.T) {
	t.Parallel()

	src := linkListSource(source.Strategy{Kind: source.KindLinkList, Selector: ".missing a"})
	res, err := Extract([]byte("<html><body><p>sem listagens</p></body></html>"), src)
	require.NoError(t, err)
	require.Empty(t, res.Strategy)
	require.Empty(t, res.Records)
}

func TestExtractFiltersShortTitlesAndMissingLinks(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<a class="n" href="/ok">Notícia com título completo</a>
	<a class="n" href="/menu">Menu</a>
	<a class="n">Notícia sem destino definido</a>
	</body></html>`

	src := linkListSource(source.Strategy{Kind: source.KindLinkList, Selector: "a.n"})
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	// The strategy still committed even though most candidates were dropped.
	require.Equal(t, "link_list[0]", res.Strategy)
	require.Len(t, res.Records, 1)
	require.Equal(t, "/ok", res.Records[0].Link)
}

func TestExtractCapsRecordCount(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, `<a class="n" href="/doc/%d">Documento número %d da listagem</a>`, i, i)
	}
	sb.WriteString("</body></html>")

	src := linkListSource(source.Strategy{Kind: source.KindLinkList, Selector: "a.n"})
	res, err := Extract([]byte(sb.String()), src)
	require.NoError(t, err)
	require.Len(t, res.Records, 30)

	src.MaxRecords = 5
	res, err = Extract([]byte(sb.String()), src)
	require.NoError(t, err)
	require.Len(t, res.Records, 5)
}

func TestExtractLinkListReadsContainerContext(t *testing.T) {
	t.Parallel()

	page := `<html><body><article>
	<h3><a href="/noticia/1">Nova convenção coletiva assinada</a></h3>
	<span class="data">22.10.2025</span>
	<p>Resumo da notícia com detalhe suficiente para contar.</p>
	</article></body></html>`

	src := linkListSource(source.Strategy{Kind: source.KindLinkList, Selector: "article h3 a"})
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	require.Equal(t, "22.10.2025", res.Records[0].RawDate)
	require.Equal(t, "Resumo da notícia com detalhe suficiente para contar.", res.Records[0].RawSummary)
}

func TestExtractCalendarRows(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<div class="row home_calendar hc-detail">
		<p class="date">22.10</p><p class="time">2025</p>
		<a href="/iniciativa/286"><p class="title">Projeto de Lei 286/XVII/1 [PSD]</p></a>
		<p class="desc">Reforça os meios de fiscalização ambiental</p>
	</div>
	</body></html>`

	src := source.Source{
		ID:     "geral_iniciativas",
		URL:    "https://www.parlamento.pt/x",
		Family: source.FamilyGeneralPages,
		Chain: []source.Strategy{
			{Kind: source.KindCalendarRows},
			{Kind: source.KindTableRows},
		},
	}
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	require.Equal(t, "calendar_rows[0]", res.Strategy)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	// The description becomes the title when present.
	require.Equal(t, "Reforça os meios de fiscalização ambiental", rec.Title)
	require.Equal(t, "/iniciativa/286", rec.Link)
	require.Equal(t, "22.10", rec.Meta[normalize.MetaDayMonth])
	require.Equal(t, "2025", rec.Meta[normalize.MetaYear])
	require.Equal(t, "286/XVII/1", rec.Meta[normalize.MetaNumber])
	require.Equal(t, "PSD", rec.Meta[normalize.MetaAuthors])
}

func TestExtractTableRowsFallback(t *testing.T) {
	t.Parallel()

	page := `<html><body><table>
	<tr><th>Data</th><th>Título</th></tr>
	<tr><td>10.02.2026</td><td><a href="/votacao/9">Votação final global do OE</a></td><td>Aprovado por maioria absoluta</td></tr>
	</table></body></html>`

	src := source.Source{
		ID:     "geral_votacoes",
		URL:    "https://www.parlamento.pt/x",
		Family: source.FamilyGeneralPages,
		Chain: []source.Strategy{
			{Kind: source.KindCalendarRows},
			{Kind: source.KindTableRows},
		},
	}
	res, err := Extract([]byte(page), src)
	require.NoError(t, err)
	require.Equal(t, "table_rows[1]", res.Strategy)
	require.Len(t, res.Records, 1)
	require.Equal(t, "Votação final global do OE", res.Records[0].Title)
	require.Equal(t, "10.02.2026", res.Records[0].RawDate)
	require.Equal(t, "Aprovado por maioria absoluta", res.Records[0].RawSummary)
}
