package source

import "github.com/radarlegislativo/ingest/internal/document"

// genericNewsAnchors is the last-resort link selector for stakeholder sites
// whose markup drifted away from the configured one.
const genericNewsAnchors = "article h2 a, article h3 a, .news-item h3 a, .entry-title a, .post-title a"

// Catalog returns the builtin source list: the parliamentary committees of
// the XVII legislature, the general parliament activity pages, and the
// stakeholder organizations grouped by regulatory area.
func Catalog() []Source {
	out := make([]Source, 0, 48)
	out = append(out, committees()...)
	out = append(out, generalPages()...)
	out = append(out, stakeholders()...)
	return out
}

func committees() []Source {
	type committee struct {
		id   string
		slug string
		name string
	}
	list := []committee{
		{"comissao_01", "1CACDLG", "Assuntos Constitucionais"},
		{"comissao_02", "2CNECP", "Negócios Estrangeiros"},
		{"comissao_03", "3CDN", "Defesa Nacional"},
		{"comissao_04", "4CAE", "Assuntos Europeus"},
		{"comissao_05", "5COFAP", "Orçamento e Finanças"},
		{"comissao_06", "6CECT", "Economia e Coesão"},
		{"comissao_07", "7CAP", "Agricultura e Pescas"},
		{"comissao_08", "8CEC", "Educação e Ciência"},
		{"comissao_09", "9CS", "Saúde"},
		{"comissao_10", "10CTSSI", "Trabalho e Seg. Social"},
		{"comissao_11", "11CAE", "Ambiente e Energia"},
		{"comissao_12", "12CCCJD", "Cultura e Comunicação"},
		{"comissao_13", "13CREPL", "Reforma do Estado"},
		{"comissao_14", "14CIMH", "Infraestruturas"},
		{"comissao_15", "15CTED", "Transparência"},
	}
	sources := make([]Source, 0, len(list))
	for _, c := range list {
		sources = append(sources, Source{
			ID:      c.id,
			Name:    c.name,
			URL:     "https://www.parlamento.pt/sites/com/XVIILeg/" + c.slug + "/Paginas/default.aspx",
			BaseURL: "https://www.parlamento.pt",
			Family:  FamilyCommittees,
			Channel: document.ChannelParliament,
			Topic:   c.id,
			Chain: []Strategy{
				{Kind: KindCommitteeSections},
			},
		})
	}
	return sources
}

func generalPages() []Source {
	parliamentChain := []Strategy{
		{Kind: KindCalendarRows},
		{Kind: KindTableRows},
	}
	return []Source{
		{
			ID:          "geral_iniciativas",
			Name:        "Últimas Iniciativas Entradas",
			URL:         "https://www.parlamento.pt/Paginas/UltimasIniciativasEntradas.aspx",
			BaseURL:     "https://www.parlamento.pt",
			Family:      FamilyGeneralPages,
			Channel:     document.ChannelParliament,
			ContentKind: "iniciativa",
			Topic:       "geral_iniciativas",
			Chain:       parliamentChain,
		},
		{
			ID:          "geral_perguntas",
			Name:        "Perguntas e Requerimentos",
			URL:         "https://www.parlamento.pt/ActividadeParlamentar/Paginas/PerguntasRequerimentos.aspx",
			BaseURL:     "https://www.parlamento.pt",
			Family:      FamilyGeneralPages,
			Channel:     document.ChannelParliament,
			ContentKind: "requerimento",
			Topic:       "geral_perguntas",
			Chain:       parliamentChain,
		},
		{
			ID:          "geral_votacoes",
			Name:        "Arquivo de Votações",
			URL:         "https://www.parlamento.pt/ArquivoDocumentacao/Paginas/Arquivodevotacoes.aspx",
			BaseURL:     "https://www.parlamento.pt",
			Family:      FamilyGeneralPages,
			Channel:     document.ChannelParliament,
			ContentKind: "votacao",
			Topic:       "geral_votacoes",
			Chain:       parliamentChain,
		},
		{
			ID:          "geral_sumulas",
			Name:        "Súmulas da Conferência de Líderes",
			URL:         "https://www.parlamento.pt/ActividadeParlamentar/Paginas/Sumulas-Conferencia-Lideres.aspx",
			BaseURL:     "https://www.parlamento.pt",
			Family:      FamilyGeneralPages,
			Channel:     document.ChannelParliament,
			ContentKind: "sumula",
			Topic:       "geral_sumulas",
			Chain: []Strategy{
				{Kind: KindCalendarRows},
				{Kind: KindLinkList, Selector: "a[href*='pdf'], a[href*='doc']"},
			},
		},
	}
}

func stakeholders() []Source {
	type org struct {
		id       string
		name     string
		url      string
		topic    string
		kind     string
		selector string
	}
	list := []org{
		// Concertação social
		{"cgtp", "CGTP", "https://www.cgtp.pt/accao-e-luta", "concertacao_social", "noticia", ".entry-title a"},
		{"ugt", "UGT", "https://www.ugt.pt/noticias", "concertacao_social", "noticia", ".news-item h3 a"},
		{"cap", "CAP", "https://www.cap.pt/noticias-cap", "concertacao_social", "noticia", ".noticia-titulo a"},
		{"ccp", "CCP", "https://ccp.pt/noticias/", "concertacao_social", "noticia", ".post-title a"},
		{"ctp", "CTP", "https://ctp.org.pt/noticias", "concertacao_social", "noticia", "article h2 a"},
		// Laboral
		{"act", "ACT", "https://portal.act.gov.pt/Pages/TodasNoticias.aspx", "laboral", "noticia", ".ms-vb a"},
		{"cite", "CITE", "https://cite.gov.pt/noticias-antigas", "laboral", "noticia", ".entry-title a"},
		{"aima", "AIMA", "https://aima.gov.pt/pt/noticias", "laboral", "noticia", ".news-item h3 a"},
		// Ambiente
		{"apambiente", "APA", "https://apambiente.pt/destaques", "ambiente", "destaque", ".destaque-titulo a"},
		{"igamaot", "IGAMAOT", "https://www.igamaot.gov.pt/pt/espaco-publico/destaques", "ambiente", "destaque", ".ms-vb a"},
		{"dgav", "DGAV", "https://www.dgav.pt/destaques/noticias/", "ambiente", "noticia", ".entry-title a"},
		{"dgeg", "DGEG", "https://www.dgeg.gov.pt/pt/destaques/", "ambiente", "destaque", ".news-item h3 a"},
		{"adene", "ADENE", "https://www.adene.pt/comunicacao/noticias/", "ambiente", "noticia", ".noticia a"},
		{"erse", "ERSE", "https://www.erse.pt/comunicacao/destaques/", "ambiente", "destaque", ".destaque h3 a"},
		// Agricultura
		{"dgadr", "DGADR", "https://www.dgadr.gov.pt/pt/destaques", "agricultura", "destaque", ".destaque-item a"},
		{"iniav", "INIAV", "https://www.iniav.pt/divulgacao/noticias-iniav", "agricultura", "noticia", ".news-title a"},
		// Economia e finanças
		{"iapmei", "IAPMEI", "https://www.iapmei.pt/NOTICIAS.aspx", "economia_financas", "noticia", ".noticia-link"},
		{"concorrencia", "AdC", "https://www.concorrencia.pt/pt/noticias-comunicados-e-intervencoes", "economia_financas", "comunicado", ".views-row h3 a"},
		{"aduaneiro", "AT Aduaneiro", "https://info-aduaneiro.portaldasfinancas.gov.pt/pt/noticias/Pages/noticias.aspx", "economia_financas", "noticia", ".ms-vb a"},
		{"bportugal", "Banco de Portugal", "https://www.bportugal.pt/comunicados/media/banco-de-portugal", "economia_financas", "comunicado", ".comunicado-titulo a"},
		{"portugalglobal", "Portugal Global", "https://portugalglobal.pt/noticias/", "economia_financas", "noticia", ".news-item h3 a"},
		{"consumidor", "Portal Consumidor", "https://www.consumidor.gov.pt/comunicacao1/noticias1", "economia_financas", "noticia", ".noticia-titulo a"},
		{"dgae", "DGAE", "https://www.dgae.gov.pt/comunicacao/noticias.aspx", "economia_financas", "noticia", ".news-title a"},
		// Saúde
		{"infarmed", "INFARMED", "https://www.infarmed.pt/web/infarmed/noticias", "saude", "noticia", ".news-item h3 a"},
		{"ers", "ERS", "https://www.ers.pt/pt/comunicacao/noticias/", "saude", "noticia", ".noticia-titulo a"},
		{"igas", "IGAS", "https://www.igas.min-saude.pt/category/noticias-e-eventos/noticias/", "saude", "noticia", ".entry-title a"},
		// Imobiliário e habitação
		{"cmvm", "CMVM", "https://www.cmvm.pt/PInstitucional/Content", "imobiliario_habitacao", "comunicado", ".comunicado a"},
		{"dgterritorio", "DGTerritório", "https://www.dgterritorio.gov.pt/todas-noticias", "imobiliario_habitacao", "noticia", ".news-title a"},
		{"ihru", "IHRU", "https://www.ihru.pt/noticias", "imobiliario_habitacao", "noticia", ".noticia-item a"},
	}
	sources := make([]Source, 0, len(list))
	for _, o := range list {
		sources = append(sources, Source{
			ID:          o.id,
			Name:        o.name,
			URL:         o.url,
			Family:      FamilyStakeholders,
			Channel:     document.ChannelStakeholders,
			ContentKind: o.kind,
			Topic:       o.topic,
			Chain: []Strategy{
				{Kind: KindLinkList, Selector: o.selector},
				{Kind: KindLinkList, Selector: genericNewsAnchors},
			},
		})
	}
	return sources
}
