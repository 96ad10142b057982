package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/normalize"
)

// committeeRowSelector matches the activity rows inside each section of a
// parliamentary committee page.
const committeeRowSelector = ".row.margin_h0.margin-Top-15"

// extractCommitteeSections walks the five activity sections of a committee
// page in one pass. Each section has its own column layout, so this is a
// single strategy rather than five chained ones: either the committee layout
// is present (and all sections are read) or it is not.
func extractCommitteeSections(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	records = append(records, committeeAgendas(doc)...)
	records = append(records, committeeHearings(doc)...)
	records = append(records, committeeAudiences(doc)...)
	records = append(records, committeeInitiatives(doc)...)
	records = append(records, committeePetitions(doc)...)
	return records
}

func committeeAgendas(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	doc.Find("#Agendas " + committeeRowSelector).Each(func(_ int, row *goquery.Selection) {
		date := strings.TrimSpace(row.Find(".TextoRegular").First().Text())
		anchor := row.Find(`a[id*="hplNumAgenda"]`)
		text := strings.TrimSpace(anchor.Text())
		link, _ := anchor.Attr("href")
		if date == "" || text == "" {
			return
		}
		records = append(records, document.RawRecord{
			Title:   "Agenda " + text,
			Link:    strings.TrimSpace(link),
			RawDate: date,
			Meta: map[string]string{
				normalize.MetaContentKind: "agenda",
				normalize.MetaEventTime:   strings.TrimSpace(row.Find(".TextoRegular").Eq(2).Text()),
				normalize.MetaEventVenue:  strings.TrimSpace(row.Find(".TextoRegular").Last().Text()),
			},
		})
	})
	return records
}

func committeeHearings(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	doc.Find("#Audicoes " + committeeRowSelector).Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find(`a[id*="hplAssunto"]`)
		subject := strings.TrimSpace(anchor.Text())
		if subject == "" {
			return
		}
		link, _ := anchor.Attr("href")
		records = append(records, document.RawRecord{
			Title:   subject,
			Link:    strings.TrimSpace(link),
			RawDate: strings.TrimSpace(row.Find(".TextoRegular").Eq(3).Text()),
			Meta: map[string]string{
				normalize.MetaContentKind: "audicao",
				normalize.MetaNumber:      strings.TrimSpace(row.Find(".TextoRegular").First().Text()),
				normalize.MetaEntities:    strings.TrimSpace(row.Find(`span[id*="lblEntidades"]`).Text()),
			},
		})
	})
	return records
}

func committeeAudiences(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	doc.Find("#Audiencias " + committeeRowSelector).Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find(`a[id*="hplAssunto"]`)
		subject := strings.TrimSpace(anchor.Text())
		if subject == "" {
			return
		}
		link, _ := anchor.Attr("href")
		records = append(records, document.RawRecord{
			Title:   subject,
			Link:    strings.TrimSpace(link),
			RawDate: strings.TrimSpace(row.Find(".TextoRegular").Last().Text()),
			Meta: map[string]string{
				normalize.MetaContentKind: "audiencia",
				normalize.MetaNumber:      strings.TrimSpace(row.Find(".TextoRegular").First().Text()),
				normalize.MetaEntities:    strings.TrimSpace(row.Find(`span[id*="lblEntidades"]`).Text()),
				normalize.MetaStatus:      strings.TrimSpace(row.Find(".TextoRegular").Eq(4).Text()),
			},
		})
	})
	return records
}

func committeeInitiatives(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	doc.Find("#Iniciativas " + committeeRowSelector).Each(func(_ int, row *goquery.Selection) {
		cols := row.Find(".TextoRegular")
		kind := strings.TrimSpace(cols.Eq(0).Text())
		number := strings.TrimSpace(cols.Eq(1).Text())
		anchor := row.Find(`a[id*="hplIniciativa"]`)
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return
		}
		link, _ := anchor.Attr("href")

		var status, date, authors string
		row.Find(".col-xs-12").Each(func(_ int, col *goquery.Selection) {
			label := strings.TrimSpace(col.Find(".TextoRegular-Titulo").Text())
			value := strings.TrimSpace(col.Find(`.TextoRegular, span[id*="lblAutores"]`).Text())
			switch label {
			case "Estado":
				status = value
			case "D.Estado":
				date = value
			case "Autores":
				authors = value
			}
		})

		records = append(records, document.RawRecord{
			Title:   strings.TrimSpace(kind + " " + number + ": " + title),
			Link:    strings.TrimSpace(link),
			RawDate: date,
			Meta: map[string]string{
				normalize.MetaContentKind: "iniciativa",
				normalize.MetaNumber:      number,
				normalize.MetaStatus:      status,
				normalize.MetaAuthors:     authors,
			},
		})
	})
	return records
}

func committeePetitions(doc *goquery.Document) []document.RawRecord {
	var records []document.RawRecord
	doc.Find("#Peticoes " + committeeRowSelector).Each(func(_ int, row *goquery.Selection) {
		anchor := row.Find(`a[id*="hplTitulo"]`)
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return
		}
		link, _ := anchor.Attr("href")
		records = append(records, document.RawRecord{
			Title:   title,
			Link:    strings.TrimSpace(link),
			RawDate: strings.TrimSpace(row.Find(".TextoRegular").Eq(3).Text()),
			Meta: map[string]string{
				normalize.MetaContentKind: "peticao",
				normalize.MetaNumber:      strings.TrimSpace(row.Find(".TextoRegular").First().Text()),
			},
		})
	})
	return records
}
