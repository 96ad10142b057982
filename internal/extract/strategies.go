package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/radarlegislativo/ingest/internal/document"
	"github.com/radarlegislativo/ingest/internal/normalize"
	"github.com/radarlegislativo/ingest/internal/source"
)

// Default selectors for the strategies that carry one.
const (
	calendarRowSelector = ".row.home_calendar.hc-detail"
	tableRowSelector    = "tr"
	defaultDateSelector = ".data, .date, time, .published"
	recordContainer     = "article, .news-item, .entry, .post, .destaque"
)

// initiativeTitleRe splits "Projeto de Lei 286/XVII/1 [PSD]" into kind,
// number and authors.
var initiativeTitleRe = regexp.MustCompile(`^(.*?)\s+(\d+\/\S+)\s*(?:\[(.*?)\])?`)

// extractLinkList produces one record per matching anchor. The publication
// date and summary are looked up inside the anchor's closest listing
// container.
func extractLinkList(doc *goquery.Document, strat source.Strategy) []document.RawRecord {
	dateSel := strat.DateSelector
	if dateSel == "" {
		dateSel = defaultDateSelector
	}
	summarySel := strat.SummarySelector
	if summarySel == "" {
		summarySel = "p"
	}

	var records []document.RawRecord
	doc.Find(strat.Selector).Each(func(_ int, a *goquery.Selection) {
		title := strings.TrimSpace(a.Text())
		link, _ := a.Attr("href")
		if title == "" && link == "" {
			return
		}
		var rawDate, rawSummary string
		if container := a.Closest(recordContainer); container.Length() > 0 {
			rawDate = strings.TrimSpace(container.Find(dateSel).First().Text())
			rawSummary = strings.TrimSpace(container.Find(summarySel).First().Text())
		}
		records = append(records, document.RawRecord{
			Title:      title,
			Link:       strings.TrimSpace(link),
			RawDate:    rawDate,
			RawSummary: rawSummary,
		})
	})
	return records
}

// extractCalendarRows handles the parliament "home_calendar" listing layout:
// the date is split across a day-month block and a year block, the title and
// description live under the row's first anchor.
func extractCalendarRows(doc *goquery.Document, strat source.Strategy) []document.RawRecord {
	rowSel := strat.Selector
	if rowSel == "" {
		rowSel = calendarRowSelector
	}

	var records []document.RawRecord
	doc.Find(rowSel).Each(func(_ int, row *goquery.Selection) {
		dayMonth := strings.TrimSpace(row.Find("p.date").First().Text())
		year := strings.TrimSpace(row.Find("p.time").First().Text())
		anchor := row.Find("a").First()
		link, _ := anchor.Attr("href")
		titleText := strings.TrimSpace(anchor.Find("p.title").First().Text())
		if titleText == "" {
			titleText = strings.TrimSpace(anchor.Text())
		}
		desc := strings.TrimSpace(row.Find("p.desc").First().Text())
		if titleText == "" && link == "" {
			return
		}

		meta := map[string]string{}
		if dayMonth != "" {
			meta[normalize.MetaDayMonth] = dayMonth
		}
		if year != "" {
			meta[normalize.MetaYear] = year
		}
		// "Projeto de Lei 286/XVII/1 [PSD]" carries number and authors.
		if m := initiativeTitleRe.FindStringSubmatch(titleText); m != nil {
			meta[normalize.MetaNumber] = m[2]
			if m[3] != "" {
				meta[normalize.MetaAuthors] = m[3]
			}
		}

		title := titleText
		if desc != "" {
			title = desc
		}
		records = append(records, document.RawRecord{
			Title:      title,
			Link:       strings.TrimSpace(link),
			RawSummary: desc,
			Meta:       meta,
		})
	})
	return records
}

// extractTableRows is the plain-table fallback: link in the first anchor,
// date in the first cell, description in a later cell.
func extractTableRows(doc *goquery.Document, strat source.Strategy) []document.RawRecord {
	rowSel := strat.Selector
	if rowSel == "" {
		rowSel = tableRowSelector
	}

	var records []document.RawRecord
	doc.Find(rowSel).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		anchor := row.Find("a").First()
		link, _ := anchor.Attr("href")
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			title = strings.TrimSpace(cells.Eq(1).Text())
		}
		if title == "" && link == "" {
			return
		}
		rawDate := strings.TrimSpace(cells.Eq(0).Text())
		summary := strings.TrimSpace(cells.Eq(2).Text())
		if summary == "" {
			summary = strings.TrimSpace(cells.Eq(3).Text())
		}
		records = append(records, document.RawRecord{
			Title:      title,
			Link:       strings.TrimSpace(link),
			RawDate:    rawDate,
			RawSummary: summary,
		})
	})
	return records
}
