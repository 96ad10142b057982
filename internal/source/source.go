// Package source holds the static catalog of fetch targets and the closed
// set of extraction strategies the pipeline knows how to run.
package source

import (
	"fmt"
	"net/url"
	"time"
)

// Family groups sources that are scraped sequentially against related hosts.
// Distinct families may run concurrently.
type Family string

// Known source families.
const (
	FamilyCommittees   Family = "comissoes"
	FamilyGeneralPages Family = "paginas_gerais"
	FamilyStakeholders Family = "stakeholders"
)

// StrategyKind selects one of the structural extraction algorithms.
type StrategyKind string

// The closed strategy variant set. Selector chains are ordered lists of
// these; free-form strategies interpreted by convention are not allowed.
const (
	// KindLinkList extracts one record per matching anchor element.
	KindLinkList StrategyKind = "link_list"
	// KindCalendarRows extracts the parliament "home_calendar" row layout
	// with the split day-month/year date blocks.
	KindCalendarRows StrategyKind = "calendar_rows"
	// KindTableRows extracts plain <tr> rows with the link in the first
	// anchor and the date in the first cell.
	KindTableRows StrategyKind = "table_rows"
	// KindCommitteeSections walks the five activity sections of a
	// parliamentary committee page (agendas, hearings, audiences,
	// initiatives, petitions) in one pass.
	KindCommitteeSections StrategyKind = "committee_sections"
)

// Strategy is one entry in a source's selector chain.
type Strategy struct {
	Kind            StrategyKind `mapstructure:"kind"`
	Selector        string       `mapstructure:"selector"`
	DateSelector    string       `mapstructure:"date_selector"`
	SummarySelector string       `mapstructure:"summary_selector"`
}

// Source describes a single fetch target. Sources are immutable after load.
type Source struct {
	ID          string        `mapstructure:"id"`
	Name        string        `mapstructure:"name"`
	URL         string        `mapstructure:"url"`
	BaseURL     string        `mapstructure:"base_url"`
	Family      Family        `mapstructure:"family"`
	Channel     string        `mapstructure:"channel"`
	ContentKind string        `mapstructure:"content_kind"`
	Topic       string        `mapstructure:"topic"`
	Chain       []Strategy    `mapstructure:"chain"`
	Timeout     time.Duration `mapstructure:"timeout"`
	InsecureTLS bool          `mapstructure:"insecure_tls"`
	RenderJS    bool          `mapstructure:"render_js"`
	MaxRecords  int           `mapstructure:"max_records"`
}

// Base returns the URL relative links resolve against: the configured
// BaseURL override, or the source page URL itself. Resolution follows
// standard URL semantics, so a listing page keeps its path as context for
// path-relative links.
func (s Source) Base() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return s.URL
}

// Validate checks the structural invariants of a source list: unique
// non-empty IDs, parseable URLs, non-empty selector chains of known kinds.
func Validate(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if s.ID == "" {
			return fmt.Errorf("source with url %q has no id", s.URL)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("source %q: invalid url %q", s.ID, s.URL)
		}
		if len(s.Chain) == 0 {
			return fmt.Errorf("source %q: empty selector chain", s.ID)
		}
		for i, st := range s.Chain {
			switch st.Kind {
			case KindLinkList:
				if st.Selector == "" {
					return fmt.Errorf("source %q: chain[%d]: link_list needs a selector", s.ID, i)
				}
			case KindCalendarRows, KindTableRows, KindCommitteeSections:
				// selector optional, the kind carries a default
			default:
				return fmt.Errorf("source %q: chain[%d]: unknown strategy kind %q", s.ID, i, st.Kind)
			}
		}
		switch s.Family {
		case FamilyCommittees, FamilyGeneralPages, FamilyStakeholders:
		default:
			return fmt.Errorf("source %q: unknown family %q", s.ID, s.Family)
		}
	}
	return nil
}

// GroupByFamily splits a source list into per-family slices, preserving
// catalog order within each family.
func GroupByFamily(sources []Source) map[Family][]Source {
	out := make(map[Family][]Source)
	for _, s := range sources {
		out[s.Family] = append(out[s.Family], s)
	}
	return out
}
