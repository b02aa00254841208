// Package feed projects normalized entries into RSS documents.
package feed

import (
	"sort"
	"time"

	"eksi-rss/internal/model"

	"github.com/gorilla/feeds"
)

// Source is one subscription's contribution to a merged feed. Merge input is
// an ordered slice, not a map, so dedup is deterministic: the earliest source
// in the slice keeps a contested permalink.
type Source struct {
	Sub     model.Subscription
	Entries []model.Entry
}

// Assembler builds syndication documents.
type Assembler struct {
	SiteURL string // remote site, used for channel alternate links
	SelfURL string // this service, used for self links

	now func() time.Time
}

func NewAssembler(siteURL, selfURL string) *Assembler {
	return &Assembler{SiteURL: siteURL, SelfURL: selfURL, now: time.Now}
}

// Assemble maps one subscription's entries to a feed document, newest first.
func (a *Assembler) Assemble(sub model.Subscription, entries []model.Entry) *feeds.Feed {
	link := sub.URL
	if link == "" {
		link = a.SiteURL
	}
	f := &feeds.Feed{
		Title:       "eksi - " + sub.DisplayTitle(),
		Link:        &feeds.Link{Href: link},
		Description: "yeni girdiler: " + sub.DisplayTitle(),
		Created:     a.now(),
	}
	for _, e := range sortEntries(entries) {
		f.Items = append(f.Items, a.item(e, ""))
	}
	return f
}

// AssembleMerged unions all sources into one document. Entries sharing a
// permalink appear once; ordering is total by (timestamp desc, ordinal desc)
// regardless of source iteration order.
func (a *Assembler) AssembleMerged(sources []Source) *feeds.Feed {
	f := &feeds.Feed{
		Title:       "eksi - tum basliklar",
		Link:        &feeds.Link{Href: a.SelfURL + "/hepsi.xml", Rel: "self"},
		Description: "tum takip edilen basliklarin birlesik beslemesi",
		Created:     a.now(),
	}
	seen := make(map[string]struct{})
	var merged []model.Entry
	origin := make(map[string]string) // permalink -> source title
	for _, src := range sources {
		for _, e := range src.Entries {
			if _, dup := seen[e.Permalink]; dup {
				continue
			}
			seen[e.Permalink] = struct{}{}
			origin[e.Permalink] = src.Sub.DisplayTitle()
			merged = append(merged, e)
		}
	}
	for _, e := range sortEntries(merged) {
		f.Items = append(f.Items, a.item(e, origin[e.Permalink]))
	}
	return f
}

func (a *Assembler) item(e model.Entry, sourceTitle string) *feeds.Item {
	title := e.Author
	if sourceTitle != "" {
		title = sourceTitle + " - " + e.Author
	}
	return &feeds.Item{
		Id:          e.Permalink,
		Title:       title,
		Link:        &feeds.Link{Href: e.Permalink},
		Author:      &feeds.Author{Name: e.Author},
		Description: e.Content,
		Created:     e.Published,
	}
}

func sortEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
