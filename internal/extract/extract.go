// Package extract turns raw topic/search page HTML into normalized entries.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"eksi-rss/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// ErrParseDegraded reports that a page could not be interpreted, in part or
// in full. Callers proceed with whatever entries were produced.
var ErrParseDegraded = errors.New("page parse degraded")

// entryDateRe pulls the "dd.mm.yyyy hh:mm" prefix out of the date label,
// which may carry a trailing edit marker ("~ 12.03.2024 09:15").
var entryDateRe = regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4} \d{2}:\d{2})`)

var wsRe = regexp.MustCompile(`\s+`)

const entryDateLayout = "02.01.2006 15:04"

// location is the remote site's timezone for entry dates.
var location = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Istanbul"); err == nil {
		return loc
	}
	return time.FixedZone("+03", 3*60*60)
}()

// TopicInfo is the page-level metadata of a topic page.
type TopicInfo struct {
	Title   string
	TopicID string
	Slug    string
}

// Topic reads the title block of a topic page.
func Topic(rawPage string) (TopicInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		return TopicInfo{}, fmt.Errorf("%w: %v", ErrParseDegraded, err)
	}
	title := doc.Find("h1#title").First()
	if title.Length() == 0 {
		return TopicInfo{}, fmt.Errorf("%w: no title element", ErrParseDegraded)
	}
	return TopicInfo{
		Title:   strings.TrimSpace(title.Text()),
		TopicID: title.AttrOr("data-id", ""),
		Slug:    title.AttrOr("data-slug", ""),
	}, nil
}

// Entries extracts the entry list of one page, in page order, assigning
// ordinals startOrdinal, startOrdinal+1, ... Relative permalinks are resolved
// against baseURL. Extraction is pure: no network, no shared state.
func Entries(rawPage string, sub model.Subscription, baseURL string, startOrdinal int) ([]model.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawPage))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseDegraded, err)
	}
	items := doc.Find("ul#entry-item-list > li")
	if items.Length() == 0 {
		// A topic with no new entries that day still serves the list
		// container or the title block. Only a page with neither is
		// unrecognizable.
		if doc.Find("ul#entry-item-list, h1#title").Length() == 0 {
			return nil, fmt.Errorf("%w: no entry list", ErrParseDegraded)
		}
		return nil, nil
	}

	key := sub.Key()
	degraded := false
	entries := make([]model.Entry, 0, items.Length())
	items.Each(func(_ int, li *goquery.Selection) {
		if li.AttrOr("data-id", "") == "" {
			degraded = true
			return
		}
		content := li.Find("div.content").First()
		dateLink := li.Find("div.info a.entry-date").First()
		href := dateLink.AttrOr("href", "")
		if content.Length() == 0 || href == "" {
			degraded = true
			return
		}
		body, err := content.Html()
		if err != nil {
			degraded = true
			return
		}
		entries = append(entries, model.Entry{
			SubKey:    key,
			Author:    li.AttrOr("data-author", ""),
			Published: parseEntryDate(dateLink.Text()),
			Ordinal:   startOrdinal + len(entries),
			Content:   normalizeWhitespace(body),
			Permalink: resolveLink(baseURL, href),
		})
	})
	if degraded {
		return entries, fmt.Errorf("%w: skipped malformed entries", ErrParseDegraded)
	}
	return entries, nil
}

func parseEntryDate(label string) time.Time {
	if m := entryDateRe.FindString(label); m != "" {
		if t, err := time.ParseInLocation(entryDateLayout, m, location); err == nil {
			return t
		}
	}
	return time.Now().In(location)
}

func resolveLink(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}
