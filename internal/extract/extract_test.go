package extract

import (
	"errors"
	"testing"
	"time"

	"eksi-rss/internal/model"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<h1 id="title" data-id="31782" data-slug="pena"><a href="/pena--31782">pena</a></h1>
<ul id="entry-item-list">
  <li data-id="1" data-author="ssg">
    <div class="content"> gitar  calmak  icin kullanilan minik plastik garip nesne. </div>
    <div class="info"><a class="entry-date" href="/entry/1">15.02.1999 21:30</a></div>
  </li>
  <li data-id="2" data-author="otisabi">
    <div class="content">bkz: m&#252;zik</div>
    <div class="info"><a class="entry-date" href="/entry/2">15.02.1999 21:30 ~ 16.02.1999 08:00</a></div>
  </li>
</ul>
</body></html>`

func TestTopic(t *testing.T) {
	info, err := Topic(samplePage)
	if err != nil {
		t.Fatalf("Topic error: %v", err)
	}
	if info.Title != "pena" {
		t.Errorf("title = %q, want %q", info.Title, "pena")
	}
	if info.TopicID != "31782" {
		t.Errorf("topic id = %q, want %q", info.TopicID, "31782")
	}
	if info.Slug != "pena" {
		t.Errorf("slug = %q, want %q", info.Slug, "pena")
	}
}

func TestEntries(t *testing.T) {
	sub := model.ParseTarget("31782")
	entries, err := Entries(samplePage, sub, "https://eksisozluk.com", 0)
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Author != "ssg" {
		t.Errorf("author = %q, want ssg", first.Author)
	}
	if first.SubKey != "topic:31782" {
		t.Errorf("sub key = %q, want topic:31782", first.SubKey)
	}
	if first.Permalink != "https://eksisozluk.com/entry/1" {
		t.Errorf("permalink not resolved: %q", first.Permalink)
	}
	if want := "gitar calmak icin kullanilan minik plastik garip nesne."; first.Content != want {
		t.Errorf("content whitespace not normalized: %q", first.Content)
	}
	if first.Published.Year() != 1999 || first.Published.Month() != time.February {
		t.Errorf("published not parsed: %v", first.Published)
	}

	// page order preserved, ordinals sequential
	if entries[0].Ordinal != 0 || entries[1].Ordinal != 1 {
		t.Errorf("ordinals = %d,%d, want 0,1", entries[0].Ordinal, entries[1].Ordinal)
	}
	// edit marker after "~" must not break date parsing
	if entries[1].Published.Year() != 1999 {
		t.Errorf("edited entry date not parsed: %v", entries[1].Published)
	}
}

func TestEntriesStartOrdinal(t *testing.T) {
	sub := model.ParseTarget("31782")
	entries, err := Entries(samplePage, sub, "https://eksisozluk.com", 10)
	if err != nil {
		t.Fatalf("Entries error: %v", err)
	}
	if entries[0].Ordinal != 10 || entries[1].Ordinal != 11 {
		t.Errorf("ordinals = %d,%d, want 10,11", entries[0].Ordinal, entries[1].Ordinal)
	}
}

func TestEntriesEmptyDayPage(t *testing.T) {
	sub := model.ParseTarget("31782")
	pages := []string{
		// empty list container: no new entries today
		`<html><body><ul id="entry-item-list"></ul></body></html>`,
		// title block without a list
		`<html><body><h1 id="title" data-id="31782" data-slug="pena">pena</h1></body></html>`,
	}
	for _, page := range pages {
		entries, err := Entries(page, sub, "https://eksisozluk.com", 0)
		if err != nil {
			t.Errorf("zero-entry topic page should not be degraded, got %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("got %d entries from empty page", len(entries))
		}
	}
}

func TestEntriesMalformedPage(t *testing.T) {
	sub := model.ParseTarget("31782")
	entries, err := Entries("<html><body><p>not a topic page</p></body></html>", sub, "https://eksisozluk.com", 0)
	if !errors.Is(err, ErrParseDegraded) {
		t.Fatalf("want ErrParseDegraded, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("want no entries from unrecognized page, got %d", len(entries))
	}
}

func TestEntriesPartiallyMalformed(t *testing.T) {
	page := `<ul id="entry-item-list">
	  <li data-id="1" data-author="a">
	    <div class="content">ok</div>
	    <div class="info"><a class="entry-date" href="/entry/1">01.01.2020 10:00</a></div>
	  </li>
	  <li data-author="b"><div class="content">no id</div></li>
	</ul>`
	sub := model.ParseTarget("31782")
	entries, err := Entries(page, sub, "https://eksisozluk.com", 0)
	if !errors.Is(err, ErrParseDegraded) {
		t.Fatalf("want ErrParseDegraded for partial page, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("want the one well-formed entry, got %d", len(entries))
	}
}
