package feed

import (
	"strings"
	"testing"
	"time"

	"eksi-rss/internal/model"
)

func ts(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestAssembleNewestFirst(t *testing.T) {
	sub := model.ParseTarget("109286")
	entries := []model.Entry{
		{Permalink: "/e/1", Author: "a", Published: ts(100), Ordinal: 0},
		{Permalink: "/e/2", Author: "b", Published: ts(200), Ordinal: 1},
	}
	f := NewAssembler("https://e.com", "http://localhost:8080").Assemble(sub, entries)
	if len(f.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(f.Items))
	}
	if f.Items[0].Id != "/e/2" || f.Items[1].Id != "/e/1" {
		t.Errorf("items not newest-first: %s, %s", f.Items[0].Id, f.Items[1].Id)
	}
}

func TestAssembleTieBreakByOrdinal(t *testing.T) {
	sub := model.ParseTarget("109286")
	entries := []model.Entry{
		{Permalink: "/e/1", Published: ts(100), Ordinal: 0},
		{Permalink: "/e/2", Published: ts(100), Ordinal: 1},
		{Permalink: "/e/3", Published: ts(100), Ordinal: 2},
	}
	f := NewAssembler("https://e.com", "").Assemble(sub, entries)
	want := []string{"/e/3", "/e/2", "/e/1"}
	for i, w := range want {
		if f.Items[i].Id != w {
			t.Errorf("item %d = %s, want %s (later ordinals win ties)", i, f.Items[i].Id, w)
		}
	}
}

func TestAssembleEmptyIsValid(t *testing.T) {
	sub := model.ParseTarget("109286")
	f := NewAssembler("https://e.com", "").Assemble(sub, nil)
	rss, err := f.ToRss()
	if err != nil {
		t.Fatalf("ToRss on empty feed: %v", err)
	}
	if !strings.Contains(rss, "<rss") || !strings.Contains(rss, "</rss>") {
		t.Errorf("empty feed is not a structurally valid document:\n%s", rss)
	}
}

func TestAssembleMergedDedupFirstWins(t *testing.T) {
	subA := model.ParseTarget("1")
	subA.Title = "baslik a"
	subB := model.ParseTarget("2")
	subB.Title = "baslik b"

	shared := model.Entry{Permalink: "/e/5", Author: "x", Published: ts(500)}
	sources := []Source{
		{Sub: subA, Entries: []model.Entry{shared, {Permalink: "/e/1", Published: ts(100)}}},
		{Sub: subB, Entries: []model.Entry{shared, {Permalink: "/e/9", Published: ts(900)}}},
	}
	f := NewAssembler("https://e.com", "").AssembleMerged(sources)

	count := 0
	for _, it := range f.Items {
		if it.Id == "/e/5" {
			count++
			if !strings.HasPrefix(it.Title, "baslik a") {
				t.Errorf("dedup kept the wrong source: %q", it.Title)
			}
		}
	}
	if count != 1 {
		t.Fatalf("permalink /e/5 appears %d times in merged feed, want 1", count)
	}
	if len(f.Items) != 3 {
		t.Errorf("merged feed has %d items, want 3", len(f.Items))
	}
}

func TestAssembleMergedDeterministicOrder(t *testing.T) {
	subA := model.ParseTarget("1")
	subB := model.ParseTarget("2")
	sources := []Source{
		{Sub: subA, Entries: []model.Entry{
			{Permalink: "/a/1", Published: ts(100), Ordinal: 0},
			{Permalink: "/a/2", Published: ts(300), Ordinal: 1},
		}},
		{Sub: subB, Entries: []model.Entry{
			{Permalink: "/b/1", Published: ts(300), Ordinal: 5},
			{Permalink: "/b/2", Published: ts(200), Ordinal: 0},
		}},
	}
	a := NewAssembler("https://e.com", "")

	var prev []string
	for run := 0; run < 3; run++ {
		f := a.AssembleMerged(sources)
		var order []string
		for _, it := range f.Items {
			order = append(order, it.Id)
		}
		// total order: ts desc, ordinal desc
		want := []string{"/b/1", "/a/2", "/b/2", "/a/1"}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("run %d: order %v, want %v", run, order, want)
			}
		}
		if prev != nil {
			for i := range prev {
				if prev[i] != order[i] {
					t.Fatalf("merge order unstable across runs: %v vs %v", prev, order)
				}
			}
		}
		prev = order
	}
}
