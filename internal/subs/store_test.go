package subs

import (
	"path/filepath"
	"testing"

	"eksi-rss/internal/model"
)

func TestAddRemoveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscriptions.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	added, err := s.Add(model.ParseTarget("109286"))
	if err != nil || !added {
		t.Fatalf("Add: added=%v err=%v", added, err)
	}
	if _, err := s.Add(model.ParseTarget("pena--31782")); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	// reload from disk
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(s2.List()); got != 2 {
		t.Fatalf("after reload got %d subscriptions, want 2", got)
	}
	if _, ok := s2.FindTopic("31782"); !ok {
		t.Errorf("topic 31782 lost across reload")
	}

	removed, err := s2.Remove("topic:109286")
	if err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	if _, ok := s2.Find("topic:109286"); ok {
		t.Errorf("removed subscription still present")
	}
	if removed, _ := s2.Remove("topic:109286"); removed {
		t.Errorf("second Remove of same key should be a no-op")
	}
}

func TestAddDuplicateKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "subs.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if added, _ := s.Add(model.ParseTarget("31782")); !added {
		t.Fatal("first add rejected")
	}
	// same topic through its URL form
	if added, _ := s.Add(model.ParseTarget("https://eksisozluk.com/pena--31782")); added {
		t.Error("URL form of an existing topic id should be a duplicate")
	}
	if got := len(s.List()); got != 1 {
		t.Errorf("got %d subscriptions, want 1", got)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Open on missing file: %v", err)
	}
	if len(s.List()) != 0 {
		t.Errorf("missing file should mean empty store")
	}
}
