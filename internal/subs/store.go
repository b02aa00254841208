// Package subs persists the set of tracked subscriptions.
package subs

import (
	"fmt"
	"os"
	"sync"

	"eksi-rss/internal/model"

	"gopkg.in/yaml.v3"
)

// Store is a file-backed subscription list. The feed pipeline only reads it;
// writes come from the management surface (form posts, CLI).
type Store struct {
	mu   sync.Mutex
	path string
	subs []model.Subscription
}

// Open loads the subscription file at path, creating an empty store if the
// file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &s.subs); err != nil {
		return nil, fmt.Errorf("subscriptions file %s: %w", path, err)
	}
	return s, nil
}

// List returns all subscriptions in insertion order.
func (s *Store) List() []model.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Subscription, len(s.subs))
	copy(out, s.subs)
	return out
}

// Add appends a subscription unless its canonical key is already present.
// Returns false for duplicates.
func (s *Store) Add(sub model.Subscription) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sub.Key()
	for _, existing := range s.subs {
		if existing.Key() == key {
			return false, nil
		}
	}
	s.subs = append(s.subs, sub)
	return true, s.save()
}

// Remove deletes the subscription with the given canonical key.
func (s *Store) Remove(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.Key() == key {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}

// Find looks a subscription up by canonical key.
func (s *Store) Find(key string) (model.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.Key() == key {
			return sub, true
		}
	}
	return model.Subscription{}, false
}

// FindTopic looks a subscription up by topic id.
func (s *Store) FindTopic(topicID string) (model.Subscription, bool) {
	return s.Find("topic:" + topicID)
}

func (s *Store) save() error {
	b, err := yaml.Marshal(s.subs)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
