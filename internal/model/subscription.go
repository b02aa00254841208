package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind discriminates how a subscription targets the remote site.
type Kind string

const (
	KindTopicID    Kind = "topic-id"
	KindTopicURL   Kind = "topic-url"
	KindSearchTerm Kind = "search-term"
)

// Subscription is one tracked target: a topic by id, a topic by URL, or a
// search term. Immutable once created, removal aside.
type Subscription struct {
	Kind    Kind      `yaml:"kind" json:"kind"`
	Value   string    `yaml:"value" json:"value"`
	TopicID string    `yaml:"topic_id,omitempty" json:"topic_id,omitempty"`
	Title   string    `yaml:"title,omitempty" json:"title,omitempty"`
	URL     string    `yaml:"url,omitempty" json:"url,omitempty"`
	AddedAt time.Time `yaml:"added_at" json:"added_at"`
}

// topicIDRe matches the numeric id suffix in topic URLs and slugs,
// e.g. "pena--31782" or "https://example.com/pena--31782?day=...".
var topicIDRe = regexp.MustCompile(`--(\d+)`)

var digitsRe = regexp.MustCompile(`^\d+$`)

// ParseTarget classifies a free-form user target (full URL, bare numeric id,
// slug--id, or anything else as a search term) into a Subscription.
func ParseTarget(input string) Subscription {
	input = strings.TrimSpace(input)
	now := time.Now()

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		sub := Subscription{Kind: KindTopicURL, Value: input, URL: input, AddedAt: now}
		if m := topicIDRe.FindStringSubmatch(input); m != nil {
			sub.TopicID = m[1]
		}
		return sub
	}
	if digitsRe.MatchString(input) {
		return Subscription{Kind: KindTopicID, Value: input, TopicID: input, AddedAt: now}
	}
	if m := topicIDRe.FindStringSubmatch(input); m != nil {
		return Subscription{Kind: KindTopicURL, Value: input, TopicID: m[1], AddedAt: now}
	}
	return Subscription{Kind: KindSearchTerm, Value: input, AddedAt: now}
}

// Key returns the canonical cache/dedup key. A topic URL carrying "--12345"
// and the bare id "12345" share the key "topic:12345".
func (s Subscription) Key() string {
	if s.TopicID != "" {
		return "topic:" + s.TopicID
	}
	switch s.Kind {
	case KindSearchTerm:
		return "search:" + strings.ToLower(s.Value)
	default:
		return "url:" + strings.TrimRight(strings.ToLower(s.Value), "/")
	}
}

// DisplayTitle is the human-readable name used in feed titles.
func (s Subscription) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if s.Kind == KindSearchTerm {
		return fmt.Sprintf("arama: %s", s.Value)
	}
	return s.Value
}
