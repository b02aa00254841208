package model

import "time"

// Entry is one discussion post extracted from a remote page, normalized.
type Entry struct {
	SubKey    string    `json:"sub_key"`
	Author    string    `json:"author"`
	Published time.Time `json:"published"`
	// Ordinal is the entry's position across the fetched pages of its
	// subscription (page-major), used to break timestamp ties.
	Ordinal   int    `json:"ordinal"`
	Content   string `json:"content"`
	Permalink string `json:"permalink"`
}

// Less orders entries newest-first; timestamp ties go to the later ordinal.
func (e Entry) Less(other Entry) bool {
	if !e.Published.Equal(other.Published) {
		return e.Published.After(other.Published)
	}
	return e.Ordinal > other.Ordinal
}
