// Package domain defines core types and interfaces for videos
package domain

import "time"

// WatchURL renders the canonical watch link for a video id
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

// Video is one stored video row
type Video struct {
	ID              string
	ChannelID       string // upstream channel, never a virtual grouping
	ChannelTitle    string
	Title           string
	PublishedAt     time.Time
	DurationMinutes int
	URL             string
	FetchedAt       time.Time
}

// Line is one timed transcript line
type Line struct {
	Start float64 `json:"start"`
	Dur   float64 `json:"dur"`
	Text  string  `json:"text"`
}

// Transcript is the stored transcript for a video
type Transcript struct {
	VideoID   string
	LangCode  string
	Source    string // "auto" or "manual"
	Text      string
	Lines     []Line
	FetchedAt time.Time
}

// RefreshInput asks for one channel window refresh
// Tz empty means the channel's stored timezone
type RefreshInput struct {
	ChannelRef      string
	PeriodType      string
	Number          int
	Tz              string
	WithTranscripts bool
}

// RefreshReport counts what a refresh did
type RefreshReport struct {
	Found       int
	New         int
	Transcribed int
	Failed      int
}

// AfterKey supports stable keyset pagination over (published_at, id)
type AfterKey struct {
	PublishedAt time.Time
	ID          string
}

// ListInput defines the input parameters for listing videos
// the window is inclusive on both ends because period ranges already
// carry the last representable instant of the final day
type ListInput struct {
	ChannelRef string // stored id, name, or built-in registry name; empty = all channels
	Since      time.Time
	Until      time.Time
	After      AfterKey // zero value = from start
	Limit      int      // hard-capped in service
}
