// Package domain defines core types and interfaces for summaries
package domain

import "time"

// Summary is one stored model output for a video
type Summary struct {
	ID        string // uuid
	VideoID   string
	Role      string
	Task      string
	Model     string
	Text      string
	CreatedAt time.Time
}

// Item is a summary joined with its video for listings and digests
type Item struct {
	Summary
	VideoTitle  string
	VideoURL    string
	PublishedAt time.Time
}

// SummarizeInput drives one summarize call
// empty Role/Task mean the configured defaults
type SummarizeInput struct {
	VideoID string
	Role    string
	Task    string
}

// WindowInput asks for summaries across a stored window
type WindowInput struct {
	ChannelRef string
	Since      time.Time
	Until      time.Time
	Role       string
	Task       string
}

// WindowReport counts what a window pass did
// Skipped counts videos without transcripts or with summaries already stored
type WindowReport struct {
	Summarized int
	Skipped    int
	Failed     int
}

// ListInput bounds a summary listing
type ListInput struct {
	ChannelRef string
	Since      time.Time
	Until      time.Time
	Role       string
	Task       string
	Limit      int
}

// Digest is a rendered window of summaries for one channel
type Digest struct {
	ID          string // uuid
	ChannelID   string
	ChannelName string
	WindowStart time.Time
	WindowEnd   time.Time
	VideoCount  int
	HTML        string
	CSV         string
	Text        string
	CreatedAt   time.Time
}

// Empty reports whether the digest carries no summaries
func (d Digest) Empty() bool { return d.VideoCount == 0 }
