// Package domain holds DTOs for the videos API
package domain

import (
	"time"

	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
)

// VideoRow is the wire view of a stored video
type VideoRow struct {
	ID              string `json:"id"               example:"dQw4w9WgXcQ"`
	ChannelID       string `json:"channel_id"       example:"UCrp_UI8XtuYfpiqluWLD7Lw"`
	ChannelTitle    string `json:"channel_title"    example:"CNBC Television"`
	Title           string `json:"title"            example:"Fed holds rates steady"`
	PublishedAt     string `json:"published_at"     example:"2025-03-01T14:00:00Z"`
	DurationMinutes int    `json:"duration_minutes" example:"12"`
	URL             string `json:"url"              example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

// TranscriptRow is the wire view of a stored transcript
type TranscriptRow struct {
	VideoID  string `json:"video_id"  example:"dQw4w9WgXcQ"`
	LangCode string `json:"lang_code" example:"en"`
	Source   string `json:"source"    example:"auto"`
	Text     string `json:"text"`
	Lines    []Line `json:"lines,omitempty"`
	Fetched  string `json:"fetched_at" example:"2025-03-01T18:30:00Z"`
}

// Line is one timed transcript line on the wire
type Line struct {
	Start float64 `json:"start" example:"12.32"`
	Dur   float64 `json:"dur"   example:"4.1"`
	Text  string  `json:"text"  example:"welcome back to the show"`
}

// VideoDetail is a video with its optional transcript
type VideoDetail struct {
	VideoRow
	Transcript *TranscriptRow `json:"transcript,omitempty"`
}

// PageKey mirrors the keyset anchor for the next page
type PageKey struct {
	PublishedAt string `json:"published_at" example:"2025-03-01T14:00:00Z"`
	ID          string `json:"id"           example:"dQw4w9WgXcQ"`
}

// ListResponse carries one page of videos plus the next-page anchor
type ListResponse struct {
	Items []VideoRow `json:"items"`
	Next  *PageKey   `json:"next,omitempty"`
}

// FromVideo maps a stored video onto the wire row
func FromVideo(v vdom.Video) VideoRow {
	return VideoRow{
		ID:              v.ID,
		ChannelID:       v.ChannelID,
		ChannelTitle:    v.ChannelTitle,
		Title:           v.Title,
		PublishedAt:     v.PublishedAt.UTC().Format(time.RFC3339),
		DurationMinutes: v.DurationMinutes,
		URL:             v.URL,
	}
}

// FromTranscript maps a stored transcript onto the wire row
func FromTranscript(t vdom.Transcript) TranscriptRow {
	lines := make([]Line, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, Line{Start: l.Start, Dur: l.Dur, Text: l.Text})
	}
	return TranscriptRow{
		VideoID:  t.VideoID,
		LangCode: t.LangCode,
		Source:   t.Source,
		Text:     t.Text,
		Lines:    lines,
		Fetched:  t.FetchedAt.UTC().Format(time.RFC3339),
	}
}
