// Package domain holds DTOs for the summaries API
package domain

import (
	"time"

	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
)

// ItemRow is the wire view of a summary joined with its video
type ItemRow struct {
	ID          string `json:"id"           example:"8df9f0f6-32f4-4a6b-9c3e-1f2a3b4c5d6e"`
	VideoID     string `json:"video_id"     example:"dQw4w9WgXcQ"`
	VideoTitle  string `json:"video_title"  example:"Fed holds rates steady"`
	VideoURL    string `json:"video_url"    example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	PublishedAt string `json:"published_at" example:"2025-03-01T14:00:00Z"`
	Role        string `json:"role"         example:"research_assistant"`
	Task        string `json:"task"         example:"summarize"`
	Model       string `json:"model"        example:"gpt-4o-mini"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at"   example:"2025-03-01T18:30:00Z"`
}

// DigestRow is the wire view of a rendered digest
type DigestRow struct {
	ID          string `json:"id"           example:"5cc1b2a3-44d5-4e6f-8a9b-0c1d2e3f4a5b"`
	ChannelID   string `json:"channel_id"   example:"UCrp_UI8XtuYfpiqluWLD7Lw"`
	ChannelName string `json:"channel_name" example:"cnbc_tv"`
	WindowStart string `json:"window_start" example:"2025-03-01T00:00:00-06:00"`
	WindowEnd   string `json:"window_end"   example:"2025-03-07T23:59:59-06:00"`
	VideoCount  int    `json:"video_count"  example:"5"`
	HTML        string `json:"html"`
	CSV         string `json:"csv"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at"   example:"2025-03-08T06:00:00Z"`
}

// FromItem maps a summary item onto the wire row
func FromItem(it sdom.Item) ItemRow {
	return ItemRow{
		ID:          it.ID,
		VideoID:     it.VideoID,
		VideoTitle:  it.VideoTitle,
		VideoURL:    it.VideoURL,
		PublishedAt: it.PublishedAt.UTC().Format(time.RFC3339),
		Role:        it.Role,
		Task:        it.Task,
		Model:       it.Model,
		Text:        it.Text,
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromDigest maps a stored digest onto the wire row
func FromDigest(d sdom.Digest) DigestRow {
	return DigestRow{
		ID:          d.ID,
		ChannelID:   d.ChannelID,
		ChannelName: d.ChannelName,
		WindowStart: d.WindowStart.Format(time.RFC3339),
		WindowEnd:   d.WindowEnd.Format(time.RFC3339),
		VideoCount:  d.VideoCount,
		HTML:        d.HTML,
		CSV:         d.CSV,
		Text:        d.Text,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
