// Package domain holds DTOs for the channels API
package domain

import (
	"time"

	chandom "github.com/sliu810/razorback-investing/internal/services/channels/domain"
)

// ChannelRow is the wire view of a registered channel
type ChannelRow struct {
	ID       string   `json:"id"        example:"UCrp_UI8XtuYfpiqluWLD7Lw"`
	Kind     string   `json:"kind"      example:"youtube"`
	Name     string   `json:"name"      example:"cnbc_tv"`
	Title    string   `json:"title"     example:"CNBC Television"`
	Timezone string   `json:"timezone"  example:"America/Chicago"`
	Language string   `json:"language"  example:"en"`
	VideoIDs []string `json:"video_ids,omitempty"`
	Created  string   `json:"created_at,omitempty" example:"2025-01-15T09:00:00Z"`
	Updated  string   `json:"updated_at,omitempty" example:"2025-03-01T18:30:00Z"`
}

// FromChannel maps a registry channel onto the wire row
func FromChannel(ch chandom.Channel) ChannelRow {
	row := ChannelRow{
		ID:       ch.ID,
		Kind:     string(ch.Kind),
		Name:     ch.Name,
		Title:    ch.Title,
		Timezone: ch.Timezone,
		Language: ch.Language,
		VideoIDs: ch.VideoIDs,
	}
	if !ch.CreatedAt.IsZero() {
		row.Created = ch.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !ch.UpdatedAt.IsZero() {
		row.Updated = ch.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return row
}
