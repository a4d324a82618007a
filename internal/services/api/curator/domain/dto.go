// Package domain holds DTOs for the curator API
package domain

import (
	"time"

	cdom "github.com/sliu810/razorback-investing/internal/services/curator/domain"
)

// JobInput is the payload for queueing one channel refresh
// empty period means days; number zero means the resolver default of one
type JobInput struct {
	Channel         string   `json:"channel" validate:"required,min=1,max=200" example:"cnbc_tv"`
	Period          string   `json:"period,omitempty" validate:"omitempty,oneof=today days weeks months" example:"days"`
	Number          int      `json:"number,omitempty" validate:"omitempty,min=1,max=366" example:"3"`
	Tz              string   `json:"tz,omitempty" validate:"omitempty,printascii,max=64" example:"America/Chicago"`
	WithTranscripts bool     `json:"with_transcripts,omitempty" example:"true"`
	WithSummaries   bool     `json:"with_summaries,omitempty" example:"true"`
	EmailTo         []string `json:"email_to,omitempty" validate:"omitempty,dive,email" example:"desk@example.com"`
}

// JobRow is the wire view of an accepted job
type JobRow struct {
	ID        string `json:"id"       example:"3b5e8c0a-7c51-4f44-9c5d-2f6a1f4b9d0e"`
	Channel   string `json:"channel"  example:"cnbc_tv"`
	Period    string `json:"period"   example:"days"`
	Number    int    `json:"number,omitempty" example:"3"`
	State     string `json:"state"    example:"queued"`
	CreatedAt string `json:"created_at,omitempty" example:"2025-03-10T15:00:00Z"`
}

// ToEnqueue maps the wire payload onto the service input
func (in JobInput) ToEnqueue() cdom.EnqueueInput {
	return cdom.EnqueueInput{
		ChannelRef:      in.Channel,
		PeriodType:      in.Period,
		Number:          in.Number,
		Tz:              in.Tz,
		WithTranscripts: in.WithTranscripts,
		WithSummaries:   in.WithSummaries,
		EmailTo:         in.EmailTo,
	}
}

// FromJob maps an accepted job onto the wire row
func FromJob(j cdom.Job) JobRow {
	row := JobRow{
		ID:      j.ID,
		Channel: j.ChannelRef,
		Period:  j.PeriodType,
		Number:  j.Number,
		State:   j.State,
	}
	if !j.CreatedAt.IsZero() {
		row.CreatedAt = j.CreatedAt.UTC().Format(time.RFC3339)
	}
	return row
}
