// Package domain defines core types and interfaces for curator
package domain

import "time"

// Queue states as stored in curator_queue
const (
	StateQueued  = "queued"
	StateRunning = "running"
	StateFailed  = "failed"
)

// Job is one queued channel refresh request
type Job struct {
	ID              string // uuid
	ChannelRef      string
	PeriodType      string
	Number          int
	Tz              string
	WithTranscripts bool
	WithSummaries   bool
	EmailTo         []string
	State           string
	Attempts        int
	NextAttemptAt   time.Time
	LastError       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EnqueueInput describes the refresh a caller wants queued
// empty PeriodType means days; Number zero means the resolver default
type EnqueueInput struct {
	ChannelRef      string
	PeriodType      string
	Number          int
	Tz              string
	WithTranscripts bool
	WithSummaries   bool
	EmailTo         []string
}

// RunReport counts what one worker pass settled
type RunReport struct {
	Processed int
	Failed    int
}
