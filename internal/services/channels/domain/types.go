// Package domain defines core types for the channel registry
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates channel variants
type Kind string

// Channel variants
const (
	// KindYouTube is a live channel backed by the YouTube Data API
	KindYouTube Kind = "youtube"
	// KindVirtual is a hand-assembled collection of video IDs
	KindVirtual Kind = "virtual"
)

// ErrUnknownKind is returned by ParseKind for unrecognized values
var ErrUnknownKind = errors.New("unknown channel kind")

// ParseKind validates a channel kind string
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindYouTube, KindVirtual:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Channel is a registered source of videos
// youtube channels carry the upstream channel ID in ID; virtual channels
// carry a curated VideoIDs list and are keyed by their registry name
type Channel struct {
	ID        string
	Kind      Kind
	Name      string
	Title     string
	Timezone  string
	Language  string
	VideoIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
