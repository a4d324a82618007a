package youtube

import "time"

// SearchItem is one hit from search.list, already unescaped
type SearchItem struct {
	VideoID      string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
}

// VideoItem is one row from videos.list with snippet and contentDetails
type VideoItem struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  time.Time
	Duration     string // ISO 8601, e.g. PT1H2M3S
	Tags         []string
}

// ChannelItem is one row from channels.list
type ChannelItem struct {
	ID          string
	Title       string
	Description string
	CustomURL   string
}

// wire shapes below stay private; endpoints map them into the exported types

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  time.Time `json:"publishedAt"`
			ChannelID    string    `json:"channelId"`
			Title        string    `json:"title"`
			ChannelTitle string    `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			PublishedAt  time.Time `json:"publishedAt"`
			ChannelID    string    `json:"channelId"`
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			Tags         []string  `json:"tags"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			CustomURL   string `json:"customUrl"`
		} `json:"snippet"`
	} `json:"items"`
}
