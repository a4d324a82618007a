package youtube

import (
	"context"
	json "encoding/json/v2"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
)

const (
	pageSize = 50
	// search.list pages stop here even if the window keeps going; 20 pages
	// is 1000 videos which no daily fetch window comes close to
	maxSearchPages = 20
)

// SearchVideos lists video ids for a channel published inside [after, before]
// results are newest first the way the API returns them
func (c *Client) SearchVideos(ctx context.Context, channelID string, after, before time.Time) ([]SearchItem, error) {
	var out []SearchItem
	pageToken := ""

	for page := 0; page < maxSearchPages; page++ {
		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("channelId", channelID)
		q.Set("maxResults", strconv.Itoa(pageSize))
		q.Set("order", "date")
		q.Set("type", "video")
		if !after.IsZero() {
			q.Set("publishedAfter", after.UTC().Format(time.RFC3339))
		}
		if !before.IsZero() {
			q.Set("publishedBefore", before.UTC().Format(time.RFC3339))
		}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var sr searchResponse
		if err := c.getJSON(ctx, "/search", q, &sr); err != nil {
			return nil, err
		}

		for _, it := range sr.Items {
			if it.ID.VideoID == "" {
				continue
			}
			out = append(out, SearchItem{
				VideoID:      it.ID.VideoID,
				Title:        html.UnescapeString(it.Snippet.Title),
				ChannelID:    it.Snippet.ChannelID,
				ChannelTitle: it.Snippet.ChannelTitle,
				PublishedAt:  it.Snippet.PublishedAt,
			})
		}

		pageToken = sr.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

// ListVideos hydrates snippet and contentDetails for up to thousands of ids
// the API caps one call at 50 ids so the input is chunked
func (c *Client) ListVideos(ctx context.Context, ids []string) ([]VideoItem, error) {
	out := make([]VideoItem, 0, len(ids))

	for start := 0; start < len(ids); start += pageSize {
		end := min(start+pageSize, len(ids))

		q := url.Values{}
		q.Set("part", "snippet,contentDetails")
		q.Set("id", strings.Join(ids[start:end], ","))
		q.Set("maxResults", strconv.Itoa(pageSize))

		var vr videosResponse
		if err := c.getJSON(ctx, "/videos", q, &vr); err != nil {
			return nil, err
		}

		for _, it := range vr.Items {
			out = append(out, VideoItem{
				ID:           it.ID,
				Title:        html.UnescapeString(it.Snippet.Title),
				Description:  it.Snippet.Description,
				ChannelID:    it.Snippet.ChannelID,
				ChannelTitle: it.Snippet.ChannelTitle,
				PublishedAt:  it.Snippet.PublishedAt,
				Duration:     it.ContentDetails.Duration,
				Tags:         it.Snippet.Tags,
			})
		}
	}
	return out, nil
}

// ChannelByID fetches channel metadata for a single UC id
func (c *Client) ChannelByID(ctx context.Context, id string) (ChannelItem, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", id)

	var cr channelsResponse
	if err := c.getJSON(ctx, "/channels", q, &cr); err != nil {
		return ChannelItem{}, err
	}
	if len(cr.Items) == 0 {
		return ChannelItem{}, perr.NotFoundf("youtube channel %s not found", id)
	}
	it := cr.Items[0]
	return ChannelItem{
		ID:          it.ID,
		Title:       html.UnescapeString(it.Snippet.Title),
		Description: it.Snippet.Description,
		CustomURL:   it.Snippet.CustomURL,
	}, nil
}

// getJSON runs Do and decodes the body into out
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	resp, err := c.Do(ctx, path, q)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("youtube close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
