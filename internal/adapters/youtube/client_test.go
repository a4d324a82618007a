package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
)

func testClient(t *testing.T, srv *httptest.Server, keysCSV string) *Client {
	t.Helper()
	c := NewClient(Options{
		BaseURL:    srv.URL,
		KeysCSV:    keysCSV,
		MaxRetries: 3,
		RetryBase:  time.Millisecond,
		RPS:        1000,
		Burst:      1000,
	})
	c.sleep = func(time.Duration) {}
	return c
}

func TestSearchVideos_PagesAndUnescapes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("channelId") != "UCx" || q.Get("type") != "video" || q.Get("order") != "date" {
			t.Errorf("unexpected query: %v", q)
		}
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			if q.Get("pageToken") != "" {
				t.Errorf("first call should not carry pageToken, got %q", q.Get("pageToken"))
			}
			fmt.Fprint(w, `{
				"nextPageToken": "p2",
				"items": [
					{"id":{"kind":"youtube#video","videoId":"v1"},
					 "snippet":{"publishedAt":"2024-03-15T12:00:00Z","channelId":"UCx","title":"Fed &amp; Markets","channelTitle":"CNBC Television"}},
					{"id":{"kind":"youtube#playlist"},
					 "snippet":{"publishedAt":"2024-03-15T11:00:00Z","channelId":"UCx","title":"skip me","channelTitle":"CNBC Television"}}
				]}`)
			return
		}
		if q.Get("pageToken") != "p2" {
			t.Errorf("second call pageToken = %q, want p2", q.Get("pageToken"))
		}
		fmt.Fprint(w, `{
			"items": [
				{"id":{"kind":"youtube#video","videoId":"v2"},
				 "snippet":{"publishedAt":"2024-03-14T12:00:00Z","channelId":"UCx","title":"Closing Bell","channelTitle":"CNBC Television"}}
			]}`)
	}))
	defer srv.Close()

	c := testClient(t, srv, "k1")
	got, err := c.SearchVideos(context.Background(), "UCx",
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SearchVideos returned %d items, want 2 (playlist filtered)", len(got))
	}
	if got[0].VideoID != "v1" || got[0].Title != "Fed & Markets" {
		t.Fatalf("first item = %+v, want unescaped title", got[0])
	}
	if got[1].VideoID != "v2" {
		t.Fatalf("second item = %+v", got[1])
	}
}

func TestDo_QuotaRotatesKeys(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Query().Get("key") == "burned" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	// rotation starts at index 1, so "burned" is used first
	c := testClient(t, srv, "fresh,burned")
	resp, err := c.Do(context.Background(), "/videos", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Body.Close()
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("hits = %d, want 2 (one quota failure, one success)", hits)
	}
}

func TestDo_QuotaExhaustedAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"slow down","errors":[{"reason":"rateLimitExceeded"}]}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv, "k1")
	_, err := c.Do(context.Background(), "/search", nil)
	if err == nil {
		t.Fatalf("Do expected quota error, got nil")
	}
	if !IsQuotaExhausted(err) {
		t.Fatalf("IsQuotaExhausted(%v) = false, want true", err)
	}
}

func TestDo_ForbiddenWithoutQuotaReasonFailsFast(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"disabled","errors":[{"reason":"accessNotConfigured"}]}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv, "k1")
	_, err := c.Do(context.Background(), "/search", nil)
	if err == nil {
		t.Fatalf("Do expected forbidden error, got nil")
	}
	if !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("code = %v, want forbidden", perr.CodeOf(err))
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("hits = %d, want 1 (no retry on hard forbidden)", hits)
	}
}

func TestListVideos_Chunks(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"items":[{"id":"x","snippet":{"title":"t","publishedAt":"2024-01-01T00:00:00Z"},"contentDetails":{"duration":"PT5M"}}]}`)
	}))
	defer srv.Close()

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%03d", i)
	}

	c := testClient(t, srv, "k1")
	got, err := c.ListVideos(context.Background(), ids)
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("calls = %d, want 3 (50+50+20)", calls)
	}
	if len(got) != 3 {
		t.Fatalf("items = %d, want 3 (one per mocked page)", len(got))
	}
	if got[0].Duration != "PT5M" {
		t.Fatalf("duration = %q, want PT5M", got[0].Duration)
	}
}

func TestChannelByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	c := testClient(t, srv, "k1")
	_, err := c.ChannelByID(context.Background(), "UCnope")
	if err == nil {
		t.Fatalf("ChannelByID expected not found, got nil")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false, want true", err)
	}
}
