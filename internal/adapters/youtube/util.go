package youtube

import (
	json "encoding/json/v2"
	"errors"
	"io"
	"net/http"

	perr "github.com/sliu810/razorback-investing/internal/platform/errors"
)

// apiError mirrors the Data API error envelope just enough to pull a reason
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// readAPIReason drains the response body and extracts the first error reason
// falls back to the top level message, then the raw tail
func readAPIReason(resp *http.Response) string {
	defer func() { _ = resp.Body.Close() }()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var e apiError
	if err := json.Unmarshal(b, &e); err == nil {
		if len(e.Error.Errors) > 0 && e.Error.Errors[0].Reason != "" {
			return e.Error.Errors[0].Reason
		}
		if e.Error.Message != "" {
			return e.Error.Message
		}
	}
	return string(b)
}

// quotaReason reports whether a 403 reason means the key burned its quota
func quotaReason(reason string) bool {
	switch reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return true
	}
	return false
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// IsQuotaExhausted reports whether err ended as a quota failure
func IsQuotaExhausted(err error) bool {
	return perr.IsCode(err, perr.ErrorCodeTooManyRequests)
}

// IsNotFound reports whether err means the resource is gone upstream
func IsNotFound(err error) bool {
	if errors.Is(err, perr.ErrNotFound) {
		return true
	}
	return perr.IsCode(err, perr.ErrorCodeNotFound)
}
