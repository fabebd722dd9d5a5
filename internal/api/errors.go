package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// maxDetailSize caps the raw body used as an error detail
const maxDetailSize = 64 << 10

var (
	detailPath    = jp.MustParseString("$.detail")
	detailMsgPath = jp.MustParseString("$.detail[*].msg")
	messagePath   = jp.MustParseString("$.message")
)

// Error is a non-2xx API response
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// StatusCode returns the HTTP status of an *Error in err's chain, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 or 403 response
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Detail returns the server-provided message of err, or err.Error()
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// extractDetail reads the message out of an error body.
// Both detail shapes are accepted: a string, or a validation list of {msg}.
func extractDetail(body []byte) string {
	data, err := oj.Parse(body)
	if err == nil {
		if results := detailPath.Get(data); len(results) > 0 {
			if s, ok := results[0].(string); ok && s != "" {
				return s
			}
		}
		var msgs []string
		for _, m := range detailMsgPath.Get(data) {
			if s, ok := m.(string); ok && s != "" {
				msgs = append(msgs, s)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		if results := messagePath.Get(data); len(results) > 0 {
			if s, ok := results[0].(string); ok && s != "" {
				return s
			}
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxDetailSize {
		text = text[:maxDetailSize]
	}
	return text
}
