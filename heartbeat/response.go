package heartbeat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var errNotObject = errors.New("response is not a JSON object")

// Response is a parsed OpsGenie heartbeat response.
// Values delivered to listeners are shared and must not be modified.
type Response struct {
	// Code is the payload "code"; 0 when missing or not a JSON number.
	Code int

	Status string

	// WillExpireAt is zero when the server sent no usable expiry.
	WillExpireAt time.Time

	// Fields holds the whole body. Numbers are json.Number.
	Fields map[string]any
}

// HasExpiry reports whether the response carried an expiry hint.
func (r *Response) HasExpiry() bool {
	return r != nil && !r.WillExpireAt.IsZero()
}

// parseResponse decodes a non-empty body. Anything but a single JSON object
// is an error, so arrays and null are malformed rather than heartbeats.
func parseResponse(body []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}

	r := &Response{
		Code:   parseCode(fields["code"]),
		Fields: fields,
	}
	if s, ok := fields["status"].(string); ok {
		r.Status = s
	}
	r.WillExpireAt = parseExpiry(fields["willExpireAt"])
	return r, nil
}

// parseCode accepts JSON numbers only; "200" as a string is not 200.
func parseCode(v any) int {
	switch c := v.(type) {
	case json.Number:
		if n, err := c.Int64(); err == nil {
			return int(n)
		}
		if f, err := c.Float64(); err == nil && f == math.Trunc(f) {
			return int(f)
		}
	}
	return 0
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseExpiry accepts epoch milliseconds as a number or numeric string, or
// an ISO-8601 timestamp. Unzoned timestamps are UTC.
func parseExpiry(v any) time.Time {
	switch e := v.(type) {
	case json.Number:
		return fromMillis(string(e))
	case string:
		s := strings.TrimSpace(e)
		if t := fromMillis(s); !t.IsZero() {
			return t
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func fromMillis(s string) time.Time {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return time.UnixMilli(int64(f))
	}
	return time.Time{}
}
