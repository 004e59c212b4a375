package heartbeat

import (
	"testing"
	"time"
)

func TestParseResponse(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
		wantExpiry time.Time
	}{
		{
			name:       "epoch millis",
			body:       `{"code":200,"status":"successful","willExpireAt":1772366400000}`,
			wantCode:   200,
			wantStatus: "successful",
			wantExpiry: expiry,
		},
		{
			name:       "string code and expiry",
			body:       `{"code":"200","willExpireAt":"1772366400000"}`,
			wantExpiry: expiry,
		},
		{
			name:       "rfc3339",
			body:       `{"code":200,"willExpireAt":"2026-03-01T12:00:00Z"}`,
			wantCode:   200,
			wantExpiry: expiry,
		},
		{
			name:       "rfc3339 with offset and fraction",
			body:       `{"code":200,"willExpireAt":"2026-03-01T14:00:00.000+02:00"}`,
			wantCode:   200,
			wantExpiry: expiry,
		},
		{
			name:       "iso without zone",
			body:       `{"willExpireAt":"2026-03-01T12:00:00"}`,
			wantExpiry: expiry,
		},
		{
			name:       "float millis",
			body:       `{"code":200.0,"willExpireAt":1772366400000.0}`,
			wantCode:   200,
			wantExpiry: expiry,
		},
		{
			name:     "garbage expiry",
			body:     `{"code":200,"willExpireAt":"soon"}`,
			wantCode: 200,
		},
		{
			name: "boolean expiry",
			body: `{"willExpireAt":true}`,
		},
		{
			name:       "non-numeric code",
			body:       `{"code":"ok","status":"successful"}`,
			wantStatus: "successful",
		},
		{
			name: "fractional code",
			body: `{"code":200.5}`,
		},
		{
			name: "empty object",
			body: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseResponse([]byte(tt.body))
			if err != nil {
				t.Fatalf("parseResponse() error = %v", err)
			}
			if r.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", r.Code, tt.wantCode)
			}
			if r.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", r.Status, tt.wantStatus)
			}
			if !r.WillExpireAt.Equal(tt.wantExpiry) {
				t.Errorf("WillExpireAt = %v, want %v", r.WillExpireAt, tt.wantExpiry)
			}
			if r.HasExpiry() != !tt.wantExpiry.IsZero() {
				t.Errorf("HasExpiry() = %v", r.HasExpiry())
			}
			if r.Fields == nil {
				t.Error("Fields should hold the body")
			}
		})
	}
}

func TestParseResponse_KeepsExtraFields(t *testing.T) {
	r, err := parseResponse([]byte(`{"code":200,"heartbeat":1,"took":0.003}`))
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if _, ok := r.Fields["heartbeat"]; !ok {
		t.Error("extra fields should be preserved")
	}
	if _, ok := r.Fields["took"]; !ok {
		t.Error("extra fields should be preserved")
	}
}

func TestParseResponse_Rejects(t *testing.T) {
	for _, body := range []string{
		"not json",
		"[]",
		`"string"`,
		"42",
		"null",
		`{"code":200`,
		`{"code":200}x`,
		" ",
	} {
		if _, err := parseResponse([]byte(body)); err == nil {
			t.Errorf("parseResponse(%q) should fail", body)
		}
	}
}

func TestResponse_HasExpiryNil(t *testing.T) {
	var r *Response
	if r.HasExpiry() {
		t.Error("nil response has no expiry")
	}
}
