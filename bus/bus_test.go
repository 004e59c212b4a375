package bus

import "testing"

func TestValidateSubject(t *testing.T) {
	tests := []struct {
		subject string
		wantErr bool
	}{
		{"opsgenie", false},
		{"opsgenie.heartbeat.web-1", false},
		{"", true},
		{"opsgenie..heartbeat", true},
		{"opsgenie.heartbeat.", true},
		{"opsgenie heartbeat", true},
		{"opsgenie.*", true},
		{"opsgenie.>", true},
	}
	for _, tt := range tests {
		err := ValidateSubject(tt.subject)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSubject(%q) = %v, wantErr %v", tt.subject, err, tt.wantErr)
		}
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"opsgenie.*", false},
		{"opsgenie.>", false},
		{"*.heartbeat.*", false},
		{"opsgenie.>.x", true},
		{"opsgenie.a*", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidatePattern(tt.pattern)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePattern(%q) = %v, wantErr %v", tt.pattern, err, tt.wantErr)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, subject string
		want             bool
	}{
		{"a.b.c", "a.b.c", true},
		{"a.b.c", "a.b", false},
		{"a.*.c", "a.b.c", true},
		{"a.*", "a.b.c", false},
		{"a.>", "a.b.c", true},
		{"a.>", "a", false},
		{">", "a", true},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.subject); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.subject, got, tt.want)
		}
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix string
		parts  []string
		want   string
	}{
		{"opsgenie", []string{"heartbeat", "web-1"}, "opsgenie.heartbeat.web-1"},
		{"ops.genie", []string{"error", "host.example.com"}, "ops.genie.error.host_example_com"},
		{"opsgenie", []string{"heartbeat", "my app >"}, "opsgenie.heartbeat.my_app__"},
		{"opsgenie", []string{"heartbeat", ""}, "opsgenie.heartbeat._"},
		{"", []string{"heartbeat"}, "heartbeat"},
	}
	for _, tt := range tests {
		got := Subject(tt.prefix, tt.parts...)
		if got != tt.want {
			t.Errorf("Subject(%q, %v) = %q, want %q", tt.prefix, tt.parts, got, tt.want)
		}
		if err := ValidateSubject(got); err != nil {
			t.Errorf("Subject(%q, %v) produced invalid subject %q", tt.prefix, tt.parts, got)
		}
	}
}
