package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestService(t *testing.T) {
	attr := Service("blackboxd")
	if attr.Key != FieldService {
		t.Errorf("expected key %q, got %q", FieldService, attr.Key)
	}
	if attr.Value.String() != "blackboxd" {
		t.Errorf("expected value %q, got %q", "blackboxd", attr.Value.String())
	}
}

func TestSource(t *testing.T) {
	attr := Source("10.0.0.5:5514")
	if attr.Key != FieldSource {
		t.Errorf("expected key %q, got %q", FieldSource, attr.Key)
	}
	if attr.Value.String() != "10.0.0.5:5514" {
		t.Errorf("expected value %q, got %q", "10.0.0.5:5514", attr.Value.String())
	}
}

func TestHost(t *testing.T) {
	attr := Host("web-01")
	if attr.Key != FieldHost {
		t.Errorf("expected key %q, got %q", FieldHost, attr.Key)
	}
	if attr.Value.String() != "web-01" {
		t.Errorf("expected value %q, got %q", "web-01", attr.Value.String())
	}
}

func TestScore(t *testing.T) {
	attr := Score(0.97)
	if attr.Key != FieldScore {
		t.Errorf("expected key %q, got %q", FieldScore, attr.Key)
	}
	if attr.Value.Float64() != 0.97 {
		t.Errorf("expected value %v, got %v", 0.97, attr.Value.Float64())
	}
}

func TestReason(t *testing.T) {
	attr := Reason("rule_match")
	if attr.Key != FieldReason {
		t.Errorf("expected key %q, got %q", FieldReason, attr.Key)
	}
	if attr.Value.String() != "rule_match" {
		t.Errorf("expected value %q, got %q", "rule_match", attr.Value.String())
	}
}

func TestRule(t *testing.T) {
	attr := Rule("ssh-bruteforce")
	if attr.Key != FieldRule {
		t.Errorf("expected key %q, got %q", FieldRule, attr.Key)
	}
	if attr.Value.String() != "ssh-bruteforce" {
		t.Errorf("expected value %q, got %q", "ssh-bruteforce", attr.Value.String())
	}
}

func TestProtocol(t *testing.T) {
	attr := Protocol("tcp")
	if attr.Key != FieldProtocol {
		t.Errorf("expected key %q, got %q", FieldProtocol, attr.Key)
	}
	if attr.Value.String() != "tcp" {
		t.Errorf("expected value %q, got %q", "tcp", attr.Value.String())
	}
}

func TestDuration(t *testing.T) {
	attr := Duration(1234)
	if attr.Key != FieldDuration {
		t.Errorf("expected key %q, got %q", FieldDuration, attr.Key)
	}
	if attr.Value.Int64() != 1234 {
		t.Errorf("expected value %d, got %d", 1234, attr.Value.Int64())
	}
}

func TestError(t *testing.T) {
	err := errors.New("something went wrong")
	attr := Error(err)
	if attr.Key != FieldError {
		t.Errorf("expected key %q, got %q", FieldError, attr.Key)
	}
	if attr.Value.String() != "something went wrong" {
		t.Errorf("expected value %q, got %q", "something went wrong", attr.Value.String())
	}
}

func TestEventID(t *testing.T) {
	attr := EventID("event-xyz-789")
	if attr.Key != FieldEventID {
		t.Errorf("expected key %q, got %q", FieldEventID, attr.Key)
	}
	if attr.Value.String() != "event-xyz-789" {
		t.Errorf("expected value %q, got %q", "event-xyz-789", attr.Value.String())
	}
}

func TestBatchSize(t *testing.T) {
	attr := BatchSize(32)
	if attr.Key != FieldBatchSize {
		t.Errorf("expected key %q, got %q", FieldBatchSize, attr.Key)
	}
	if attr.Value.Int64() != 32 {
		t.Errorf("expected value %d, got %d", 32, attr.Value.Int64())
	}
}

func TestFieldConstants(t *testing.T) {
	fields := map[string]string{
		"FieldService":   FieldService,
		"FieldSource":    FieldSource,
		"FieldHost":      FieldHost,
		"FieldScore":     FieldScore,
		"FieldReason":    FieldReason,
		"FieldRule":      FieldRule,
		"FieldProtocol":  FieldProtocol,
		"FieldDuration":  FieldDuration,
		"FieldError":     FieldError,
		"FieldEventID":   FieldEventID,
		"FieldBatchSize": FieldBatchSize,
	}

	for name, value := range fields {
		if value == "" {
			t.Errorf("%s constant is empty", name)
		}
	}
}

func TestFieldHelpers_ReturnsSlogAttr(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
	}{
		{"Service", Service("test")},
		{"Source", Source("test")},
		{"Host", Host("test")},
		{"Score", Score(0.5)},
		{"Reason", Reason("test")},
		{"Rule", Rule("test")},
		{"Protocol", Protocol("test")},
		{"Duration", Duration(100)},
		{"Error", Error(errors.New("test"))},
		{"EventID", EventID("test")},
		{"BatchSize", BatchSize(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = tt.attr.Key
			_ = tt.attr.Value
		})
	}
}
