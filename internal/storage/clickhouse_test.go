package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aryorithm/blackbox/internal/model"
)

func TestEscapeSQL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"O'Brien", "O''Brien"},
		{`back\slash`, `back\\slash`},
		{`it's a \test\`, `it''s a \\test\\`},
	}
	for _, tt := range tests {
		if got := escapeSQL(tt.in); got != tt.want {
			t.Errorf("escapeSQL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 8, 6, 12, 30, 45, 999, time.UTC)
	want := "2026-08-06 12:30:45"
	if got := formatTimestamp(ts); got != want {
		t.Errorf("formatTimestamp() = %q, want %q", got, want)
	}
}

func TestBuildInsertSQL(t *testing.T) {
	rows := []model.DBRow{
		{ID: "1", Timestamp: time.Unix(0, 0).UTC(), Host: "web-01", Country: "US", Service: "sshd", Message: "it's bad", AnomalyScore: 0.97, IsThreat: true},
	}
	sql := buildInsertSQL("blackbox_events", rows)

	if !strings.HasPrefix(sql, "INSERT INTO blackbox_events (id, timestamp, host, country, service, message, anomaly_score, is_threat) VALUES ") {
		t.Errorf("unexpected SQL prefix: %s", sql)
	}
	if !strings.Contains(sql, "it''s bad") {
		t.Errorf("expected escaped message in SQL, got: %s", sql)
	}
	if !strings.Contains(sql, ", 0.97, 1)") {
		t.Errorf("expected numeric score and threat flag unquoted, got: %s", sql)
	}
}

func TestClickHouseSinkInsertSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.HasPrefix(string(body), "INSERT INTO") {
			t.Errorf("expected INSERT statement body, got: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewClickHouseSink(srv.URL, "blackbox_events")
	rows := []model.DBRow{{ID: "1", Host: "web-01", Timestamp: time.Now()}}

	if err := sink.Insert(context.Background(), rows); err != nil {
		t.Errorf("expected successful insert, got error: %v", err)
	}
}

func TestClickHouseSinkInsertFailureOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewClickHouseSink(srv.URL, "blackbox_events")
	rows := []model.DBRow{{ID: "1", Host: "web-01", Timestamp: time.Now()}}

	if err := sink.Insert(context.Background(), rows); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestClickHouseSinkInsertEmptyIsNoOp(t *testing.T) {
	sink := NewClickHouseSink("http://unreachable.invalid", "blackbox_events")
	if err := sink.Insert(context.Background(), nil); err != nil {
		t.Errorf("expected no error inserting empty batch, got: %v", err)
	}
}
