package logging

import "log/slog"

// Common field names for consistent logging across components.
const (
	FieldService   = "service"
	FieldSource    = "source"
	FieldHost      = "host"
	FieldScore     = "score"
	FieldReason    = "reason"
	FieldRule      = "rule"
	FieldProtocol  = "protocol"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldEventID   = "event_id"
	FieldBatchSize = "batch_size"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Source returns a slog attribute for the event source identifier (IP or host).
func Source(src string) slog.Attr {
	return slog.String(FieldSource, src)
}

// Host returns a slog attribute for the originating host.
func Host(host string) slog.Attr {
	return slog.String(FieldHost, host)
}

// Score returns a slog attribute for an anomaly or threat score.
func Score(score float64) slog.Attr {
	return slog.Float64(FieldScore, score)
}

// Reason returns a slog attribute describing why a decision was made.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Rule returns a slog attribute for the name of a matched rule.
func Rule(name string) slog.Attr {
	return slog.String(FieldRule, name)
}

// Protocol returns a slog attribute for the ingest protocol (udp/tcp).
func Protocol(proto string) slog.Attr {
	return slog.String(FieldProtocol, proto)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// BatchSize returns a slog attribute for a batch size.
func BatchSize(n int) slog.Attr {
	return slog.Int(FieldBatchSize, n)
}
