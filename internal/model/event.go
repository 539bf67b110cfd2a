// Package model holds the plain data records shared across the ingest,
// scoring, and active-defense pipeline.
package model

import "time"

// PayloadMax is the maximum inline payload size carried by a RawLogEvent.
const PayloadMax = 4096

// RawLogEvent is a fixed-size, value-typed ring slot record. It lives only
// inside a ring.Buffer slot; the consumer copies it out before the producer
// can overwrite it.
type RawLogEvent struct {
	ReceivedAt time.Time
	Source     string
	Length     int
	Payload    [PayloadMax]byte
}

// Bytes returns the valid portion of the inline payload.
func (e *RawLogEvent) Bytes() []byte {
	return e.Payload[:e.Length]
}

// FeatureVectorSize is the fixed length of the anomaly-detector input.
const FeatureVectorSize = 128

// ParsedLog is the owned, heap-allocated record produced by the parser from
// a RawLogEvent. Its lifetime spans one iteration of the processing loop.
type ParsedLog struct {
	Host     string
	Service  string
	Severity string
	Message  string

	// Derived fields, filled by enrichment.
	CountryISO string
	Latitude   float64
	Longitude  float64

	Features [FeatureVectorSize]float64

	// Verdict fields, filled during classification.
	Score      float64
	Reason     string
	IsCritical bool
}

// TokenBucket is the per-source rate-limiter record.
type TokenBucket struct {
	Tokens      float64
	MaxBurst    float64
	RefillRate  float64
	LastRefill  time.Time
}

// BlockEntry records an active firewall block for one source.
type BlockEntry struct {
	Source    string
	StartedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the entry's ban has elapsed as of now.
func (b BlockEntry) Expired(now time.Time) bool {
	return now.Sub(b.StartedAt) >= b.Duration
}

// CooldownEntry records the last time an alert fired for a source.
type CooldownEntry struct {
	Source    string
	LastAlert time.Time
}

// Alert is the JSON payload broadcast on the pub/sub channel.
type Alert struct {
	Source    string    `json:"source"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// RuleAction is a finite tagged variant for what a matched rule requests.
type RuleAction int

const (
	ActionAlert RuleAction = iota
	ActionDrop
	ActionTag
)

func (a RuleAction) String() string {
	switch a {
	case ActionAlert:
		return "ALERT"
	case ActionDrop:
		return "DROP"
	case ActionTag:
		return "TAG"
	default:
		return "UNKNOWN"
	}
}

// Rule is a deterministic signature matched against one field of a ParsedLog.
type Rule struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Action      RuleAction `yaml:"-"`
	ActionName  string     `yaml:"action"`
	FieldTarget string     `yaml:"field"`
	Pattern     string     `yaml:"pattern"`
	IsRegex     bool       `yaml:"is_regex"`
}

// DBRow is the flattened record handed to the storage sink.
type DBRow struct {
	ID            string
	Timestamp     time.Time
	Host          string
	Country       string
	Service       string
	Message       string
	AnomalyScore  float64
	IsThreat      bool
}
