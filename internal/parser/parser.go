// Package parser converts a raw byte slice into a structured ParsedLog
// with a feature embedding. Real-world log formats and the feature
// embedding's training-time semantics are out of scope (spec.md §1);
// this package implements a syslog-like "host service: message"
// splitter and a simple byte-histogram feature embedding sufficient to
// exercise the rest of the pipeline end-to-end.
package parser

import (
	"fmt"
	"strings"

	"github.com/aryorithm/blackbox/internal/model"
)

// Parse converts a raw log line from source into a ParsedLog. Expected
// format: "<host> <service>: <message>"; any line not matching this
// shape is still parsed, with the whole line treated as the message and
// host defaulting to source.
func Parse(source string, line []byte) (*model.ParsedLog, error) {
	text := strings.TrimRight(string(line), "\r\n")
	if text == "" {
		return nil, fmt.Errorf("parser: empty line")
	}

	log := &model.ParsedLog{
		Host:     source,
		Severity: "info",
		Message:  text,
	}

	fields := strings.SplitN(text, " ", 2)
	if len(fields) == 2 {
		rest := fields[1]
		if idx := strings.Index(rest, ": "); idx >= 0 {
			log.Host = fields[0]
			log.Service = rest[:idx]
			log.Message = rest[idx+2:]
		}
	}

	log.Features = embed(text)
	return log, nil
}

// embed computes a deterministic, fixed-length feature vector from the
// raw text: a normalized histogram of byte values folded into
// model.FeatureVectorSize buckets. This stands in for the original
// system's trained embedding, which is out of scope here.
func embed(text string) [model.FeatureVectorSize]float64 {
	var histogram [model.FeatureVectorSize]float64
	if len(text) == 0 {
		return histogram
	}
	for _, b := range []byte(text) {
		histogram[int(b)%model.FeatureVectorSize]++
	}
	total := float64(len(text))
	for i := range histogram {
		histogram[i] /= total
	}
	return histogram
}
