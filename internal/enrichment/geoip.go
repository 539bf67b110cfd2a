// Package enrichment fills derived geolocation fields on a ParsedLog from
// its source host. The real MaxMind-style database lookup is out of scope
// (spec.md §1); this package generalizes the pipeline's enrichment call
// site into a small interface with an in-memory implementation suitable
// for tests and small deployments.
package enrichment

import (
	"net"
	"sync"

	"github.com/aryorithm/blackbox/internal/model"
)

// Location is a single geolocation record.
type Location struct {
	CountryISO string
	Latitude   float64
	Longitude  float64
}

// GeoIP looks up a source host and fills derived fields on a ParsedLog.
type GeoIP interface {
	Lookup(host string) (Location, bool)
}

// CIDRTable is an in-memory GeoIP implementation keyed by CIDR block,
// checked in insertion order (first match wins).
type CIDRTable struct {
	mu      sync.RWMutex
	entries []cidrEntry
}

type cidrEntry struct {
	network *net.IPNet
	loc     Location
}

// NewCIDRTable creates an empty table.
func NewCIDRTable() *CIDRTable {
	return &CIDRTable{}
}

// Add registers a CIDR block (e.g. "10.0.0.0/8") with a location.
func (t *CIDRTable) Add(cidr string, loc Location) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, cidrEntry{network: network, loc: loc})
	return nil
}

// Lookup resolves host (an IP address, optionally with a port) against
// the registered CIDR blocks.
func (t *CIDRTable) Lookup(host string) (Location, bool) {
	ipStr := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		ipStr = h
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return Location{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.network.Contains(ip) {
			return e.loc, true
		}
	}
	return Location{}, false
}

// Enrich fills a ParsedLog's derived fields in place if a location is
// found for the log's host. Absence of a match leaves the fields zeroed,
// matching the original's "if present, fill" behavior.
func Enrich(geo GeoIP, log *model.ParsedLog) {
	loc, ok := geo.Lookup(log.Host)
	if !ok {
		return
	}
	log.CountryISO = loc.CountryISO
	log.Latitude = loc.Latitude
	log.Longitude = loc.Longitude
}
