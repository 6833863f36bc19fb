// Package geo annotates IP addresses with country information from a local
// MaxMind GeoLite2 database. The annotator is optional; a nil *Annotator is
// valid and annotates nothing.
package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Annotator resolves IP addresses to country codes.
type Annotator struct {
	db *geoip2.Reader
}

// Open opens a GeoLite2 country (or city) database. An empty path returns a
// nil annotator, which is valid and annotates nothing.
func Open(path string) (*Annotator, error) {
	if path == "" {
		return nil, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GeoIP database %q: %w", path, err)
	}
	return &Annotator{db: db}, nil
}

// Close releases the database. Safe on a nil annotator.
func (a *Annotator) Close() error {
	if a == nil {
		return nil
	}
	return a.db.Close()
}

// Country returns the ISO country code for an IP address, or "" when the
// annotator is nil, the address is malformed, or the database has no record.
func (a *Annotator) Country(ipAddr string) string {
	if a == nil {
		return ""
	}
	ip := net.ParseIP(ipAddr)
	if ip == nil {
		return ""
	}
	record, err := a.db.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}
