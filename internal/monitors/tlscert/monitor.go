// Package tlscert inspects a domain's TLS certificate, reports on its
// remaining lifetime, and checks for deprecated protocol versions the server
// still accepts.
package tlscert

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/dialer"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// Name is the monitor identifier.
const Name = "cert"

// Expiry thresholds in days.
const (
	warningDays  = 30
	criticalDays = 7
)

const defaultPort = "443"

// weakVersions are the deprecated protocol versions probed after a
// successful handshake. A server still accepting any of them is critical.
var weakVersions = []uint16{tls.VersionTLS10, tls.VersionTLS11}

// Monitor connects to a domain's HTTPS port and inspects the presented leaf
// certificate.
type Monitor struct {
	dialer    dialer.ContextDialer
	tlsConfig *tls.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewMonitor creates a certificate monitor. tlsConfig may be nil for default
// verification; when provided it is cloned per connection with the server
// name applied.
func NewMonitor(d dialer.ContextDialer, tlsConfig *tls.Config, logger *slog.Logger) *Monitor {
	return &Monitor{dialer: d, tlsConfig: tlsConfig, logger: logger, now: time.Now}
}

// Name returns the monitor identifier.
func (m *Monitor) Name() string { return Name }

// AggregateResults combines multiple certificate results into a MultiResult.
func (m *Monitor) AggregateResults(results []monitors.Result) monitors.Result {
	mr := &MultiResult{}
	for _, r := range results {
		mr.Results = append(mr.Results, r.(*Result))
	}
	return mr
}

// Run performs a TLS handshake with the domain (optionally host:port) and
// reports the leaf certificate's remaining lifetime, issuer, and negotiated
// protocol version. After a successful handshake it additionally probes
// whether the server still accepts TLS 1.0 or 1.1. Connection and handshake
// failures are reported in the result, not returned as errors.
func (m *Monitor) Run(ctx context.Context, input string) (monitors.Result, error) {
	host, port, err := net.SplitHostPort(input)
	if err != nil {
		host, port = input, defaultPort
	}
	host = validate.CleanDomain(host)
	if !validate.IsDomain(host) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", monitors.ErrInvalidInput, input)
	}
	result := &Result{Domain: host}

	conn, err := m.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		result.Problem = fmt.Sprintf("connection failed: %v", err)
		return result, nil
	}
	defer conn.Close()

	conf := m.tlsConfig.Clone()
	if conf == nil {
		conf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	conf.ServerName = host

	tlsConn := tls.Client(conn, conf)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		result.Problem = fmt.Sprintf("TLS handshake failed: %v", err)
		return result, nil
	}
	defer tlsConn.Close()

	state := tlsConn.ConnectionState()
	leaf := state.PeerCertificates[0]

	result.NotAfter = leaf.NotAfter
	result.DaysLeft = int(leaf.NotAfter.Sub(m.now()).Hours() / 24)
	result.Issuer = leaf.Issuer.CommonName
	result.Version = tls.VersionName(state.Version)
	result.Subject = leaf.Subject.CommonName

	for _, v := range weakVersions {
		if m.acceptsVersion(ctx, host, port, v) {
			result.WeakProtocols = append(result.WeakProtocols, tls.VersionName(v))
		}
	}
	return result, nil
}

// acceptsVersion reports whether the server completes a handshake pinned to
// the given protocol version. Certificate trust was already judged by the
// main handshake, so the probe skips verification.
func (m *Monitor) acceptsVersion(ctx context.Context, host, port string, version uint16) bool {
	conn, err := m.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return false
	}
	defer conn.Close()

	conf := &tls.Config{
		ServerName:         host,
		MinVersion:         version,
		MaxVersion:         version,
		InsecureSkipVerify: true, //nolint:gosec // probes protocol acceptance only
	}
	probe := tls.Client(conn, conf)
	if err := probe.HandshakeContext(ctx); err != nil {
		return false
	}
	probe.Close()
	return true
}
