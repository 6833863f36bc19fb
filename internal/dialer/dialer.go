// Package dialer builds network dialers, optionally routed through a SOCKS5
// proxy for network-restricted environments.
package dialer

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"golang.org/x/net/proxy"

	"github.com/fabriziosalmi/domainmate/internal/apperr"
)

// ContextDialer matches the dialer contract of net.Dialer and proxy dialers.
type ContextDialer interface {
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

// New returns a dialer for direct connections, or one routed through the
// given socks5:// proxy URL. An empty proxyURL means a direct dialer.
func New(proxyURL string, timeout time.Duration) (ContextDialer, error) {
	direct := &net.Dialer{Timeout: timeout}
	if proxyURL == "" {
		return direct, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid proxy URL: %q", apperr.ErrInvalidInput, proxyURL)
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil, fmt.Errorf("%w: proxy scheme must be socks5, got %q", apperr.ErrInvalidInput, u.Scheme)
	}

	var auth *proxy.Auth
	if u.User != nil {
		auth = &proxy.Auth{User: u.User.Username()}
		auth.Password, _ = u.User.Password()
	}

	d, err := proxy.SOCKS5("tcp", u.Host, auth, direct)
	if err != nil {
		return nil, fmt.Errorf("building socks5 dialer: %w", err)
	}
	cd, ok := d.(ContextDialer)
	if !ok {
		return nil, fmt.Errorf("socks5 dialer does not support context dialing")
	}
	return cd, nil
}
