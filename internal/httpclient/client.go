// Package httpclient builds the shared req.Client used by the DoH transport,
// the HTTP-based monitors, and the notification channels.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/imroc/req/v3"

	"github.com/fabriziosalmi/domainmate/internal/version"
)

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
// It identifies domainmate honestly so server operators can recognise its traffic.
// var (not const) because version.Version is a link-time variable, not a compile-time constant.
var DefaultUserAgent = "domainmate/" + version.Version + " (+https://github.com/fabriziosalmi/domainmate)"

// ResolveProxy returns the proxy value that will actually be used.
// If proxy is explicitly configured, it is returned as-is. Otherwise the
// standard proxy env vars are checked (HTTPS_PROXY, HTTP_PROXY, ALL_PROXY and
// their lowercase variants); if any are set "<from environment>" is returned.
// If none are set, an empty string is returned.
func ResolveProxy(proxy string) string {
	if proxy != "" {
		return proxy
	}
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		if os.Getenv(env) != "" {
			return "<from environment>"
		}
	}
	return ""
}

// New builds a *req.Client with optional proxy and user-agent configuration.
// If userAgent is empty, DefaultUserAgent is used.
// proxy supports http://, https://, and socks5:// URLs via req's SetProxyURL.
// When proxy is empty, HTTP_PROXY / HTTPS_PROXY / NO_PROXY environment
// variables are honoured automatically via http.ProxyFromEnvironment.
// When debug is true and logger is non-nil, an OnAfterResponse hook is
// attached that logs the HTTP method, URL, and status code at DEBUG level.
// Returns an error if the proxy URL is syntactically invalid.
func New(proxy, userAgent string, logger *slog.Logger, debug bool) (*req.Client, error) {
	client := req.NewClient()

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetUserAgent(userAgent)

	if proxy != "" {
		if err := validateProxy(proxy); err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		// SetProxyURL with a socks5:// URL forwards hostnames (not pre-resolved
		// IPs) through the proxy, preventing DNS leaks for HTTP-based monitors.
		// The standard-DNS cascade queries resolver IPs directly and is not
		// affected by this setting.
		client.SetProxyURL(proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if debug && logger != nil {
		attachDebugHook(client, logger)
	}

	return client, nil
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP method,
// URL, and status code at DEBUG level, and logs a body snippet on non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"status", resp.StatusCode,
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > 512 {
				body = body[:512]
			}
			logger.Debug("http error body",
				"status", resp.StatusCode,
				"body", body,
			)
		}
		return nil
	})
}

// validateProxy performs a basic check that the proxy URL has a recognised scheme.
func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if strings.HasPrefix(proxy, scheme) {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}
