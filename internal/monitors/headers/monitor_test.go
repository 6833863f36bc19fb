package headers

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/testutil"
)

func respondWithHeaders(h map[string]string) httpmock.Responder {
	return func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusOK, "")
		for k, v := range h {
			resp.Header.Set(k, v)
		}
		return resp, nil
	}
}

func TestRun_AllHeadersPresent(t *testing.T) {
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://example.com/",
		respondWithHeaders(map[string]string{
			"Strict-Transport-Security": "max-age=63072000",
			"Content-Security-Policy":   "default-src 'self'",
			"X-Frame-Options":           "DENY",
			"X-Content-Type-Options":    "nosniff",
		}))

	m := NewMonitor(client, testutil.NopLogger())
	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, monitors.StatusOK, result.Status())
	assert.Len(t, result.Present, 4)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Leaking)
}

func TestRun_MissingHeadersAreWarnings(t *testing.T) {
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://example.com/",
		respondWithHeaders(map[string]string{
			"Strict-Transport-Security": "max-age=63072000",
		}))

	m := NewMonitor(client, testutil.NopLogger())
	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, monitors.StatusWarning, result.Status())
	assert.ElementsMatch(t, []string{
		"Content-Security-Policy",
		"X-Frame-Options",
		"X-Content-Type-Options",
	}, result.Missing)
	assert.Contains(t, result.Summary(), "3 security headers missing")
}

func TestRun_LeakingHeadersAreWarnings(t *testing.T) {
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://example.com/",
		respondWithHeaders(map[string]string{
			"Strict-Transport-Security": "max-age=63072000",
			"Content-Security-Policy":   "default-src 'self'",
			"X-Frame-Options":           "DENY",
			"X-Content-Type-Options":    "nosniff",
			"Server":                    "Apache/2.4.41 (Ubuntu)",
			"X-Powered-By":              "PHP/7.4.3",
		}))

	m := NewMonitor(client, testutil.NopLogger())
	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, monitors.StatusWarning, result.Status())
	require.Len(t, result.Leaking, 2)
	assert.Equal(t, "Server", result.Leaking[0].Name)
	assert.Equal(t, "Apache/2.4.41 (Ubuntu)", result.Leaking[0].Value)
}

func TestRun_UnreachableSiteIsError(t *testing.T) {
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://example.com/",
		httpmock.NewErrorResponder(assert.AnError))

	m := NewMonitor(client, testutil.NopLogger())
	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, monitors.StatusError, result.Status())
	assert.Contains(t, result.Problem, "request failed")
}

func TestRun_CleansURLInput(t *testing.T) {
	client := testutil.NewHTTPMockClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://example.com/",
		respondWithHeaders(nil))

	m := NewMonitor(client, testutil.NopLogger())
	res, err := m.Run(context.Background(), "https://Example.COM/login")
	require.NoError(t, err)
	assert.Equal(t, "example.com", res.(*Result).Domain)
}

func TestRun_InvalidInput(t *testing.T) {
	m := NewMonitor(testutil.NewHTTPMockClient(t), testutil.NopLogger())

	_, err := m.Run(context.Background(), "!!")
	require.Error(t, err)
	assert.ErrorIs(t, err, monitors.ErrInvalidInput)
}
