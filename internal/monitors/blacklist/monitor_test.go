package blacklist

import (
	"context"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/testutil"
)

var testZones = []string{"zen.spamhaus.org", "bl.spamcop.net"}

// scriptedResolver routes A queries for the domain and RBL queries for the
// reversed address to separate scripts.
func scriptedResolver(aResult dnscore.ResolutionResult, rblFn func(name string) dnscore.ResolutionResult) *testutil.MockResolver {
	return &testutil.MockResolver{
		Fn: func(_ context.Context, name string, qtype uint16) dnscore.ResolutionResult {
			if qtype == dns.TypeA && !strings.Contains(name, ".spamhaus.org") && !strings.Contains(name, ".spamcop.net") {
				return aResult
			}
			return rblFn(name)
		},
	}
}

func TestRun_CleanDomain(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(string) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, "198.51.100.7", result.IP)
	assert.Equal(t, monitors.StatusOK, result.Status())
	require.Len(t, result.Zones, 2)
	for _, z := range result.Zones {
		assert.Equal(t, ZoneClean, z.Outcome)
	}
	// reversed address form must be queried against each zone
	assert.Contains(t, resolver.Queries, "7.100.51.198.zen.spamhaus.org")
	assert.Contains(t, resolver.Queries, "7.100.51.198.bl.spamcop.net")
}

func TestRun_ListedDomainIsCritical(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(name string) dnscore.ResolutionResult {
			if strings.HasSuffix(name, ".zen.spamhaus.org") {
				return testutil.SuccessResult(name, "127.0.0.2")
			}
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, monitors.StatusCritical, result.Status())
	assert.Equal(t, ZoneListed, result.Zones[0].Outcome)
	assert.Equal(t, []string{"127.0.0.2"}, result.Zones[0].Codes)
	assert.Equal(t, ZoneClean, result.Zones[1].Outcome)
	assert.Contains(t, result.Summary(), "listed in 1 of 2 zones")
}

func TestRun_IPInputSkipsResolution(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(_ context.Context, name string, _ uint16) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	}
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "203.0.113.9")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, "203.0.113.9", result.IP)
	assert.Equal(t, monitors.StatusOK, result.Status())
	// only the RBL queries, no A lookup for the input itself
	assert.Equal(t, []string{
		"9.113.0.203.zen.spamhaus.org",
		"9.113.0.203.bl.spamcop.net",
	}, resolver.Queries)
}

func TestRun_PublicResolverBlockMarkerIsNotAListing(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(name string) dnscore.ResolutionResult {
			if strings.HasSuffix(name, ".zen.spamhaus.org") {
				return testutil.SuccessResult(name, "127.255.255.254")
			}
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ZoneBlocked, result.Zones[0].Outcome)
	assert.Empty(t, result.Zones[0].Codes)
	assert.Equal(t, monitors.StatusUnknown, result.Status())
}

func TestRun_PolicyCodesAreSkipped(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(name string) dnscore.ResolutionResult {
			if strings.HasSuffix(name, ".zen.spamhaus.org") {
				return testutil.SuccessResult(name, "127.0.0.10", "127.0.0.11")
			}
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ZoneClean, result.Zones[0].Outcome)
	assert.Equal(t, monitors.StatusOK, result.Status())
}

func TestRun_PolicyCodeAlongsideRealCodeStillListed(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(name string) dnscore.ResolutionResult {
			if strings.HasSuffix(name, ".zen.spamhaus.org") {
				return testutil.SuccessResult(name, "127.0.0.10", "127.0.0.4")
			}
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ZoneListed, result.Zones[0].Outcome)
	assert.Equal(t, []string{"127.0.0.4"}, result.Zones[0].Codes)
	assert.Equal(t, monitors.StatusCritical, result.Status())
}

func TestRun_ExhaustedZoneIsUnknownNeverClean(t *testing.T) {
	resolver := scriptedResolver(
		testutil.SuccessResult("example.com", "198.51.100.7"),
		func(name string) dnscore.ResolutionResult {
			if strings.HasSuffix(name, ".zen.spamhaus.org") {
				return dnscore.ResolutionResult{Kind: dnscore.ResultExhausted}
			}
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	)
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ZoneBlocked, result.Zones[0].Outcome)
	assert.Equal(t, monitors.StatusUnknown, result.Status())
	assert.Contains(t, result.Summary(), "could not be determined")
}

func TestRun_UnresolvableDomain(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(context.Context, string, uint16) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	}
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "nonexistent.example")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ResolveNotFound, result.ResolveOutcome)
	assert.Equal(t, monitors.StatusError, result.Status())
	assert.Empty(t, result.Zones)
	// no RBL queries after the failed resolution
	assert.Len(t, resolver.Queries, 1)
}

func TestRun_ResolutionBlockedEverywhere(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(context.Context, string, uint16) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultExhausted}
		},
	}
	m := NewMonitor(resolver, testZones, testutil.NopLogger())

	res, err := m.Run(context.Background(), "example.com")
	require.NoError(t, err)

	result := res.(*Result)
	assert.Equal(t, ResolveBlocked, result.ResolveOutcome)
	assert.Equal(t, monitors.StatusUnknown, result.Status())
}

func TestRun_InvalidInput(t *testing.T) {
	m := NewMonitor(&testutil.MockResolver{}, testZones, testutil.NopLogger())

	_, err := m.Run(context.Background(), "not a domain")
	require.Error(t, err)
	assert.ErrorIs(t, err, monitors.ErrInvalidInput)
}

func TestAggregateResults(t *testing.T) {
	m := NewMonitor(&testutil.MockResolver{}, testZones, testutil.NopLogger())
	agg := m.AggregateResults([]monitors.Result{
		&Result{Input: "a.example", Zones: []ZoneStatus{{Zone: "z", Outcome: ZoneClean}}},
		&Result{Input: "b.example", Zones: []ZoneStatus{{Zone: "z", Outcome: ZoneListed, Codes: []string{"127.0.0.2"}}}},
	})
	assert.Equal(t, monitors.StatusCritical, agg.Status())
	assert.False(t, agg.IsEmpty())
}
