package rbl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/apperr"
	"github.com/fabriziosalmi/domainmate/internal/dnscore"
	"github.com/fabriziosalmi/domainmate/internal/rbl"
	"github.com/fabriziosalmi/domainmate/internal/testutil"
)

func TestCheckListing_Listed(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(_ context.Context, name string, _ uint16) dnscore.ResolutionResult {
			return testutil.SuccessResult(name+".", "127.0.0.2")
		},
	}
	c := rbl.NewChecker(resolver, testutil.NopLogger())

	listing, err := c.CheckListing(context.Background(), "203.0.113.77", "zen.spamhaus.org")
	require.NoError(t, err)
	assert.Equal(t, rbl.Listed, listing.Outcome)
	assert.Equal(t, []string{"127.0.0.2"}, listing.ReturnCodes)
	assert.Equal(t, 2, listing.Code)
	// The cascade must be driven with the reversed-octet query name.
	assert.Equal(t, []string{"77.113.0.203.zen.spamhaus.org"}, resolver.Queries)
}

func TestCheckListing_NotListed(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(_ context.Context, _ string, _ uint16) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultNotFound}
		},
	}
	c := rbl.NewChecker(resolver, testutil.NopLogger())

	listing, err := c.CheckListing(context.Background(), "198.51.100.1", "bl.spamcop.net")
	require.NoError(t, err)
	assert.Equal(t, rbl.NotListed, listing.Outcome)
	assert.Empty(t, listing.ReturnCodes)
	assert.Zero(t, listing.Code)
}

func TestCheckListing_BlockedNeverNotListed(t *testing.T) {
	// Exhausted cascade must map to Blocked, never to NotListed: an
	// unanswerable query is not a clean verdict.
	resolver := &testutil.MockResolver{
		Fn: func(_ context.Context, _ string, _ uint16) dnscore.ResolutionResult {
			return dnscore.ResolutionResult{Kind: dnscore.ResultExhausted}
		},
	}
	c := rbl.NewChecker(resolver, testutil.NopLogger())

	listing, err := c.CheckListing(context.Background(), "198.51.100.1", "zen.spamhaus.org")
	require.NoError(t, err)
	assert.Equal(t, rbl.Blocked, listing.Outcome)
	assert.NotEqual(t, rbl.NotListed, listing.Outcome)
}

func TestCheckListing_InvalidAddressNoNetwork(t *testing.T) {
	resolver := &testutil.MockResolver{}
	c := rbl.NewChecker(resolver, testutil.NopLogger())

	_, err := c.CheckListing(context.Background(), "not-an-ip", "zen.spamhaus.org")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Empty(t, resolver.Queries, "malformed input must fail before any network attempt")
}

func TestCheckListing_CodeFromLastOctet(t *testing.T) {
	resolver := &testutil.MockResolver{
		Fn: func(_ context.Context, name string, _ uint16) dnscore.ResolutionResult {
			return testutil.SuccessResult(name+".", "127.0.0.10", "127.0.0.4")
		},
	}
	c := rbl.NewChecker(resolver, testutil.NopLogger())

	listing, err := c.CheckListing(context.Background(), "203.0.113.5", "zen.spamhaus.org")
	require.NoError(t, err)
	assert.Equal(t, rbl.Listed, listing.Outcome)
	// Code derives from the first returned address; all codes pass through verbatim.
	assert.Equal(t, 10, listing.Code)
	assert.Equal(t, []string{"127.0.0.10", "127.0.0.4"}, listing.ReturnCodes)
}
