package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyPathIsNilAnnotator(t *testing.T) {
	a, err := Open("")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open("/nonexistent/GeoLite2-Country.mmdb")
	require.Error(t, err)
}

func TestNilAnnotatorIsSafe(t *testing.T) {
	var a *Annotator
	assert.Empty(t, a.Country("1.1.1.1"))
	assert.NoError(t, a.Close())
}
