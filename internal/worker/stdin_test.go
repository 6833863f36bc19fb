package worker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/worker"
)

func TestReadInputs_Basic(t *testing.T) {
	r := strings.NewReader("example.com\nexample.org\n")
	inputs, err := worker.ReadInputs(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "example.org"}, inputs)
}

func TestReadInputs_TrimsWhitespace(t *testing.T) {
	r := strings.NewReader("  example.com  \n\texample.org\t\n")
	inputs, err := worker.ReadInputs(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "example.org"}, inputs)
}

func TestReadInputs_DropsEmptyLines(t *testing.T) {
	r := strings.NewReader("example.com\n\n\nexample.org\n")
	inputs, err := worker.ReadInputs(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "example.org"}, inputs)
}

func TestReadInputs_Empty(t *testing.T) {
	inputs, err := worker.ReadInputs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, inputs)
}

func TestReadInputs_NoTrailingNewline(t *testing.T) {
	inputs, err := worker.ReadInputs(strings.NewReader("example.com"))
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, inputs)
}
