package cmd

import (
	"testing"

	"github.com/encodeous/weft/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	scope, err := parseScope("all")
	require.NoError(t, err)
	assert.True(t, scope.All())

	scope, err = parseScope("")
	require.NoError(t, err)
	assert.True(t, scope.All())

	scope, err = parseScope("a, b,node-1.pod2")
	require.NoError(t, err)
	assert.Equal(t, state.Scope{"a", "b", "node-1.pod2"}, scope)
}

func TestParseScopeRejectsMalformedNames(t *testing.T) {
	_, err := parseScope("a,has spaces")
	require.Error(t, err)

	_, err = parseScope("a;b")
	require.Error(t, err)
}
