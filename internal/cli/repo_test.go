package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetOpts(t *testing.T) {
	opts, err := parseSetOpts([]string{"baseurl=http://mirror/os", "gpgcheck=0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"baseurl":  "http://mirror/os",
		"gpgcheck": "0",
	}, opts)
}

func TestParseSetOptsKeepsEqualSignsInValue(t *testing.T) {
	opts, err := parseSetOpts([]string{"exclude=pkg=1.0"})
	require.NoError(t, err)
	assert.Equal(t, "pkg=1.0", opts["exclude"])
}

func TestParseSetOptsRejectsMalformedPairs(t *testing.T) {
	_, err := parseSetOpts([]string{"gpgcheck"})
	assert.Error(t, err)

	_, err = parseSetOpts([]string{"=value"})
	assert.Error(t, err)
}

func TestEnabledFlagTriState(t *testing.T) {
	cmd := NewRepoCmd()
	enabled, err := enabledFlag(cmd)
	require.NoError(t, err)
	assert.Nil(t, enabled, "neither flag given leaves the option untouched")

	cmd = NewRepoCmd()
	require.NoError(t, cmd.Flags().Set("enable", "true"))
	enabled, err = enabledFlag(cmd)
	require.NoError(t, err)
	require.NotNil(t, enabled)
	assert.True(t, *enabled)

	cmd = NewRepoCmd()
	require.NoError(t, cmd.Flags().Set("disable", "true"))
	enabled, err = enabledFlag(cmd)
	require.NoError(t, err)
	require.NotNil(t, enabled)
	assert.False(t, *enabled)
}
