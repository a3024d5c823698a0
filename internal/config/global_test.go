package config

import (
	"os"
	"path/filepath"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGlobalConfig(t *testing.T, filePath string) *GlobalConfig {
	t.Helper()
	logger, _ := logrustest.NewNullLogger()
	globalCfg, err := NewGlobalConfig(GlobalOptions{FilePath: filePath, Logger: logger})
	require.NoError(t, err)
	return globalCfg
}

func TestNewGlobalConfigCreatesFileWithMainSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yum.conf")

	globalCfg := newGlobalConfig(t, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[main]\n", string(content))

	opts, err := globalCfg.ReadSection("main")
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestGlobalConfigUpdateMain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yum.conf")
	globalCfg := newGlobalConfig(t, path)

	err := globalCfg.UpdateSection("main", map[string]string{
		"keepcache":           "0",
		"skip_if_unavailable": "False",
	})
	require.NoError(t, err)

	opts, err := globalCfg.ReadSection("main")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"keepcache":           "0",
		"skip_if_unavailable": "False",
	}, opts)
}

func TestGlobalConfigKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "yum.conf", "[main]\ngpgcheck=1\n")

	globalCfg := newGlobalConfig(t, path)
	require.NoError(t, globalCfg.UpdateSection("main", map[string]string{"keepcache": "1"}))

	opts, err := globalCfg.ReadSection("main")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"gpgcheck": "1", "keepcache": "1"}, opts)
}

func TestGlobalConfigAcceptsAnyOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnf.conf")
	globalCfg := newGlobalConfig(t, path)

	// no whitelist applies to the global configuration
	require.NoError(t, globalCfg.UpdateSection("main", map[string]string{
		"some_unusual_option": "on",
	}))

	opts, err := globalCfg.ReadSection("main")
	require.NoError(t, err)
	assert.Equal(t, "on", opts["some_unusual_option"])
}

func TestGlobalConfigAddSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yum.conf")
	globalCfg := newGlobalConfig(t, path)

	require.NoError(t, globalCfg.AddSection("proxy", map[string]string{"proxy": "http://p:3128"}))

	opts, err := globalCfg.ReadSection("proxy")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"proxy": "http://p:3128"}, opts)
}
