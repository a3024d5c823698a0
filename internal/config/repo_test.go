package config

import (
	"os"
	"path/filepath"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospdev/yumconf/internal/models"
)

// fakeGetter serves a canned body instead of hitting the network.
type fakeGetter struct {
	body []byte
	err  error
	urls []string
}

func (f *fakeGetter) Get(url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func newRepoConfig(t *testing.T, dir string, getter *fakeGetter) *RepoConfig {
	t.Helper()
	logger, _ := logrustest.NewNullLogger()
	opts := RepoOptions{DirPath: dir, Logger: logger}
	if getter != nil {
		opts.Getter = getter
	}
	repoCfg, err := NewRepoConfig(opts)
	require.NoError(t, err)
	return repoCfg
}

func boolPtr(b bool) *bool {
	return &b
}

func TestEnabledTriState(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.repo", "[foo]\nbaseurl=x\n")
	repoCfg := newRepoConfig(t, dir, nil)

	// nil leaves the option alone
	require.NoError(t, repoCfg.UpdateSection("foo", map[string]string{"priority": "1"}, "", nil))
	assert.NotContains(t, readOptions(t, path, "foo"), "enabled")

	require.NoError(t, repoCfg.UpdateSection("foo", nil, "", boolPtr(true)))
	assert.Equal(t, "1", readOptions(t, path, "foo")["enabled"])

	require.NoError(t, repoCfg.UpdateSection("foo", nil, "", boolPtr(false)))
	assert.Equal(t, "0", readOptions(t, path, "foo")["enabled"])
}

func TestUpdateSectionWithNothingToSetIsANoop(t *testing.T) {
	dir := t.TempDir()
	repoCfg := newRepoConfig(t, dir, nil)

	// no options and no enabled flag: nothing to do, not an error
	require.NoError(t, repoCfg.UpdateSection("absent", nil, "", nil))
}

func TestAddOrUpdateSectionCreatesFile(t *testing.T) {
	dir := t.TempDir()
	repoCfg := newRepoConfig(t, dir, nil)
	path := filepath.Join(dir, "missing.repo")

	err := repoCfg.AddOrUpdateSection("bar", map[string]string{"baseurl": "x"},
		path, nil, true, "")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"baseurl": "x",
		"name":    "bar",
	}, readOptions(t, path, "bar"))
}

func TestAddOrUpdateSectionWithoutCreatePropagatesNotFound(t *testing.T) {
	dir := t.TempDir()
	repoCfg := newRepoConfig(t, dir, nil)

	err := repoCfg.AddOrUpdateSection("bar", map[string]string{"baseurl": "x"},
		filepath.Join(dir, "missing.repo"), nil, false, "")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrNotFound))
}

func TestAddOrUpdateSectionAddsToExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.repo", "[present]\nbaseurl=x\n")
	repoCfg := newRepoConfig(t, dir, nil)

	err := repoCfg.AddOrUpdateSection("fresh", map[string]string{"baseurl": "y"},
		path, boolPtr(true), true, "")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"baseurl": "y",
		"name":    "fresh",
		"enabled": "1",
	}, readOptions(t, path, "fresh"))
	assert.Equal(t, map[string]string{"baseurl": "x"}, readOptions(t, path, "present"))
}

func TestAddOrUpdateSectionUpdatesExistingSection(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.repo", "[foo]\nbaseurl=old\nname=custom\n")
	repoCfg := newRepoConfig(t, dir, nil)

	err := repoCfg.AddOrUpdateSection("foo", map[string]string{"baseurl": "new"},
		"", nil, true, "")
	require.NoError(t, err)

	opts := readOptions(t, path, "foo")
	assert.Equal(t, "new", opts["baseurl"])
	// a name is always part of the update when the caller supplied none
	assert.Equal(t, "foo", opts["name"])
}

func TestAddOrUpdateSectionSeedsOptionsFromURL(t *testing.T) {
	dir := t.TempDir()
	getter := &fakeGetter{
		body: []byte("[foo]\nbaseurl=http://remote/os\ngpgcheck=1\nname=Remote Foo\n"),
	}
	repoCfg := newRepoConfig(t, dir, getter)

	err := repoCfg.AddOrUpdateSection("foo", map[string]string{"gpgcheck": "0"},
		"", boolPtr(true), true, "http://example.com/repos/foo.repo")
	require.NoError(t, err)
	require.Equal(t, []string{"http://example.com/repos/foo.repo"}, getter.urls)

	// destination inferred from the URL file name
	path := filepath.Join(dir, "foo.repo")
	assert.Equal(t, map[string]string{
		"baseurl":  "http://remote/os",
		"gpgcheck": "0",
		"name":     "Remote Foo",
		"enabled":  "1",
	}, readOptions(t, path, "foo"))
}

func TestAddOrUpdateSectionRejectsSectionAbsentFromURL(t *testing.T) {
	dir := t.TempDir()
	getter := &fakeGetter{
		body: []byte("[other]\nbaseurl=http://remote/os\n"),
	}
	repoCfg := newRepoConfig(t, dir, getter)

	err := repoCfg.AddOrUpdateSection("foo", nil,
		"", nil, true, "http://example.com/repos/foo.repo")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrInvalidSection))

	// nothing was written
	_, err = os.Stat(filepath.Join(dir, "foo.repo"))
	assert.True(t, os.IsNotExist(err))
}

func TestAddOrUpdateAllSectionsFromURL(t *testing.T) {
	dir := t.TempDir()
	getter := &fakeGetter{
		body: []byte("[one]\nbaseurl=http://remote/one\n\n[two]\nbaseurl=http://remote/two\n"),
	}
	repoCfg := newRepoConfig(t, dir, getter)

	err := repoCfg.AddOrUpdateAllSectionsFromURL(
		"http://example.com/extra.repo", "", nil, boolPtr(false))
	require.NoError(t, err)

	path := filepath.Join(dir, "extra.repo")
	assert.Equal(t, map[string]string{
		"baseurl": "http://remote/one",
		"name":    "one",
		"enabled": "0",
	}, readOptions(t, path, "one"))
	assert.Equal(t, map[string]string{
		"baseurl": "http://remote/two",
		"name":    "two",
		"enabled": "0",
	}, readOptions(t, path, "two"))
}

func TestAddOrUpdateAllSectionsFromURLPropagatesFetchError(t *testing.T) {
	dir := t.TempDir()
	getter := &fakeGetter{err: models.NewError(models.ErrURL, "boom")}
	repoCfg := newRepoConfig(t, dir, getter)

	err := repoCfg.AddOrUpdateAllSectionsFromURL(
		"http://example.com/extra.repo", "", nil, nil)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrURL))
}

func TestUpdateAllSectionsDisablesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.repo", "[one]\nenabled=1\n\n[two]\nenabled=1\n")
	repoCfg := newRepoConfig(t, dir, nil)

	require.NoError(t, repoCfg.UpdateAllSections(path, nil, boolPtr(false)))

	assert.Equal(t, "0", readOptions(t, path, "one")["enabled"])
	assert.Equal(t, "0", readOptions(t, path, "two")["enabled"])
}

func TestUpdateSectionUnchangedOnMissingSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.repo", "[other]\nbaseurl=x\n")
	repoCfg := newRepoConfig(t, dir, nil)

	err := repoCfg.UpdateSection("foo", map[string]string{"baseurl": "y"}, "", nil)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrNotFound))
}

func TestNewRepoConfigValidatesDirectory(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	_, err := NewRepoConfig(RepoOptions{
		DirPath: filepath.Join(t.TempDir(), "missing"),
		Logger:  logger,
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.ErrNotFound))

	// writability of the bound file is checked up front
	dir := t.TempDir()
	if os.Geteuid() != 0 {
		path := writeFile(t, dir, "a.repo", "[s]\n")
		require.NoError(t, os.Chmod(path, 0444))
		_, err = NewRepoConfig(RepoOptions{DirPath: dir, FilePath: path, Logger: logger})
		assert.True(t, models.IsKind(err, models.ErrPermissionDenied))
	}
}
