package config

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ospdev/yumconf/internal/fetch"
	"github.com/ospdev/yumconf/internal/inifile"
	"github.com/ospdev/yumconf/internal/models"
)

// RepoOptions configures a RepoConfig.
type RepoOptions struct {
	// DirPath is the repo configuration directory, /etc/yum.repos.d when
	// empty.
	DirPath string

	// FilePath optionally binds the manager to a single repo file.
	FilePath string

	// EnvironmentFile is sourced into the process environment before any
	// mutation runs.
	EnvironmentFile string

	Logger logrus.FieldLogger

	// Getter downloads remote repo files for the from-URL operations.
	Getter fetch.Getter
}

// RepoConfig manages yum/dnf repo configuration files.
type RepoConfig struct {
	eng    *Engine
	getter fetch.Getter
	log    logrus.FieldLogger
}

// NewRepoConfig creates a repo file manager rooted at the repo
// configuration directory.
func NewRepoConfig(opts RepoOptions) (*RepoConfig, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	dirPath := opts.DirPath
	if dirPath == "" {
		dirPath = models.RepoDir
	}
	if opts.FilePath != "" {
		log.Infof("using %q as yum repo configuration file", opts.FilePath)
	}

	eng, err := NewEngine(models.RepoProfile(), Options{
		DirPath:         dirPath,
		FilePath:        opts.FilePath,
		EnvironmentFile: opts.EnvironmentFile,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	getter := opts.Getter
	if getter == nil {
		getter = fetch.NewClient(log)
	}
	return &RepoConfig{eng: eng, getter: getter, log: log}, nil
}

// Engine exposes the underlying engine.
func (r *RepoConfig) Engine() *Engine {
	return r.eng
}

// UpdateSection merges opts into an existing repo section. The enabled
// tri-state is folded into the option map: true writes enabled=1, false
// enabled=0, nil leaves the option alone.
func (r *RepoConfig) UpdateSection(section string, opts map[string]string, filePath string, enabled *bool) error {
	update := withEnabled(opts, enabled)
	if len(update) == 0 {
		return nil
	}
	return r.eng.UpdateSection(section, update, filePath)
}

// AddSection creates a new repo section in the given file.
func (r *RepoConfig) AddSection(section string, opts map[string]string, filePath string, enabled *bool) error {
	add := withEnabled(opts, enabled)
	return r.eng.AddSection(section, add, filePath)
}

// UpdateAllSections merges opts into every section of the given repo file.
func (r *RepoConfig) UpdateAllSections(filePath string, opts map[string]string, enabled *bool) error {
	update := withEnabled(opts, enabled)
	if len(update) == 0 {
		return nil
	}
	return r.eng.UpdateAllSections(update, filePath)
}

// AddOrUpdateSection updates a repo section, creating it (and its file,
// when createIfMissing is set and an explicit path was given) if no
// configuration file contains it yet. When fromURL is set, the section's
// options are seeded from the repo file downloaded there, with opts merged
// on top. A name option is injected when the caller supplied none.
func (r *RepoConfig) AddOrUpdateSection(section string, opts map[string]string, filePath string, enabled *bool, createIfMissing bool, fromURL string) error {
	update := make(map[string]string, len(opts)+1)
	if fromURL != "" {
		remote, remoteName, err := r.fetchRepoDocument(fromURL)
		if err != nil {
			return err
		}
		if !remote.HasSection(section) {
			return models.NewError(models.ErrInvalidSection,
				"the provided section %q was not found in the document downloaded from %s",
				section, fromURL)
		}
		for key, value := range remote.Options(section) {
			update[key] = value
		}
		if filePath == "" && remoteName != "" {
			filePath = filepath.Join(r.eng.DirPath(), remoteName)
		}
	}
	for key, value := range opts {
		update[key] = value
	}
	if _, ok := update["name"]; !ok {
		// Sections without a name confuse dnf when listing repos.
		update["name"] = section
	}

	err := r.UpdateSection(section, update, filePath, enabled)
	switch {
	case err == nil:
		return nil
	case models.IsKind(err, models.ErrNotFound):
		if !createIfMissing || filePath == "" {
			return err
		}
		if err := inifile.CreateEmptyFile(filePath); err != nil {
			return err
		}
		r.log.Debugf("created new repo configuration file %q", filePath)
		return r.AddSection(section, update, filePath, enabled)
	case models.IsKind(err, models.ErrInvalidSection):
		return r.AddSection(section, update, filePath, enabled)
	default:
		return err
	}
}

// AddOrUpdateAllSectionsFromURL downloads a repo file and applies
// AddOrUpdateSection for every section it contains. With no explicit
// destination, the downloaded file's own name decides which file under the
// repo directory receives the sections.
func (r *RepoConfig) AddOrUpdateAllSectionsFromURL(fromURL, filePath string, opts map[string]string, enabled *bool) error {
	remote, remoteName, err := r.fetchRepoDocument(fromURL)
	if err != nil {
		return err
	}
	if filePath == "" && remoteName != "" {
		filePath = filepath.Join(r.eng.DirPath(), remoteName)
	}

	for _, section := range remote.SectionNames() {
		update := remote.Options(section)
		for key, value := range opts {
			update[key] = value
		}
		if err := r.AddOrUpdateSection(section, update, filePath, enabled, true, ""); err != nil {
			return err
		}
	}
	return nil
}

// fetchRepoDocument downloads and parses an INI document. The second return
// value is the destination file name inferred from the URL, empty when the
// URL does not point at a repo file.
func (r *RepoConfig) fetchRepoDocument(fromURL string) (*inifile.Document, string, error) {
	body, err := r.getter.Get(fromURL)
	if err != nil {
		return nil, "", err
	}
	doc, err := inifile.Parse(body)
	if err != nil {
		return nil, "", models.WrapError(models.ErrParse, fromURL, err)
	}

	var remoteName string
	if parsed, err := url.Parse(fromURL); err == nil {
		if base := path.Base(parsed.Path); strings.HasSuffix(base, models.RepoFileExtension) {
			remoteName = base
		}
	}
	return doc, remoteName, nil
}

// withEnabled copies opts and folds the enabled tri-state into it.
func withEnabled(opts map[string]string, enabled *bool) map[string]string {
	update := make(map[string]string, len(opts)+1)
	for key, value := range opts {
		update[key] = value
	}
	if enabled != nil {
		if *enabled {
			update["enabled"] = "1"
		} else {
			update["enabled"] = "0"
		}
	}
	return update
}
