// Package config implements the generic mutation API for INI-format
// configuration files: update, add and bulk-update of sections with a
// validated option set, plus the repo and global specializations built on
// top of it.
package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ospdev/yumconf/internal/envfile"
	"github.com/ospdev/yumconf/internal/inifile"
	"github.com/ospdev/yumconf/internal/models"
)

// Options configures an Engine.
type Options struct {
	// DirPath is the directory searched for configuration files when no
	// explicit file path is given to an operation.
	DirPath string

	// FilePath binds the engine to a single configuration file.
	FilePath string

	// EnvironmentFile is sourced once at construction: its KEY=VALUE pairs
	// are injected into the process environment so ${VAR} references in
	// option values resolve against it.
	EnvironmentFile string

	Logger logrus.FieldLogger
}

// Engine updates sections of INI-format configuration files, enforcing the
// option whitelist of its profile before anything is written.
type Engine struct {
	profile  models.Profile
	dirPath  string
	filePath string
	log      logrus.FieldLogger
}

// NewEngine creates an Engine for the given profile. At least one of
// DirPath and FilePath must be set; both are validated up front.
func NewEngine(profile models.Profile, opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if opts.DirPath == "" && opts.FilePath == "" {
		return nil, models.NewError(models.ErrNotFound,
			"a configuration file path or a directory path must be provided")
	}
	if opts.FilePath != "" {
		if err := inifile.CheckFileWritable(opts.FilePath); err != nil {
			return nil, err
		}
	}
	if opts.DirPath != "" {
		if err := inifile.CheckDir(opts.DirPath); err != nil {
			return nil, err
		}
	}

	if opts.EnvironmentFile != "" {
		vars, err := envfile.ParseFile(opts.EnvironmentFile)
		if err != nil {
			return nil, models.NewError(models.ErrNotFound,
				"the environment file %q could not be read: %v",
				opts.EnvironmentFile, err)
		}
		for key, value := range vars {
			if err := os.Setenv(key, value); err != nil {
				return nil, err
			}
		}
		log.Debugf("sourced %d variables from %q", len(vars), opts.EnvironmentFile)
	}

	return &Engine{
		profile:  profile,
		dirPath:  opts.DirPath,
		filePath: opts.FilePath,
		log:      log,
	}, nil
}

// DirPath returns the directory the engine searches for configuration files.
func (e *Engine) DirPath() string {
	return e.dirPath
}

// UpdateSection merges opts into an existing section. When filePath is
// empty the engine falls back to its bound file, or searches its directory
// and updates the section in every file that contains it.
func (e *Engine) UpdateSection(section string, opts map[string]string, filePath string) error {
	if err := e.profile.Validate(opts); err != nil {
		return err
	}
	opts = expandValues(opts)

	files, err := e.resolveFiles(section, filePath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return models.NewError(models.ErrNotFound,
			"no configuration files were found for the provided section %q", section)
	}

	for _, file := range files {
		if err := inifile.CheckFileWritable(file); err != nil {
			return err
		}
		doc, err := inifile.Load(file)
		if err != nil {
			return err
		}
		if !doc.HasSection(section) {
			return models.NewError(models.ErrInvalidSection,
				"the provided section %q was not found in the configuration file %s",
				section, file)
		}
		doc.MergeSection(section, opts)
		if err := doc.Save(); err != nil {
			return err
		}
	}

	e.log.Infof("section %q was successfully updated", section)
	return nil
}

// AddSection creates a new section with exactly opts in the given file. The
// section must not already exist there.
func (e *Engine) AddSection(section string, opts map[string]string, filePath string) error {
	if filePath == "" {
		filePath = e.filePath
	}
	if filePath == "" {
		return models.NewError(models.ErrNotFound,
			"a configuration file path is required to add a section")
	}
	if err := e.profile.Validate(opts); err != nil {
		return err
	}
	opts = expandValues(opts)

	if err := inifile.CheckFileWritable(filePath); err != nil {
		return err
	}
	doc, err := inifile.Load(filePath)
	if err != nil {
		return err
	}
	if doc.HasSection(section) {
		return models.NewError(models.ErrInvalidSection,
			"section %q already exists in the configuration file %s", section, filePath)
	}
	doc.MergeSection(section, opts)
	if err := doc.Save(); err != nil {
		return err
	}

	e.log.Infof("section %q was successfully added", section)
	return nil
}

// UpdateAllSections merges opts into every section of the given file.
func (e *Engine) UpdateAllSections(opts map[string]string, filePath string) error {
	if filePath == "" {
		filePath = e.filePath
	}
	if filePath == "" {
		return models.NewError(models.ErrNotFound,
			"a configuration file path is required to update all sections")
	}
	if err := e.profile.Validate(opts); err != nil {
		return err
	}
	opts = expandValues(opts)

	if err := inifile.CheckFileWritable(filePath); err != nil {
		return err
	}
	doc, err := inifile.Load(filePath)
	if err != nil {
		return err
	}
	for _, section := range doc.SectionNames() {
		doc.MergeSection(section, opts)
	}
	if err := doc.Save(); err != nil {
		return err
	}

	e.log.Infof("all sections of %q were successfully updated", filePath)
	return nil
}

// ReadSection returns the options of a section along with the file it was
// read from. With no bound file, the first directory match in listing order
// wins and a warning is logged when the section appears in more than one
// file.
func (e *Engine) ReadSection(section string) (map[string]string, string, error) {
	path := e.filePath
	if path == "" {
		if e.dirPath == "" {
			return nil, "", models.NewError(models.ErrNotFound,
				"no configuration files were found for the provided section %q", section)
		}
		match, err := inifile.FirstFileWithSection(
			e.dirPath, e.profile.FileExtension, section, e.log)
		if err != nil {
			return nil, "", err
		}
		if match == "" {
			return nil, "", models.NewError(models.ErrNotFound,
				"no configuration files were found for the provided section %q", section)
		}
		path = match
	}

	doc, err := inifile.Load(path)
	if err != nil {
		return nil, "", err
	}
	if !doc.HasSection(section) {
		return nil, "", models.NewError(models.ErrInvalidSection,
			"the provided section %q was not found in the configuration file %s",
			section, path)
	}
	return doc.Options(section), path, nil
}

// resolveFiles decides which files an operation acts on: an explicit path
// wins, then the engine's bound file, then all directory matches.
func (e *Engine) resolveFiles(section, filePath string) ([]string, error) {
	if filePath == "" {
		filePath = e.filePath
	}
	if filePath != "" {
		return []string{e.resolvePath(filePath)}, nil
	}
	if e.dirPath == "" {
		return nil, nil
	}
	return inifile.FindFilesWithSection(e.dirPath, e.profile.FileExtension, section)
}

// resolvePath interprets a file path that may be relative to the engine's
// directory.
func (e *Engine) resolvePath(filePath string) string {
	if _, err := os.Stat(filePath); err == nil || e.dirPath == "" {
		return filePath
	}
	joined := filepath.Join(e.dirPath, filePath)
	if _, err := os.Stat(joined); err == nil {
		return joined
	}
	return filePath
}

// expandValues expands environment variable references in every value,
// leaving references to undefined variables untouched.
func expandValues(opts map[string]string) map[string]string {
	expanded := make(map[string]string, len(opts))
	for key, value := range opts {
		expanded[key] = envfile.ExpandEnv(value)
	}
	return expanded
}
