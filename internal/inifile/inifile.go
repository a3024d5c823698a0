// Package inifile is the low-level store for INI-format configuration
// files: it parses documents, mutates sections and rewrites whole files,
// and resolves which file in a directory holds a given section.
package inifile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	ini "gopkg.in/ini.v1"

	"github.com/ospdev/yumconf/internal/models"
)

func init() {
	// dnf and yum expect "key=value" lines without padding.
	ini.PrettyFormat = false
}

// Document is a parsed INI file, optionally bound to the path it was
// loaded from.
type Document struct {
	file *ini.File
	path string
}

// Parse parses raw INI content.
func Parse(data []byte) (*Document, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, models.WrapError(models.ErrParse, "", err)
	}
	return &Document{file: f}, nil
}

// Load reads and parses the INI file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewError(models.ErrNotFound,
				"the configuration file %q was not found", path)
		}
		if os.IsPermission(err) {
			return nil, models.WrapError(models.ErrPermissionDenied, path, err)
		}
		return nil, err
	}
	f, err := ini.Load(data)
	if err != nil {
		return nil, models.WrapError(models.ErrParse, path,
			fmt.Errorf("unable to parse configuration file: %w", err))
	}
	return &Document{file: f, path: path}, nil
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// HasSection reports whether the document contains a section.
func (d *Document) HasSection(name string) bool {
	if name == ini.DefaultSection {
		return false
	}
	_, err := d.file.GetSection(name)
	return err == nil
}

// SectionNames returns all section names in document order.
func (d *Document) SectionNames() []string {
	var names []string
	for _, name := range d.file.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Options returns a copy of a section's key/value pairs.
func (d *Document) Options(section string) map[string]string {
	sec, err := d.file.GetSection(section)
	if err != nil {
		return nil
	}
	opts := make(map[string]string, len(sec.Keys()))
	for _, key := range sec.Keys() {
		opts[key.Name()] = key.String()
	}
	return opts
}

// MergeSection merges opts into a section, overwriting same-named keys and
// preserving the others. The section is created when absent. New keys are
// appended in sorted order so rewrites are deterministic.
func (d *Document) MergeSection(section string, opts map[string]string) {
	sec := d.file.Section(section)
	keys := make([]string, 0, len(opts))
	for key := range opts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sec.Key(key).SetValue(opts[key])
	}
}

// SaveTo rewrites the whole document to the file at path.
func (d *Document) SaveTo(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return models.WrapError(models.ErrPermissionDenied, path, err)
		}
		return err
	}
	defer f.Close()
	if _, err := d.file.WriteTo(f); err != nil {
		return err
	}
	return f.Sync()
}

// Save rewrites the document to the file it was loaded from.
func (d *Document) Save() error {
	return d.SaveTo(d.path)
}

// CheckFileWritable validates that path names an existing, writable file.
func CheckFileWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return models.NewError(models.ErrNotFound,
			"the configuration file %q was not found in the provided path", path)
	}
	if !isWritable(path) {
		return models.NewError(models.ErrPermissionDenied,
			"the configuration file %q is not writable", path)
	}
	return nil
}

// CheckDir validates that path names an existing directory.
func CheckDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return models.NewError(models.ErrNotFound,
			"the configuration dir %q was not found in the provided path", path)
	}
	return nil
}

// FindFilesWithSection scans dir for writable files matching ext whose
// parsed sections include section, in directory listing order. Files that
// fail to parse are skipped, not reported.
func FindFilesWithSection(dir, ext, section string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, models.NewError(models.ErrNotFound,
			"the configuration dir %q was not found in the provided path", dir)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isWritable(path) {
			continue
		}
		doc, err := Load(path)
		if err != nil {
			continue
		}
		if doc.HasSection(section) {
			matches = append(matches, path)
		}
	}
	return matches, nil
}

// FirstFileWithSection returns the first file in directory listing order
// that contains section, or "" when none does. A warning is logged when the
// section is listed in more than one file.
func FirstFileWithSection(dir, ext, section string, log logrus.FieldLogger) (string, error) {
	matches, err := FindFilesWithSection(dir, ext, section)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	if len(matches) > 1 {
		log.Warnf("section %q is listed more than once in configuration files", section)
	}
	return matches[0], nil
}

// CreateEmptyFile creates an empty file at path unless it already exists.
func CreateEmptyFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		if os.IsPermission(err) {
			return models.WrapError(models.ErrPermissionDenied, path, err)
		}
		return err
	}
	return f.Close()
}

func isWritable(path string) bool {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
