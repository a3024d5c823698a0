package config

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ospdev/yumconf/internal/models"
)

// GlobalOptions configures a GlobalConfig.
type GlobalOptions struct {
	// FilePath is the global configuration file, /etc/yum.conf when empty.
	FilePath string

	// EnvironmentFile is sourced into the process environment before any
	// mutation runs.
	EnvironmentFile string

	Logger logrus.FieldLogger
}

// GlobalConfig manages the yum/dnf global configuration file. The file is
// created with an empty [main] section when it does not exist yet.
type GlobalConfig struct {
	eng      *Engine
	filePath string
	log      logrus.FieldLogger
}

// NewGlobalConfig creates a manager bound to the global configuration file.
func NewGlobalConfig(opts GlobalOptions) (*GlobalConfig, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	filePath := opts.FilePath
	if filePath == "" {
		filePath = models.GlobalConfigPath
	}
	log.Infof("using %q as yum global configuration file", filePath)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := os.WriteFile(filePath, []byte("[main]\n"), 0644); err != nil {
			if os.IsPermission(err) {
				return nil, models.WrapError(models.ErrPermissionDenied, filePath, err)
			}
			return nil, err
		}
		log.Infof("created %q with an empty main section", filePath)
	}

	eng, err := NewEngine(models.GlobalProfile(), Options{
		FilePath:        filePath,
		EnvironmentFile: opts.EnvironmentFile,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}
	return &GlobalConfig{eng: eng, filePath: filePath, log: log}, nil
}

// UpdateSection merges opts into a section of the global configuration
// file.
func (g *GlobalConfig) UpdateSection(section string, opts map[string]string) error {
	return g.eng.UpdateSection(section, opts, g.filePath)
}

// AddSection creates a new section in the global configuration file.
func (g *GlobalConfig) AddSection(section string, opts map[string]string) error {
	return g.eng.AddSection(section, opts, g.filePath)
}

// ReadSection returns the current options of a section.
func (g *GlobalConfig) ReadSection(section string) (map[string]string, error) {
	opts, _, err := g.eng.ReadSection(section)
	return opts, err
}
