package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ospdev/yumconf/internal/config"
	"github.com/ospdev/yumconf/internal/models"
)

// NewRepoCmd creates the repo command
func NewRepoCmd() *cobra.Command {
	var (
		name     string
		dirPath  string
		filePath string
		envFile  string
		downURL  string
		setOpts  []string
	)

	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Update or create a yum repo file section",
		Long: `Updates options of a repo file section, creating the section (and
its file) when it does not exist yet. With --down-url and no --name, every
section of the downloaded repo file is applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := enabledFlag(cmd)
			if err != nil {
				return err
			}
			opts, err := parseSetOpts(setOpts)
			if err != nil {
				return err
			}

			repoCfg, err := config.NewRepoConfig(config.RepoOptions{
				DirPath:         dirPath,
				EnvironmentFile: envFile,
				Logger:          logrus.StandardLogger(),
			})
			if err != nil {
				return err
			}

			if name == "" {
				if downURL == "" {
					return fmt.Errorf("a repo name or a url where repo info " +
						"can be downloaded must be provided")
				}
				return repoCfg.AddOrUpdateAllSectionsFromURL(downURL, filePath, opts, enabled)
			}
			return repoCfg.AddOrUpdateSection(name, opts, filePath, enabled, true, downURL)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name of the repo section to be modified")
	cmd.Flags().Bool("enable", false, "Enable the repo")
	cmd.Flags().Bool("disable", false, "Disable the repo")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable")
	cmd.Flags().StringVar(&dirPath, "config-dir-path", models.RepoDir,
		"Directory that holds all repo configuration files")
	cmd.Flags().StringVar(&filePath, "config-file-path", "",
		"Absolute path of the configuration file to be updated")
	cmd.Flags().StringVar(&envFile, "environment-file", "",
		"Environment file to be read before updating repo files")
	cmd.Flags().StringVar(&downURL, "down-url", "",
		"URL of a repo file to be used as base to create or update a repo configuration file")
	cmd.Flags().StringSliceVar(&setOpts, "set-opts", nil,
		"Config options as key=value pairs")

	return cmd
}

// parseSetOpts turns key=value pairs into an option map.
func parseSetOpts(pairs []string) (map[string]string, error) {
	opts := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("set options must be provided as key=value pairs, got %q", pair)
		}
		opts[key] = value
	}
	return opts, nil
}

// enabledFlag folds the --enable/--disable pair into a tri-state.
func enabledFlag(cmd *cobra.Command) (*bool, error) {
	enable, err := cmd.Flags().GetBool("enable")
	if err != nil {
		return nil, err
	}
	disable, err := cmd.Flags().GetBool("disable")
	if err != nil {
		return nil, err
	}
	switch {
	case enable:
		return &enable, nil
	case disable:
		value := false
		return &value, nil
	default:
		return nil, nil
	}
}
