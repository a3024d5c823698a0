package cli

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ospdev/yumconf/internal/config"
)

// NewGlobalCmd creates the global command
func NewGlobalCmd() *cobra.Command {
	var (
		filePath string
		envFile  string
		setOpts  []string
	)

	cmd := &cobra.Command{
		Use:   "global",
		Short: "Update global yum/dnf configuration options",
		Long: `Updates options in the main section of the package manager's
global configuration file. With no --set-opts, the current main section is
printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseSetOpts(setOpts)
			if err != nil {
				return err
			}

			globalCfg, err := config.NewGlobalConfig(config.GlobalOptions{
				FilePath:        filePath,
				EnvironmentFile: envFile,
				Logger:          logrus.StandardLogger(),
			})
			if err != nil {
				return err
			}

			if len(opts) == 0 {
				current, err := globalCfg.ReadSection("main")
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(current))
				for key := range current {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, current[key])
				}
				return nil
			}
			return globalCfg.UpdateSection("main", opts)
		},
	}

	cmd.Flags().StringVar(&filePath, "config-file-path", "",
		"Absolute path of the global configuration file to be updated")
	cmd.Flags().StringVar(&envFile, "environment-file", "",
		"Environment file to be read before updating the configuration")
	cmd.Flags().StringSliceVar(&setOpts, "set-opts", nil,
		"Config options as key=value pairs")

	return cmd
}
