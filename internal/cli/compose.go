package cli

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ospdev/yumconf/internal/compose"
	"github.com/ospdev/yumconf/internal/models"
)

// NewComposeCmd creates the compose command
func NewComposeCmd() *cobra.Command {
	var (
		composeURL         string
		release            string
		arch               string
		dirPath            string
		envFile            string
		variants           []string
		disableConflicting bool
		disableRepos       []string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Enable repos from a CentOS compose",
		Long: `Fetches the compose metadata behind --compose-url and writes one
enabled repo section per variant, pinned to the compose id the metadata
declares.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validArch(arch) {
				return fmt.Errorf("architecture %q is not supported, pick one of %s",
					arch, strings.Join(compose.SupportedArchs, ", "))
			}

			gen, err := compose.New(compose.Options{
				ComposeURL:      composeURL,
				Release:         release,
				Arch:            arch,
				DirPath:         dirPath,
				EnvironmentFile: envFile,
				Logger:          logrus.StandardLogger(),
			})
			if err != nil {
				return err
			}

			if err := gen.EnableComposeRepos(variants, disableConflicting); err != nil {
				return err
			}
			return gen.DisableRepoFiles(disableRepos)
		},
	}

	cmd.Flags().StringVar(&composeURL, "compose-url", "", "CentOS compose URL")
	cmd.Flags().StringVar(&release, "release", "centos-stream-8",
		fmt.Sprintf("Target CentOS release (%s)", strings.Join(compose.Releases(), ", ")))
	cmd.Flags().StringVar(&arch, "arch", compose.DefaultArch,
		"Architecture for the destination repos")
	cmd.Flags().StringVar(&dirPath, "config-dir-path", models.RepoDir,
		"Directory that holds all repo configuration files")
	cmd.Flags().StringVar(&envFile, "environment-file", "",
		"Environment file to be read before creating repo files")
	cmd.Flags().StringSliceVar(&variants, "variants", nil,
		"Variants to be enabled, all available ones when unset")
	cmd.Flags().BoolVar(&disableConflicting, "disable-all-conflicting", false,
		"Disable same-named sections in other repo files after enabling compose repos")
	cmd.Flags().StringSliceVar(&disableRepos, "disable-repos", nil,
		"Repo files whose sections are disabled after compose repos are enabled")
	cmd.MarkFlagRequired("compose-url")

	return cmd
}

func validArch(arch string) bool {
	for _, supported := range compose.SupportedArchs {
		if arch == supported {
			return true
		}
	}
	return false
}
