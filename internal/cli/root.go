package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yumconf",
		Short: "Manage yum/dnf configuration, repo files and compose repos",
		Long: `Yumconf rewrites yum/dnf configuration files in INI format: it
updates or creates repo file sections, edits the global configuration,
synthesizes repo files from a CentOS compose, drives dnf modules and
resolves DLRN build tags to concrete hashes.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewRepoCmd())
	rootCmd.AddCommand(NewGlobalCmd())
	rootCmd.AddCommand(NewComposeCmd())
	rootCmd.AddCommand(NewModuleCmd())
	rootCmd.AddCommand(NewHashCmd())

	return rootCmd
}
