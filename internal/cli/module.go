package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ospdev/yumconf/internal/dnfmodule"
)

// NewModuleCmd creates the module command
func NewModuleCmd() *cobra.Command {
	var (
		stream  string
		profile string
	)

	cmd := &cobra.Command{
		Use:       "module <enable|disable|install|remove|reset> <name>",
		Short:     "Run a dnf module operation",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"enable", "disable", "install", "remove", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := dnfmodule.NewManager(logrus.StandardLogger())
			return mgr.Run(cmd.Context(),
				dnfmodule.Operation(args[0]), args[1], stream, profile)
		},
	}

	cmd.Flags().StringVar(&stream, "stream", "", "Module stream")
	cmd.Flags().StringVar(&profile, "profile", "", "Module profile")

	return cmd
}
